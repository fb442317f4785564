package plan

import (
	"github.com/syssam/repogen/compiler/token"
	"github.com/syssam/repogen/schema"
	"github.com/syssam/repogen/tenant"
)

// Build tokenizes method against the entity and parses the result. Errors
// keep their family: a malformed name surfaces as a token.Error, a
// well-formed name that describes no valid plan as a plan.Error.
func Build(e *schema.Entity, method string) (*Plan, error) {
	toks, err := token.Tokenize(e, method)
	if err != nil {
		return nil, err
	}
	return Parse(e, method, toks)
}

// Parse builds the plan for one token stream. The stream is consumed in
// order; tokens after an OrderBy marker describe ordering keys, everything
// before it the predicate tree. The entity's tenant policy is resolved last
// and, for multi-tenant entities, attached as the implied Tenant predicate.
func Parse(e *schema.Entity, method string, toks []token.Token) (*Plan, error) {
	p := &Plan{Entity: e, Method: method}
	fail := func(reason error, detail string) (*Plan, error) {
		return nil, &Error{Entity: e.Name, Method: method, Detail: detail, Reason: reason}
	}

	var pending *Predicate
	flush := func() {
		if pending != nil {
			p.Predicates = append(p.Predicates, *pending)
			pending = nil
		}
	}

	inOrder := false
	for _, tok := range toks {
		switch tok.Kind {
		case token.KindSubject:
			p.Subject = tok.Text

		case token.KindProperty:
			prop, ok := e.Property(tok.Text)
			if !ok {
				return fail(token.ErrUnknownProperty, tok.Text)
			}
			if !inOrder {
				pending = &Predicate{Property: prop, Op: token.OpEQ}
				break
			}
			for _, o := range p.Orders {
				if o.Property.Name == prop.Name {
					return fail(ErrDuplicateOrderKey, prop.Name)
				}
			}
			p.Orders = append(p.Orders, Order{Property: prop, Direction: token.Asc})

		case token.KindOperator:
			if tok.Op.Pattern() && !pending.Property.Kind.Textual() {
				return fail(ErrOperatorKind, pending.Property.Name+" is "+pending.Property.Kind.String())
			}
			pending.Op = tok.Op

		case token.KindIgnoreCase:
			pending.IgnoreCase = true

		case token.KindCombinator:
			flush()
			p.Combinators = append(p.Combinators, tok.Combinator)

		case token.KindOrderBy:
			flush()
			inOrder = true

		case token.KindDirection:
			p.Orders[len(p.Orders)-1].Direction = tok.Direction

		case token.KindLimiter:
			flush()
			if p.Limit != nil {
				return fail(ErrDuplicateLimiter, tok.Text)
			}
			p.Limit = &Limit{Kind: tok.Limit, Count: tok.Count}

		case token.KindDistinct:
			p.Distinct = true

		case token.KindAsync:
			flush()
			p.Async = true
		}
	}
	flush()

	switch {
	case len(p.Predicates) == 0:
		return fail(ErrNoPredicates, "")
	case len(p.Combinators) != len(p.Predicates)-1:
		return fail(ErrDanglingCombinator, "")
	}

	if d := tenant.Resolve(e); d.InjectFilter {
		prop, ok := e.Property(d.Property)
		if !ok {
			// NewEntity validates the tenant property, so this only
			// trips on a hand-built entity.
			return fail(token.ErrUnknownProperty, d.Property)
		}
		p.Tenant = &Predicate{Property: prop, Op: token.OpEQ}
		p.CrossTenantAllowed = d.CrossTenantAllowed
	}
	return p, nil
}
