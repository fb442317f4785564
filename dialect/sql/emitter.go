// Package sql lowers query plans into parameterized SQL text for one target
// dialect. Lowering is pure: the same plan and dialect always produce the
// same text and the same parameter list, so emitted queries are safe to
// cache and to diff in tests.
package sql

import (
	"strconv"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/repogen/compiler/plan"
	"github.com/syssam/repogen/compiler/token"
	"github.com/syssam/repogen/dialect"
	"github.com/syssam/repogen/schema"
)

// A Param is one named query parameter in placeholder order.
type Param struct {
	// Name is the placeholder name without the @ sigil.
	Name string
	// Property is the property the parameter binds against.
	Property *schema.Property
}

// A Query is the lowered form of one plan: parameterized text plus the
// parameters it expects, in the order their placeholders appear.
type Query struct {
	Text   string
	Params []Param
}

// An Emitter lowers plans for a fixed dialect. Emitters are stateless and
// safe for concurrent use.
type Emitter struct {
	dialect string
}

// NewEmitter returns an emitter for the named dialect.
func NewEmitter(name string) (*Emitter, error) {
	if err := dialect.Validate(name); err != nil {
		return nil, err
	}
	return &Emitter{dialect: name}, nil
}

// Dialect returns the emitter's target dialect name.
func (e *Emitter) Dialect() string { return e.dialect }

// Emit lowers the plan, tenant scoping included. For a multi-tenant entity
// the tenant predicate is ANDed at the outermost level of the WHERE clause
// and the explicit predicate tree is parenthesized, so no Or branch can
// escape the tenant check.
func (e *Emitter) Emit(p *plan.Plan) (*Query, error) {
	return e.emit(p, p.Tenant)
}

// EmitCrossTenant lowers the plan without the implied tenant predicate. It
// refuses unless the entity's policy allows cross-tenant queries.
func (e *Emitter) EmitCrossTenant(p *plan.Plan) (*Query, error) {
	if p.Tenant != nil && !p.CrossTenantAllowed {
		return nil, e.fail(p, ErrCrossTenantDenied, "")
	}
	return e.emit(p, nil)
}

func (e *Emitter) fail(p *plan.Plan, reason error, detail string) *Error {
	return &Error{
		Dialect: e.dialect,
		Entity:  p.Entity.Name,
		Method:  p.Method,
		Detail:  detail,
		Reason:  reason,
	}
}

func (e *Emitter) emit(p *plan.Plan, tenant *plan.Predicate) (*Query, error) {
	q := &Query{}
	seen := make(map[string]int)
	// bind registers a parameter and returns its placeholder. Names are
	// lowerCamel of the property with an optional role suffix; a repeated
	// name gets an ordinal so placeholders stay unique.
	bind := func(prop *schema.Property, suffix string) string {
		name := inflect.CamelizeDownFirst(inflect.Underscore(prop.Name)) + suffix
		seen[name]++
		if n := seen[name]; n > 1 {
			name += strconv.Itoa(n)
		}
		q.Params = append(q.Params, Param{Name: name, Property: prop})
		return "@" + name
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if p.Distinct {
		b.WriteString("DISTINCT ")
	}
	if p.Limit != nil && dialect.UsesTop(e.dialect) {
		b.WriteString("TOP ")
		b.WriteString(strconv.Itoa(p.Limit.Count))
		b.WriteString(" ")
	}
	b.WriteString(strings.Join(p.Entity.Columns(), ", "))
	b.WriteString(" FROM ")
	b.WriteString(p.Entity.Table)

	b.WriteString(" WHERE ")
	if tenant != nil {
		cond, err := e.condition(p, *tenant, bind)
		if err != nil {
			return nil, err
		}
		b.WriteString(cond)
		if len(p.Predicates) > 0 {
			b.WriteString(" AND (")
		}
	}
	for i, pred := range p.Predicates {
		if i > 0 {
			b.WriteString(" ")
			b.WriteString(strings.ToUpper(p.Combinators[i-1].String()))
			b.WriteString(" ")
		}
		cond, err := e.condition(p, pred, bind)
		if err != nil {
			return nil, err
		}
		b.WriteString(cond)
	}
	if tenant != nil && len(p.Predicates) > 0 {
		b.WriteString(")")
	}

	for i, o := range p.Orders {
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(o.Property.Column)
		b.WriteString(" ")
		b.WriteString(strings.ToUpper(o.Direction.String()))
	}

	if p.Limit != nil && !dialect.UsesTop(e.dialect) {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(p.Limit.Count))
	}

	q.Text = b.String()
	return q, nil
}

// condition renders one predicate. bind is called once per operand, in
// placeholder order.
func (e *Emitter) condition(p *plan.Plan, pred plan.Predicate, bind func(*schema.Property, string) string) (string, error) {
	col := pred.Property.Column
	switch pred.Op {
	case token.OpIsNull:
		return col + " IS NULL", nil
	case token.OpNotNull:
		return col + " IS NOT NULL", nil
	case token.OpBetween:
		return col + " BETWEEN " + bind(pred.Property, "From") +
			" AND " + bind(pred.Property, "To"), nil
	case token.OpIn:
		return col + " IN (" + bind(pred.Property, "") + ")", nil
	case token.OpRegex:
		return e.regex(p, pred, bind)
	case token.OpLike:
		if pred.IgnoreCase {
			if e.dialect == dialect.Postgres {
				return col + " ILIKE " + bind(pred.Property, ""), nil
			}
			return "LOWER(" + col + ") LIKE LOWER(" + bind(pred.Property, "") + ")", nil
		}
		return col + " LIKE " + bind(pred.Property, ""), nil
	}

	op := comparisons[pred.Op]
	if pred.IgnoreCase && pred.Property.Kind.Textual() {
		return "LOWER(" + col + ") " + op + " LOWER(" + bind(pred.Property, "") + ")", nil
	}
	return col + " " + op + " " + bind(pred.Property, ""), nil
}

var comparisons = map[token.Op]string{
	token.OpEQ:  "=",
	token.OpNEQ: "<>",
	token.OpGT:  ">",
	token.OpGTE: ">=",
	token.OpLT:  "<",
	token.OpLTE: "<=",
}

// regex renders the regex match for dialects that have one. MySQL's REGEXP
// is already case-insensitive under the default collations and SQLite's
// REGEXP defers to the application-registered function, so only Postgres
// switches operators on IgnoreCase.
func (e *Emitter) regex(p *plan.Plan, pred plan.Predicate, bind func(*schema.Property, string) string) (string, error) {
	col := pred.Property.Column
	switch e.dialect {
	case dialect.MySQL, dialect.SQLite:
		return col + " REGEXP " + bind(pred.Property, ""), nil
	case dialect.Postgres:
		op := "~"
		if pred.IgnoreCase {
			op = "~*"
		}
		return col + " " + op + " " + bind(pred.Property, ""), nil
	}
	return "", e.fail(p, ErrUnsupportedOperator, "Regex on "+pred.Property.Name)
}
