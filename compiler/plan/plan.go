// Package plan turns a token stream into an immutable query plan: the
// predicate tree, ordering, result shaping and tenant scoping a dialect
// emitter lowers to query text. A plan is built once per method and never
// mutated afterwards; emitters of different dialects may share it.
package plan

import (
	"github.com/syssam/repogen/compiler/token"
	"github.com/syssam/repogen/schema"
)

// A Predicate is one comparison against a property. The bound parameter
// count follows the operator: none for null checks, two for Between, one
// otherwise.
type Predicate struct {
	Property   *schema.Property
	Op         token.Op
	IgnoreCase bool
}

// An Order is one key of the ordering clause.
type Order struct {
	Property  *schema.Property
	Direction token.Direction
}

// A Limit caps the result set. Kind records the declared First/Top spelling;
// both mean the same row limit.
type Limit struct {
	Kind  token.LimitKind
	Count int
}

// A Plan is the structured form of one derived query method.
//
// Combinators sits between adjacent predicates, so its length is always
// len(Predicates)-1 (zero when there is at most one predicate). Tenant is
// the implied tenant-scoping predicate, present iff the entity is
// multi-tenant; it is never part of Predicates and emitters must AND it at
// the outermost level. CrossTenantAllowed only tells the generator whether
// it may expose an unscoped variant; it never removes Tenant.
type Plan struct {
	Entity  *schema.Entity
	Method  string
	Subject string

	Predicates  []Predicate
	Combinators []token.Combinator

	Orders   []Order
	Limit    *Limit
	Distinct bool
	Async    bool

	Tenant             *Predicate
	CrossTenantAllowed bool
}
