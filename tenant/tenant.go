// Package tenant resolves an entity's multi-tenant policy into the concrete
// decision the query planner acts on. Resolution is a pure function of the
// entity metadata: no context, no process-wide defaults, no state.
package tenant

import "github.com/syssam/repogen/schema"

// A Decision is the resolved tenant policy for one entity.
type Decision struct {
	// InjectFilter reports whether derived queries must carry an implicit
	// equality predicate on the tenant property.
	InjectFilter bool

	// Property is the tenant discriminator property name. Meaningful only
	// when InjectFilter is true.
	Property string

	// CrossTenantAllowed reports whether a cross-tenant query variant may
	// be exposed alongside the scoped one. It never disables the implicit
	// filter on the default variant.
	CrossTenantAllowed bool
}

// Resolve returns the tenant decision for the entity. The filter is injected
// iff the entity declares a tenant policy; an unnamed tenant property falls
// back to schema.DefaultTenantProperty, and cross-tenant access defaults to
// not allowed.
func Resolve(e *schema.Entity) Decision {
	t := e.Tenant
	if t == nil {
		return Decision{}
	}
	prop := t.Property
	if prop == "" {
		prop = schema.DefaultTenantProperty
	}
	return Decision{
		InjectFilter:       true,
		Property:           prop,
		CrossTenantAllowed: t.AllowCrossTenant,
	}
}

// Doc returns the human-readable documentation lines for a multi-tenant
// entity, byte-for-byte reproducible from the decision. It returns nil when
// no filter is injected so single-tenant entities produce no tenant text.
func (d Decision) Doc() []string {
	if !d.InjectFilter {
		return nil
	}
	access := "Not allowed"
	if d.CrossTenantAllowed {
		access = "Allowed"
	}
	return []string{
		"Tenant property: " + d.Property,
		"Cross-tenant queries: " + access,
	}
}
