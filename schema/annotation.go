package schema

// DefaultTenantProperty is the property name assumed by a tenant policy that
// does not name one explicitly. The fallback is applied by the tenant
// resolver, never stored back into the policy, so the policy record keeps
// reflecting exactly what was declared.
const DefaultTenantProperty = "TenantId"

// A TenantPolicy marks an entity as multi-tenant. Its presence on an entity
// means every derived query carries an implicit equality filter on the
// tenant property.
//
// Two styles are supported, following the annotation conventions used across
// the schema packages. Struct literal:
//
//	schema.WithTenant(&schema.TenantPolicy{Property: "OrganizationId"})
//
// or functional:
//
//	schema.WithTenant(schema.MultiTenant().TenantProperty("OrganizationId"))
type TenantPolicy struct {
	// Property names the tenant discriminator property. Empty means the
	// DefaultTenantProperty.
	Property string

	// AllowCrossTenant exposes an additional cross-tenant query variant
	// alongside the tenant-scoped one. It never removes the implicit
	// filter from the default variant.
	AllowCrossTenant bool
}

// MultiTenant returns a tenant policy with all defaults: the tenant property
// is DefaultTenantProperty and cross-tenant queries are not allowed.
func MultiTenant() *TenantPolicy {
	return &TenantPolicy{}
}

// TenantProperty sets the tenant discriminator property.
func (t *TenantPolicy) TenantProperty(name string) *TenantPolicy {
	t.Property = name
	return t
}

// CrossTenant allows exposing cross-tenant query variants.
func (t *TenantPolicy) CrossTenant() *TenantPolicy {
	t.AllowCrossTenant = true
	return t
}
