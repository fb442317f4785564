// Package schema defines the entity metadata consumed by the repogen
// compiler: entities, their properties and the multi-tenant policy. Metadata
// is validated once at construction and immutable afterwards, so a single
// Entity may be shared read-only by any number of concurrent method parses.
package schema

import (
	"fmt"
	"hash/fnv"
	"sort"
	"unicode"

	"github.com/go-openapi/inflect"
)

// A Kind is the semantic scalar kind of a property. It decides which
// predicate operators apply (Regex and Like require a textual kind) and how
// the generated code types the query parameter.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt
	KindInt64
	KindFloat64
	KindTime
	KindUUID
	KindBytes
	KindEnum
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindBool:    "bool",
	KindInt:     "int",
	KindInt64:   "int64",
	KindFloat64: "float64",
	KindTime:    "time",
	KindUUID:    "uuid",
	KindBytes:   "bytes",
	KindEnum:    "enum",
}

// String returns the kind name as accepted by ParseKind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindInvalid]
	}
	return kindNames[k]
}

// Textual reports whether the kind holds text. Pattern operators (Regex,
// Like) are only valid on textual kinds.
func (k Kind) Textual() bool {
	return k == KindString || k == KindEnum
}

// Numeric reports whether the kind holds a number.
func (k Kind) Numeric() bool {
	switch k {
	case KindInt, KindInt64, KindFloat64:
		return true
	}
	return false
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if Kind(k) != KindInvalid && name == s {
			return Kind(k), nil
		}
	}
	return KindInvalid, fmt.Errorf("schema: unknown property kind %q", s)
}

// A Property describes one scalar property of an entity and the column that
// backs it. Name is the identifier that appears inside method signatures
// (e.g. "Email" in FindByEmail); Column is the database column it lowers to.
type Property struct {
	Name   string
	Column string
	Kind   Kind
}

// String returns a string property descriptor.
func String(name string) *Property { return &Property{Name: name, Kind: KindString} }

// Bool returns a bool property descriptor.
func Bool(name string) *Property { return &Property{Name: name, Kind: KindBool} }

// Int returns an int property descriptor.
func Int(name string) *Property { return &Property{Name: name, Kind: KindInt} }

// Int64 returns an int64 property descriptor.
func Int64(name string) *Property { return &Property{Name: name, Kind: KindInt64} }

// Float64 returns a float64 property descriptor.
func Float64(name string) *Property { return &Property{Name: name, Kind: KindFloat64} }

// Time returns a time property descriptor.
func Time(name string) *Property { return &Property{Name: name, Kind: KindTime} }

// UUID returns a uuid property descriptor.
func UUID(name string) *Property { return &Property{Name: name, Kind: KindUUID} }

// Bytes returns a bytes property descriptor.
func Bytes(name string) *Property { return &Property{Name: name, Kind: KindBytes} }

// Enum returns an enum property descriptor.
func Enum(name string) *Property { return &Property{Name: name, Kind: KindEnum} }

// StorageKey overrides the column name. The default is the snake_case form
// of the property name.
func (p *Property) StorageKey(column string) *Property {
	p.Column = column
	return p
}

// An Entity is the normalized description of one entity type: its table, its
// identifier, its properties and an optional tenant policy. Construct with
// NewEntity; the value must not be mutated afterwards.
type Entity struct {
	// Name is the entity type name (e.g. "User").
	Name string
	// Table is the backing table name.
	Table string
	// ID is the identifier property.
	ID *Property
	// Properties holds the entity's properties in declaration order,
	// excluding the identifier.
	Properties []*Property
	// Tenant is the multi-tenant policy, or nil for single-tenant entities.
	Tenant *TenantPolicy

	props map[string]*Property
}

// Option configures entity construction.
type Option func(*Entity) error

// WithTable overrides the table name. The default is the pluralized
// snake_case form of the entity name.
func WithTable(table string) Option {
	return func(e *Entity) error {
		if table == "" {
			return NewConfigError(e.Name, "", "table cannot be empty", nil)
		}
		e.Table = table
		return nil
	}
}

// WithID names the property that acts as the identifier. The named property
// must be one of the entity's declared properties; it is removed from
// Properties and set as ID.
func WithID(name string) Option {
	return func(e *Entity) error {
		for i, p := range e.Properties {
			if p.Name == name {
				e.ID = p
				e.Properties = append(e.Properties[:i], e.Properties[i+1:]...)
				delete(e.props, name)
				return nil
			}
		}
		return NewConfigError(e.Name, name, "id property not declared", nil)
	}
}

// WithTenant declares the entity multi-tenant under the given policy.
func WithTenant(t *TenantPolicy) Option {
	return func(e *Entity) error {
		e.Tenant = t
		return nil
	}
}

// NewEntity builds and validates an Entity. Property names must be unique,
// and a declared tenant property must exist; violations are ConfigErrors —
// they are detected here, before any method signature is parsed.
func NewEntity(name string, properties []*Property, opts ...Option) (*Entity, error) {
	if err := validName(name); err != nil {
		return nil, NewConfigError(name, "", "invalid entity name", err)
	}
	e := &Entity{
		Name:       name,
		Table:      inflect.Tableize(name),
		Properties: make([]*Property, 0, len(properties)),
		props:      make(map[string]*Property, len(properties)),
	}
	for _, p := range properties {
		if err := validName(p.Name); err != nil {
			return nil, NewConfigError(name, p.Name, "invalid property name", err)
		}
		if _, ok := e.props[p.Name]; ok {
			return nil, NewConfigError(name, p.Name, "duplicate property", nil)
		}
		if p.Kind == KindInvalid {
			return nil, NewConfigError(name, p.Name, "property has no kind", nil)
		}
		if p.Column == "" {
			p.Column = inflect.Underscore(p.Name)
		}
		e.Properties = append(e.Properties, p)
		e.props[p.Name] = p
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.ID == nil {
		e.ID = &Property{Name: "Id", Column: "id", Kind: KindInt64}
		if _, ok := e.props["Id"]; ok {
			return nil, NewConfigError(name, "Id", "property collides with the implicit identifier; use WithID", nil)
		}
	}
	if t := e.Tenant; t != nil {
		prop := t.Property
		if prop == "" {
			prop = DefaultTenantProperty
		}
		if _, ok := e.Property(prop); !ok {
			return nil, NewConfigError(name, prop, "tenant property not found on entity", nil)
		}
	}
	return e, nil
}

// Property returns the property with the given name. The identifier property
// is included in the lookup.
func (e *Entity) Property(name string) (*Property, bool) {
	if e.ID != nil && e.ID.Name == name {
		return e.ID, true
	}
	p, ok := e.props[name]
	return p, ok
}

// PropertyNames returns all property names, identifier included, sorted
// longest-first. The tokenizer matches method-name segments against this
// order so that "NameFirst" is never shadowed by "Name".
func (e *Entity) PropertyNames() []string {
	names := make([]string, 0, len(e.Properties)+1)
	if e.ID != nil {
		names = append(names, e.ID.Name)
	}
	for _, p := range e.Properties {
		names = append(names, p.Name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// Columns returns the column names in projection order: identifier first,
// then properties in declaration order.
func (e *Entity) Columns() []string {
	cols := make([]string, 0, len(e.Properties)+1)
	if e.ID != nil {
		cols = append(cols, e.ID.Column)
	}
	for _, p := range e.Properties {
		cols = append(cols, p.Column)
	}
	return cols
}

// Fingerprint returns a stable digest of the entity's metadata, used to key
// cached query plans so that metadata edits invalidate prior entries.
func (e *Entity) Fingerprint() string {
	h := fnv.New64a()
	write := func(parts ...string) {
		for _, s := range parts {
			h.Write([]byte(s))
			h.Write([]byte{0})
		}
	}
	write(e.Name, e.Table)
	write(e.ID.Name, e.ID.Column, e.ID.Kind.String())
	for _, p := range e.Properties {
		write(p.Name, p.Column, p.Kind.String())
	}
	if e.Tenant != nil {
		write(e.Tenant.Property, fmt.Sprint(e.Tenant.AllowCrossTenant))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// validName checks that s is an exported Go-style identifier.
func validName(s string) error {
	if s == "" {
		return fmt.Errorf("empty name")
	}
	for i, r := range s {
		switch {
		case i == 0 && !unicode.IsUpper(r):
			return fmt.Errorf("name %q must start with an uppercase letter", s)
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			return fmt.Errorf("name %q contains invalid character %q", s, r)
		}
	}
	return nil
}
