// Package load reads repository manifests. A manifest is a YAML document
// declaring entities (properties, kinds, optional tenant policy) and the
// repositories derived from them; loading validates everything up front so
// metadata problems surface as ConfigErrors before any method name parses.
package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/repogen/compiler/gen"
	"github.com/syssam/repogen/schema"
)

// A Manifest is the validated content of one manifest file.
type Manifest struct {
	// Package is the requested package name for generated files, if any.
	Package string
	// Entities in declaration order.
	Entities []*schema.Entity
	// Repositories in declaration order, bound to their entities.
	Repositories []gen.Repository
}

// Entity returns the declared entity with the given name.
func (m *Manifest) Entity(name string) (*schema.Entity, bool) {
	for _, e := range m.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

type manifest struct {
	Package      string               `yaml:"package"`
	Entities     []manifestEntity     `yaml:"entities"`
	Repositories []manifestRepository `yaml:"repositories"`
}

type manifestEntity struct {
	Name       string             `yaml:"name"`
	Table      string             `yaml:"table"`
	Tenant     *manifestTenant    `yaml:"tenant"`
	Properties []manifestProperty `yaml:"properties"`
}

type manifestProperty struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Column string `yaml:"column"`
	ID     bool   `yaml:"id"`
}

type manifestTenant struct {
	Property    string `yaml:"property"`
	CrossTenant bool   `yaml:"cross_tenant"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse validates a manifest document.
func Parse(raw []byte) (*Manifest, error) {
	var doc manifest
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, schema.NewConfigError("", "", "malformed manifest", err)
	}

	m := &Manifest{Package: doc.Package}
	for _, me := range doc.Entities {
		if _, ok := m.Entity(me.Name); ok {
			return nil, schema.NewConfigError(me.Name, "", "entity declared twice", nil)
		}
		e, err := buildEntity(me)
		if err != nil {
			return nil, err
		}
		m.Entities = append(m.Entities, e)
	}

	for _, mr := range doc.Repositories {
		e, ok := m.Entity(mr.Entity)
		if !ok {
			return nil, schema.NewConfigError(mr.Entity, "",
				fmt.Sprintf("repository %q references an undeclared entity", mr.Name), nil)
		}
		m.Repositories = append(m.Repositories, gen.Repository{
			Name:    mr.Name,
			Entity:  e,
			Methods: mr.Methods,
		})
	}
	return m, nil
}

type manifestRepository struct {
	Name    string   `yaml:"name"`
	Entity  string   `yaml:"entity"`
	Methods []string `yaml:"methods"`
}

func buildEntity(me manifestEntity) (*schema.Entity, error) {
	props := make([]*schema.Property, 0, len(me.Properties))
	var opts []schema.Option
	for _, mp := range me.Properties {
		kind, err := schema.ParseKind(mp.Kind)
		if err != nil {
			return nil, schema.NewConfigError(me.Name, mp.Name, "unknown property kind", err)
		}
		p := &schema.Property{Name: mp.Name, Column: mp.Column, Kind: kind}
		props = append(props, p)
		if mp.ID {
			opts = append(opts, schema.WithID(mp.Name))
		}
	}
	if me.Table != "" {
		opts = append(opts, schema.WithTable(me.Table))
	}
	if me.Tenant != nil {
		policy := schema.MultiTenant()
		if me.Tenant.Property != "" {
			policy = policy.TenantProperty(me.Tenant.Property)
		}
		if me.Tenant.CrossTenant {
			policy = policy.CrossTenant()
		}
		opts = append(opts, schema.WithTenant(policy))
	}
	return schema.NewEntity(me.Name, props, opts...)
}
