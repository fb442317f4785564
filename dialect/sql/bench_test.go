package sql

import (
	"testing"

	"github.com/syssam/repogen/compiler/plan"
	"github.com/syssam/repogen/dialect"
	"github.com/syssam/repogen/schema"
)

func benchEntity(b *testing.B, opts ...schema.Option) *schema.Entity {
	b.Helper()
	e, err := schema.NewEntity("User", []*schema.Property{
		schema.String("Email"),
		schema.String("Status"),
		schema.String("Name"),
		schema.Int("Age"),
		schema.String("TenantId"),
	}, opts...)
	if err != nil {
		b.Fatal(err)
	}
	return e
}

func BenchmarkEmit_Simple(b *testing.B) {
	e := benchEntity(b)
	p, err := plan.Build(e, "FindByEmail")
	if err != nil {
		b.Fatal(err)
	}
	for _, d := range []string{dialect.SQLite, dialect.MySQL, dialect.Postgres} {
		b.Run(d, func(b *testing.B) {
			em, err := NewEmitter(d)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := em.Emit(p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEmit_TenantOrChain(b *testing.B) {
	e := benchEntity(b, schema.WithTenant(schema.MultiTenant()))
	p, err := plan.Build(e, "FindByEmailRegexOrStatusOrNameLikeOrderByNameAscAgeDesc")
	if err != nil {
		b.Fatal(err)
	}
	for _, d := range []string{dialect.SQLite, dialect.MySQL, dialect.Postgres} {
		b.Run(d, func(b *testing.B) {
			em, err := NewEmitter(d)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := em.Emit(p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBuild(b *testing.B) {
	e := benchEntity(b)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := plan.Build(e, "FindByEmailRegexAndStatusOrderByNameAscAsync"); err != nil {
			b.Fatal(err)
		}
	}
}
