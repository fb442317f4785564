package gen

import (
	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/repogen/tenant"
)

// exporter upper-cases the first rune of an identifier without touching the
// rest, so a manifest name like "userRepository" still yields an exported
// Go prefix.
var exporter = cases.Title(language.English, cases.NoLower)

// render builds the generated file for one repository and returns it with
// its file name. Per method it declares a query constant and a parameter
// name list; cross-tenant variants get a second pair. Multi-tenant
// repositories carry the tenant policy lines in the doc comment.
func (g *Generator) render(repo Repository, methods []compiled) (*jen.File, string) {
	name := repo.Name
	if name == "" {
		name = repo.Entity.Name + "Repository"
	}
	name = exporter.String(name)

	f := jen.NewFile(g.cfg.Package)
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}

	f.Comment(name + " queries target the " + repo.Entity.Table + " table (" + g.cfg.Dialect + " dialect).")
	for _, line := range tenant.Resolve(repo.Entity).Doc() {
		f.Comment(line)
	}
	f.Line()

	for _, m := range methods {
		f.Const().Id(name + m.Name + "Query").Op("=").Lit(m.Text)
		f.Var().Id(name + m.Name + "Params").Op("=").Index().String().ValuesFunc(func(grp *jen.Group) {
			for _, p := range m.Params {
				grp.Lit(p)
			}
		})
		if m.CrossText != "" {
			f.Const().Id(name + m.Name + "CrossTenantQuery").Op("=").Lit(m.CrossText)
			f.Var().Id(name + m.Name + "CrossTenantParams").Op("=").Index().String().ValuesFunc(func(grp *jen.Group) {
				for _, p := range m.CrossParams {
					grp.Lit(p)
				}
			})
		}
		f.Line()
	}

	return f, inflect.Underscore(name) + ".go"
}
