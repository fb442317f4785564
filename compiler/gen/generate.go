// Package gen orchestrates the compile pipeline over repository
// declarations and writes the generated Go sources. Each method runs
// tokenize, plan and emit independently; repositories generate in parallel
// and a failing method surfaces as a Diagnostic without blocking the rest.
package gen

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	repogen "github.com/syssam/repogen"
	"github.com/syssam/repogen/compiler/plan"
	sqlgen "github.com/syssam/repogen/dialect/sql"
	"github.com/syssam/repogen/schema"
)

// A Repository declares the derived-query methods to generate for one
// entity. Name becomes the prefix of the generated identifiers; when empty
// it defaults to the entity name plus "Repository".
type Repository struct {
	Name    string
	Entity  *schema.Entity
	Methods []string
}

// A Generator compiles repository declarations into generated source files.
type Generator struct {
	cfg     *Config
	emitter *sqlgen.Emitter
}

// NewGenerator returns a generator for the given options.
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	em, err := sqlgen.NewEmitter(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, emitter: em}, nil
}

// compiled is one successfully lowered method, ready for the writer. The
// cross fields are set only when the entity allows cross-tenant queries.
type compiled struct {
	Name        string   `msgpack:"-"`
	Text        string   `msgpack:"text"`
	Params      []string `msgpack:"params"`
	CrossText   string   `msgpack:"cross_text,omitempty"`
	CrossParams []string `msgpack:"cross_params,omitempty"`
}

// Generate compiles and writes all repositories. Method-level failures are
// returned as Diagnostics; the error covers configuration and I/O failures
// that stop a whole repository.
func (g *Generator) Generate(ctx context.Context, repos ...Repository) (Diagnostics, error) {
	if g.cfg.Target == "" {
		return nil, schema.NewConfigError("", "Target", "no target directory set", nil)
	}
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		diags Diagnostics
	)
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.Workers)
	for _, repo := range repos {
		repo := repo
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			methods, repoDiags := g.compile(repo)
			if len(repoDiags) > 0 {
				mu.Lock()
				diags = append(diags, repoDiags...)
				mu.Unlock()
			}
			if len(methods) == 0 {
				return nil
			}
			return g.write(repo, methods)
		})
	}
	if err := errg.Wait(); err != nil {
		return diags, err
	}
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].Repository != diags[j].Repository {
			return diags[i].Repository < diags[j].Repository
		}
		return diags[i].Method < diags[j].Method
	})
	return diags, nil
}

// compile lowers every method of one repository, consulting the cache when
// one is configured.
func (g *Generator) compile(repo Repository) ([]compiled, Diagnostics) {
	name := repo.Name
	if name == "" && repo.Entity != nil {
		name = repo.Entity.Name + "Repository"
	}
	if repo.Entity == nil {
		return nil, Diagnostics{{
			Repository: name,
			Kind:       DiagConfig,
			Err:        schema.NewConfigError("", "Entity", "repository has no entity", nil),
		}}
	}

	var (
		methods []compiled
		diags   Diagnostics
	)
	for _, m := range repo.Methods {
		c, err := g.compileMethod(repo.Entity, m)
		if err != nil {
			diags = append(diags, Diagnostic{
				Repository: name,
				Method:     m,
				Kind:       classify(err),
				Err:        err,
			})
			continue
		}
		methods = append(methods, c)
	}
	return methods, diags
}

func (g *Generator) compileMethod(e *schema.Entity, method string) (compiled, error) {
	key := repogen.CacheKey{
		Entity:  e.Fingerprint(),
		Method:  method,
		Dialect: g.cfg.Dialect,
	}.String()
	if g.cfg.Cache != nil {
		if raw, ok := g.cfg.Cache.Get(key); ok {
			var c compiled
			if err := msgpack.Unmarshal(raw, &c); err == nil {
				c.Name = method
				return c, nil
			}
			// Undecodable entries are recompiled and overwritten.
		}
	}

	p, err := plan.Build(e, method)
	if err != nil {
		return compiled{}, err
	}
	q, err := g.emitter.Emit(p)
	if err != nil {
		return compiled{}, err
	}
	c := compiled{Name: method, Text: q.Text, Params: paramNames(q)}
	if p.Tenant != nil && p.CrossTenantAllowed {
		cq, err := g.emitter.EmitCrossTenant(p)
		if err != nil {
			return compiled{}, err
		}
		c.CrossText = cq.Text
		c.CrossParams = paramNames(cq)
	}

	if g.cfg.Cache != nil {
		if raw, err := msgpack.Marshal(c); err == nil {
			g.cfg.Cache.Set(key, raw)
		}
	}
	return c, nil
}

func paramNames(q *sqlgen.Query) []string {
	names := make([]string, len(q.Params))
	for i, p := range q.Params {
		names[i] = p.Name
	}
	return names
}

// write renders one repository file into the target directory.
func (g *Generator) write(repo Repository, methods []compiled) error {
	f, filename := g.render(repo, methods)
	out, err := os.Create(filepath.Join(g.cfg.Target, filename))
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Render(out)
}
