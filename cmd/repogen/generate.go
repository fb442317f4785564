package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	repogen "github.com/syssam/repogen"
	"github.com/syssam/repogen/compiler/gen"
	"github.com/syssam/repogen/compiler/load"
)

// generateOptions holds flags for the generate command.
type generateOptions struct {
	Manifest string
	Dialect  string
	Target   string
	Package  string
	Workers  int
	Watch    bool
}

func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate query sources from a manifest",
		Long: `Generate reads a YAML manifest declaring entities and repositories,
compiles every repository method into parameterized SQL for the target
dialect and writes one Go file per repository.

Example:
  repogen generate --manifest repogen.yaml --dialect postgres --target ./repos
  repogen generate --manifest repogen.yaml --dialect mysql --target ./repos --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "repogen.yaml", "path to the manifest file")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "target SQL dialect (mysql|postgres|sqlite|sqlserver)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "output directory")
	cmd.Flags().StringVar(&opts.Package, "package", "", "generated package name (defaults to the manifest's)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel workers (defaults to GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "regenerate when the manifest changes")
	_ = cmd.MarkFlagRequired("dialect")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runGenerate(ctx context.Context, opts *generateOptions) error {
	// The cache persists across watch-mode runs, so editing one repository
	// only recompiles its changed methods.
	cache := repogen.NewMemoryCache()
	if err := generateOnce(opts, cache); err != nil && !opts.Watch {
		return err
	} else if err != nil {
		log.Printf("generate: %v", err)
	}
	if !opts.Watch {
		return nil
	}
	return watch(ctx, opts, cache)
}

func generateOnce(opts *generateOptions, cache repogen.Cache) error {
	m, err := load.Load(opts.Manifest)
	if err != nil {
		return err
	}

	genOpts := []gen.Option{
		gen.WithDialect(opts.Dialect),
		gen.WithTarget(opts.Target),
		gen.WithCache(cache),
	}
	switch {
	case opts.Package != "":
		genOpts = append(genOpts, gen.WithPackage(opts.Package))
	case m.Package != "":
		genOpts = append(genOpts, gen.WithPackage(m.Package))
	}
	if opts.Workers > 0 {
		genOpts = append(genOpts, gen.WithWorkers(opts.Workers))
	}

	g, err := gen.NewGenerator(genOpts...)
	if err != nil {
		return err
	}
	diags, err := g.Generate(context.Background(), m.Repositories...)
	if err != nil {
		return err
	}
	for _, d := range diags {
		log.Printf("skipped %s.%s: %s error: %v", d.Repository, d.Method, d.Kind, d.Err)
	}
	log.Printf("generated %d repositories to %s (%d methods skipped)",
		len(m.Repositories), opts.Target, len(diags))
	if len(diags) > 0 {
		return diags
	}
	return nil
}

// watch regenerates on every write to the manifest until the context is
// canceled or an interrupt arrives. Some editors replace the file instead
// of writing in place, so the parent directory is watched and events are
// filtered by name.
func watch(ctx context.Context, opts *generateOptions, cache repogen.Cache) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	manifest, err := filepath.Abs(opts.Manifest)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(manifest)); err != nil {
		return err
	}
	log.Printf("watching %s", manifest)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != manifest || !event.Op.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := generateOnce(opts, cache); err != nil {
				var diags gen.Diagnostics
				if !errors.As(err, &diags) {
					log.Printf("generate: %v", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		}
	}
}
