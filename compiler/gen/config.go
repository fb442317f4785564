package gen

import (
	"runtime"

	repogen "github.com/syssam/repogen"
	"github.com/syssam/repogen/dialect"
	"github.com/syssam/repogen/schema"
)

// Config carries the generation settings. Build one with NewConfig and the
// With* options; the zero value is not usable.
type Config struct {
	// Dialect is the target SQL dialect for emitted query text.
	Dialect string
	// Target is the output directory for generated files.
	Target string
	// Package is the package name of generated files.
	Package string
	// Header is the comment placed at the top of each generated file.
	Header string
	// Workers caps the number of repositories generated in parallel.
	Workers int
	// Cache, when set, stores lowered queries keyed by entity fingerprint,
	// method and dialect so unchanged methods skip the compile pipeline.
	Cache repogen.Cache
}

// Option configures code generation.
type Option func(*Config) error

// WithDialect sets the target SQL dialect.
func WithDialect(name string) Option {
	return func(c *Config) error {
		if err := dialect.Validate(name); err != nil {
			return schema.NewConfigError("", "Dialect", "unsupported dialect", err)
		}
		c.Dialect = name
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return schema.NewConfigError("", "Target", "target directory cannot be empty", nil)
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the package name of generated files.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return schema.NewConfigError("", "Package", "package name cannot be empty", nil)
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return schema.NewConfigError("", "Workers", "worker count must be positive", nil)
		}
		c.Workers = n
		return nil
	}
}

// WithCache sets the lowered-query cache.
func WithCache(cache repogen.Cache) Option {
	return func(c *Config) error {
		c.Cache = cache
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// NewConfig creates a new Config with the given options. Dialect is
// required; Package defaults to "repos", Workers to GOMAXPROCS and Header
// to the standard generated-code marker.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Package: "repos",
		Workers: runtime.GOMAXPROCS(0),
		Header:  "Code generated by repogen. DO NOT EDIT.",
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	if c.Dialect == "" {
		return nil, schema.NewConfigError("", "Dialect", "no dialect set", nil)
	}
	return c, nil
}
