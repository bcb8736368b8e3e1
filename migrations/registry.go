// Package migrations exposes the embedded tokens schema per SQL dialect.
package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	nuvemshop "github.com/goliatone/go-nuvemshop"
	"github.com/goliatone/go-nuvemshop/core"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	rootDir   = "data/sql/migrations"
	sqliteDir = "sqlite"

	defaultSourceLabel = "go-nuvemshop"
)

// Source is one dialect's migration directory.
type Source struct {
	Dialect string
	Dir     string
	FS      fs.FS
}

type Registration struct {
	SourceLabel string
	Dialects    []string
	Sources     []Source
}

// RegisterFunc receives each selected dialect's migrations, typically
// forwarding them to persistence.Client.RegisterSQLMigrations.
type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

type Option func(*registerOptions)

type registerOptions struct {
	sourceLabel string
	dialects    []string
	root        fs.FS
}

func WithSourceLabel(label string) Option {
	return func(o *registerOptions) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			o.sourceLabel = trimmed
		}
	}
}

// WithDialects limits registration to the named dialects.
func WithDialects(dialects ...string) Option {
	return func(o *registerOptions) {
		selected := normalizeDialects(dialects)
		if len(selected) > 0 {
			o.dialects = selected
		}
	}
}

// WithRoot replaces the embedded tree, mostly for tests.
func WithRoot(root fs.FS) Option {
	return func(o *registerOptions) {
		if root != nil {
			o.root = root
		}
	}
}

// ForDriver maps a database driver name to its migration dialect.
func ForDriver(driver string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(driver)) {
	case core.DriverPostgres:
		return DialectPostgres, nil
	case core.DriverSQLite:
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("migrations: no migrations for database driver %q", driver)
	}
}

// Sources resolves the postgres and sqlite directories of root, or of the
// embedded tree when root is nil. Each directory must hold at least one
// *.up.sql file.
func Sources(root fs.FS) ([]Source, error) {
	if root == nil {
		root = nuvemshop.GetMigrationsFS()
	}
	base, err := fs.Sub(root, rootDir)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve %s: %w", rootDir, err)
	}
	sqliteFS, err := fs.Sub(base, sqliteDir)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite directory: %w", err)
	}

	sources := []Source{
		{Dialect: DialectPostgres, Dir: rootDir, FS: base},
		{Dialect: DialectSQLite, Dir: rootDir + "/" + sqliteDir, FS: sqliteFS},
	}
	for _, source := range sources {
		matches, err := fs.Glob(source.FS, "*.up.sql")
		if err != nil {
			return nil, fmt.Errorf("migrations: glob %s: %w", source.Dir, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("migrations: %s directory %q has no *.up.sql files", source.Dialect, source.Dir)
		}
	}
	return sources, nil
}

// Register hands each selected dialect's migrations to registerFn. All
// dialects are selected unless WithDialects narrows them.
func Register(ctx context.Context, registerFn RegisterFunc, opts ...Option) (Registration, error) {
	options := registerOptions{
		sourceLabel: defaultSourceLabel,
		dialects:    []string{DialectPostgres, DialectSQLite},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	reg := Registration{SourceLabel: options.sourceLabel, Dialects: options.dialects}
	if registerFn == nil {
		return reg, fmt.Errorf("migrations: register function is required")
	}

	sources, err := Sources(options.root)
	if err != nil {
		return reg, err
	}
	reg.Sources = sources

	for _, dialect := range reg.Dialects {
		if !slices.ContainsFunc(sources, func(s Source) bool { return s.Dialect == dialect }) {
			return reg, fmt.Errorf("migrations: unknown dialect %q", dialect)
		}
	}
	for _, source := range sources {
		if !slices.Contains(reg.Dialects, source.Dialect) {
			continue
		}
		if err := registerFn(ctx, source.Dialect, reg.SourceLabel, source.FS); err != nil {
			return reg, fmt.Errorf("migrations: register %s: %w", source.Dialect, err)
		}
	}
	return reg, nil
}

func normalizeDialects(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		dialect := strings.TrimSpace(strings.ToLower(value))
		if dialect == "" || slices.Contains(out, dialect) {
			continue
		}
		out = append(out, dialect)
	}
	return out
}
