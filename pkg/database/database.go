// Package database provides database connection and migration management for pedroblog.
// It supports both SQLite and PostgreSQL backends.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// goose keeps its base FS, dialect and logger in package globals.
var gooseMu sync.Mutex

// Dialect identifies the SQL flavour spoken by an open connection.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// DB represents a database connection with migration support.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Config holds database configuration.
type Config struct {
	Driver   string `json:"driver" yaml:"driver"`     // "sqlite" or "postgres"
	Path     string `json:"path" yaml:"path"`         // SQLite file path
	URL      string `json:"url" yaml:"url"`           // PostgreSQL connection URL, overrides the fields below
	Host     string `json:"host" yaml:"host"`         // PostgreSQL host
	Port     int    `json:"port" yaml:"port"`         // PostgreSQL port
	Name     string `json:"name" yaml:"name"`         // PostgreSQL database name
	User     string `json:"user" yaml:"user"`         // PostgreSQL user
	Password string `json:"password" yaml:"password"` // PostgreSQL password
	SSLMode  string `json:"ssl_mode" yaml:"ssl_mode"` // PostgreSQL SSL mode
}

// DefaultConfig returns the local SQLite file the blog has always used.
func DefaultConfig() Config {
	return Config{
		Driver: "sqlite",
		Path:   "./data.db3",
	}
}

// Dialect resolves the configured driver name.
func (c Config) Dialect() (Dialect, error) {
	switch c.Driver {
	case "sqlite", "sqlite3", "":
		return DialectSQLite, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", c.Driver)
	}
}

// DSN builds the driver connection string. When create is false a missing
// SQLite file is an error instead of being created empty.
func (c Config) DSN(create bool) (string, error) {
	dialect, err := c.Dialect()
	if err != nil {
		return "", err
	}

	switch dialect {
	case DialectPostgres:
		if c.URL != "" {
			return c.URL, nil
		}
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		port := c.Port
		if port == 0 {
			port = 5432
		}
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, port, c.User, c.Password, c.Name, sslMode,
		), nil
	default:
		if c.Path == "" {
			return "", fmt.Errorf("sqlite database path is required")
		}
		mode := "rw"
		if create {
			mode = "rwc"
		}
		// '?' and '#' in the path would otherwise start URI parameters
		path := (&url.URL{Path: c.Path}).EscapedPath()
		return fmt.Sprintf("file:%s?mode=%s&_busy_timeout=5000", path, mode), nil
	}
}

// Open opens a single-connection handle to an existing database and verifies
// it answers. Callers own the handle and must Close it.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	return open(ctx, cfg, false)
}

// OpenOrCreate is Open for schema setup: a missing SQLite file (and its
// directory) is created.
func OpenOrCreate(ctx context.Context, cfg Config) (*DB, error) {
	if dialect, err := cfg.Dialect(); err == nil && dialect == DialectSQLite && cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return open(ctx, cfg, true)
}

func open(ctx context.Context, cfg Config, create bool) (*DB, error) {
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN(create)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:      db,
		dialect: dialect,
	}, nil
}

// Dialect returns the SQL dialect of the connection.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// NowExpr is the engine-side "current local timestamp as text" expression.
func (d *DB) NowExpr() string {
	if d.dialect == DialectPostgres {
		return "to_char(now(), 'YYYY-MM-DD HH24:MI:SS')"
	}
	return "datetime('now')"
}

func (d *DB) migrationsDir() string {
	if d.dialect == DialectPostgres {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}

// withGoose configures goose for this connection and runs fn while holding
// the package lock.
func (d *DB) withGoose(out io.Writer, fn func(dir string) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if out == nil {
		out = io.Discard
	}
	goose.SetLogger(log.New(out, "", 0))

	if err := goose.SetDialect(string(d.dialect)); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return fn(d.migrationsDir())
}

// Migrate runs all pending migrations.
func (d *DB) Migrate(ctx context.Context, out io.Writer) error {
	return d.withGoose(out, func(dir string) error {
		if err := goose.UpContext(ctx, d.DB, dir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	})
}

// Rollback reverts the most recent migration.
func (d *DB) Rollback(ctx context.Context, out io.Writer) error {
	return d.withGoose(out, func(dir string) error {
		if err := goose.DownContext(ctx, d.DB, dir); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return nil
	})
}

// Status writes the applied/pending state of every migration to out.
func (d *DB) Status(ctx context.Context, out io.Writer) error {
	return d.withGoose(out, func(dir string) error {
		if err := goose.StatusContext(ctx, d.DB, dir); err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		return nil
	})
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.DB.Close()
}
