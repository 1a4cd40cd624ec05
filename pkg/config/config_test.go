package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv unsets every variable applyEnv reads so the host environment
// does not leak into tests. t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PEDROBLOG_DB_DRIVER", "PEDROBLOG_DB_PATH", "DATABASE_URL",
		"PEDROBLOG_AUTHOR", "PEDROBLOG_AUTHOR_ID", "PEDROBLOG_ADDR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantErr  bool
		errMsg   string
		validate func(*testing.T, *Config)
	}{
		{
			name:    "empty json uses defaults",
			file:    "config.json",
			content: `{}`,
			validate: func(t *testing.T, c *Config) {
				if c.Database.Driver != "sqlite" {
					t.Errorf("Database.Driver = %v, want sqlite", c.Database.Driver)
				}
				if c.Database.Path != "./data.db3" {
					t.Errorf("Database.Path = %v, want ./data.db3", c.Database.Path)
				}
				if c.Author.ID != 1 || c.Author.Name != "Shreyas" {
					t.Errorf("Author = %+v, want {1 Shreyas}", c.Author)
				}
				if c.Web.Addr() != "127.0.0.1:8080" {
					t.Errorf("Web.Addr() = %v, want 127.0.0.1:8080", c.Web.Addr())
				}
				if c.Debug.LogLevel != "info" {
					t.Errorf("Debug.LogLevel = %v, want info", c.Debug.LogLevel)
				}
			},
		},
		{
			name: "json postgres",
			file: "config.json",
			content: `{
				"database": {
					"driver": "postgres",
					"host": "db.internal",
					"name": "blog",
					"user": "pedro"
				},
				"author": {"id": 3, "name": "Pedro"},
				"web": {"host": "0.0.0.0", "port": 9000}
			}`,
			validate: func(t *testing.T, c *Config) {
				if c.Database.Driver != "postgres" {
					t.Errorf("Database.Driver = %v, want postgres", c.Database.Driver)
				}
				if c.Database.Path != "" {
					t.Errorf("Database.Path = %v, want empty for postgres", c.Database.Path)
				}
				if c.Author.ID != 3 || c.Author.Name != "Pedro" {
					t.Errorf("Author = %+v, want {3 Pedro}", c.Author)
				}
				if c.Web.Addr() != "0.0.0.0:9000" {
					t.Errorf("Web.Addr() = %v, want 0.0.0.0:9000", c.Web.Addr())
				}
			},
		},
		{
			name: "yaml sqlite",
			file: "config.yaml",
			content: `
database:
  driver: sqlite
  path: /var/lib/pedroblog/blog.db3
debug:
  enabled: true
  log_level: warn
`,
			validate: func(t *testing.T, c *Config) {
				if c.Database.Path != "/var/lib/pedroblog/blog.db3" {
					t.Errorf("Database.Path = %v", c.Database.Path)
				}
				if !c.Debug.Enabled {
					t.Error("Debug.Enabled should be true")
				}
				if c.SlogLevel() != slog.LevelDebug {
					t.Errorf("SlogLevel() = %v, want debug when enabled", c.SlogLevel())
				}
			},
		},
		{
			name:    "unsupported driver",
			file:    "config.json",
			content: `{"database": {"driver": "mysql"}}`,
			wantErr: true,
			errMsg:  "unsupported database driver",
		},
		{
			name:    "negative author",
			file:    "config.json",
			content: `{"author": {"id": -1}}`,
			wantErr: true,
			errMsg:  "author id must be positive",
		},
		{
			name:    "port out of range",
			file:    "config.yml",
			content: "web:\n  port: 70000\n",
			wantErr: true,
			errMsg:  "invalid web port",
		},
		{
			name:    "bad log level",
			file:    "config.json",
			content: `{"debug": {"log_level": "loud"}}`,
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "malformed json",
			file:    "config.json",
			content: `{"database": `,
			wantErr: true,
			errMsg:  "failed to parse config file",
		},
		{
			name:    "malformed yaml",
			file:    "config.yaml",
			content: "database: [unclosed",
			wantErr: true,
			errMsg:  "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			cfg, err := Load(path)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want containing %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %v, want read failure", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PEDROBLOG_DB_PATH", "/tmp/override.db3")
	t.Setenv("PEDROBLOG_AUTHOR", "Guest")
	t.Setenv("PEDROBLOG_AUTHOR_ID", "9")
	t.Setenv("PEDROBLOG_ADDR", "0.0.0.0:3000")

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"database": {"path": "./file.db3"}, "author": {"name": "File"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/override.db3" {
		t.Errorf("Database.Path = %v, want env override", cfg.Database.Path)
	}
	if cfg.Author.Name != "Guest" || cfg.Author.ID != 9 {
		t.Errorf("Author = %+v, want {9 Guest}", cfg.Author)
	}
	if cfg.Web.Addr() != "0.0.0.0:3000" {
		t.Errorf("Web.Addr() = %v, want 0.0.0.0:3000", cfg.Web.Addr())
	}
}

func TestDatabaseURLImpliesPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://pedro@localhost/blog?sslmode=disable")

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %v, want postgres", cfg.Database.Driver)
	}
}

func TestLoadDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() without files error = %v", err)
	}
	if cfg.Database.Path != "./data.db3" {
		t.Errorf("Database.Path = %v, want default", cfg.Database.Path)
	}

	if err := os.WriteFile(".pedroblog.yaml", []byte("author:\n  name: Local\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := os.WriteFile(".env", []byte("PEDROBLOG_ADDR=127.0.0.1:4000\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	cfg, err = LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if cfg.Author.Name != "Local" {
		t.Errorf("Author.Name = %v, want Local", cfg.Author.Name)
	}
	if cfg.Web.Port != 4000 {
		t.Errorf("Web.Port = %v, want 4000 from .env", cfg.Web.Port)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want info", cfg.SlogLevel())
	}
}
