package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/soypete/pedroblog/pkg/database"
)

// File names searched by LoadDefault, in order, in the current directory
// and then the home directory.
var defaultFiles = []string{".pedroblog.json", ".pedroblog.yaml", ".pedroblog.yml"}

// Config represents the pedroblog configuration
type Config struct {
	Database database.Config `json:"database" yaml:"database"`
	Author   AuthorConfig    `json:"author" yaml:"author"`
	Web      WebConfig       `json:"web" yaml:"web"`
	Debug    DebugConfig     `json:"debug" yaml:"debug"`
}

// AuthorConfig is the single author every post is attributed to
type AuthorConfig struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// WebConfig contains HTTP server settings
type WebConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// Addr returns host:port for net.Listen.
func (w WebConfig) Addr() string {
	return net.JoinHostPort(w.Host, strconv.Itoa(w.Port))
}

// DebugConfig contains debug settings
type DebugConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{Database: database.DefaultConfig()}
	c.setDefaults()
	return c
}

// Load loads configuration from a JSON or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()
	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadDefault loads .env, then the first config file found in the current
// directory or home. Without a config file the defaults are used.
func LoadDefault() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	if path, ok := findConfigFile(); ok {
		return Load(path)
	}

	config := &Config{}
	config.applyEnv()
	config.setDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadDotEnv exports the variables in path unless already set. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() (string, bool) {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		for _, name := range defaultFiles {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, true
			}
		}
	}
	return "", false
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv("PEDROBLOG_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("PEDROBLOG_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
		if c.Database.Driver == "" {
			c.Database.Driver = "postgres"
		}
	}
	if v := os.Getenv("PEDROBLOG_AUTHOR"); v != "" {
		c.Author.Name = v
	}
	if v := os.Getenv("PEDROBLOG_AUTHOR_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Author.ID = id
		}
	}
	if v := os.Getenv("PEDROBLOG_ADDR"); v != "" {
		if host, port, err := net.SplitHostPort(v); err == nil {
			c.Web.Host = host
			if p, err := strconv.Atoi(port); err == nil {
				c.Web.Port = p
			}
		}
	}
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	// Database defaults
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if d, _ := c.Database.Dialect(); d == database.DialectSQLite && c.Database.Path == "" {
		c.Database.Path = database.DefaultConfig().Path
	}

	// Author defaults
	if c.Author.ID == 0 {
		c.Author.ID = 1
	}
	if c.Author.Name == "" {
		c.Author.Name = "Shreyas"
	}

	// Web defaults
	if c.Web.Host == "" {
		c.Web.Host = "127.0.0.1"
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8080
	}

	// Debug defaults
	if c.Debug.LogLevel == "" {
		c.Debug.LogLevel = "info"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.Database.Dialect(); err != nil {
		return err
	}

	if _, err := c.Database.DSN(false); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}

	if c.Author.ID <= 0 {
		return fmt.Errorf("author id must be positive: %d", c.Author.ID)
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port: %d", c.Web.Port)
	}

	if _, err := parseLevel(c.Debug.LogLevel); err != nil {
		return err
	}

	return nil
}

// SlogLevel returns the configured log level. Debug.Enabled forces debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Debug.Enabled {
		return slog.LevelDebug
	}
	level, err := parseLevel(c.Debug.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", s)
	}
}
