package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"langscan/internal/dbscan"
	"langscan/internal/filewalker"
)

// ErrNoRoots is returned when a scan has nowhere to look.
var ErrNoRoots = errors.New("no scan roots configured")

// DefaultConnection is the connection name tables use when none is given
// a DSN in the profile; it falls back to DATABASE_URL.
const DefaultConnection = "db"

// Config is the complete configuration of a scan run.
type Config struct {
	DatabaseURL   string `yaml:"-"`
	Neo4jURI      string `yaml:"-"`
	Neo4jUser     string `yaml:"-"`
	Neo4jPassword string `yaml:"-"`

	WorkerCount       int      `yaml:"workers"`
	Roots             []string `yaml:"roots"`
	Patterns          []string `yaml:"patterns"`
	IgnoredItems      []string `yaml:"ignored_items"`
	IgnoredCategories []string `yaml:"ignored_categories"`

	PHP        PHPConfig        `yaml:"php"`
	JavaScript JavaScriptConfig `yaml:"javascript"`
	PHPArray   PHPArrayConfig   `yaml:"php_array"`
	Database   DatabaseConfig   `yaml:"database"`
}

// PHPConfig configures the PHP function handler.
type PHPConfig struct {
	Translators []string `yaml:"translators"`
}

// JavaScriptConfig configures the JavaScript function handler.
type JavaScriptConfig struct {
	Translators []string `yaml:"translators"`
	Category    string   `yaml:"category"`
}

// PHPArrayConfig configures the annotated array handler.
type PHPArrayConfig struct {
	Category string `yaml:"category"`
}

// DatabaseConfig configures the table reader.
type DatabaseConfig struct {
	// Category is the default category; "tableName" derives it from the table.
	Category    string                       `yaml:"category"`
	Connections map[string]dbscan.Connection `yaml:"connections"`
	Tables      []dbscan.Table               `yaml:"tables"`
}

// Default returns the configuration used when no profile overrides it.
func Default() *Config {
	return &Config{
		WorkerCount:  4,
		Patterns:     []string{"*.php", "*.js"},
		IgnoredItems: append([]string(nil), filewalker.DefaultIgnored...),
		PHP: PHPConfig{
			Translators: []string{"::t"},
		},
		JavaScript: JavaScriptConfig{
			Translators: []string{"lajax.t"},
			Category:    "javascript",
		},
		PHPArray: PHPArrayConfig{
			Category: "array",
		},
		Database: DatabaseConfig{
			Category: "database",
		},
	}
}

// Load reads .env and the environment, then overlays the YAML profile at
// path when path is not empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := Default()
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.Neo4jURI = getEnv("NEO4J_URI", "bolt://localhost:7687")
	cfg.Neo4jUser = getEnv("NEO4J_USER", "neo4j")
	cfg.Neo4jPassword = getEnv("NEO4J_PASSWORD", "password")
	cfg.WorkerCount = getEnvInt("WORKER_COUNT", cfg.WorkerCount)

	if path == "" {
		path = getEnv("LANGSCAN_CONFIG", "")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := cfg.apply(data); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Debug().Str("path", path).Msg("Loaded scan profile")
	}

	return cfg, nil
}

// apply overlays a YAML profile. Keys missing from the profile keep their
// current values.
func (c *Config) apply(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks everything that can be checked without touching the
// file system or a database.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return ErrNoRoots
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker count must be positive, got %d", c.WorkerCount)
	}
	for _, p := range c.Patterns {
		if err := filewalker.ValidatePattern(p); err != nil {
			return fmt.Errorf("validate patterns: %w", err)
		}
	}
	for i, t := range c.Database.Tables {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("database table %d: %w", i, err)
		}
		if _, err := c.DSN(t.Connection); err != nil {
			return fmt.Errorf("database table %d: %w", i, err)
		}
	}
	return nil
}

// ScansPattern reports whether pattern is one of the enabled file patterns.
func (c *Config) ScansPattern(pattern string) bool {
	return slices.Contains(c.Patterns, pattern)
}

// IgnoredCategorySet returns IgnoredCategories as a set.
func (c *Config) IgnoredCategorySet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.IgnoredCategories))
	for _, cat := range c.IgnoredCategories {
		set[cat] = struct{}{}
	}
	return set
}

// DSN resolves a named connection.
func (c *Config) DSN(name string) (dbscan.Connection, error) {
	if conn, ok := c.Database.Connections[name]; ok && conn.DSN != "" {
		return conn, nil
	}
	if name == DefaultConnection && c.DatabaseURL != "" {
		conn := c.Database.Connections[name]
		conn.DSN = c.DatabaseURL
		return conn, nil
	}
	return dbscan.Connection{}, fmt.Errorf("%w: unknown connection %q", dbscan.ErrIncompleteTable, name)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring non-integer environment value")
		return fallback
	}
	return n
}
