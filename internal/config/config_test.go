package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"langscan/internal/dbscan"
	"langscan/internal/filewalker"
)

const profile = `
roots: [./app, ./common]
ignored_categories: [yii]
php:
  translators: ["::t", "Module::t"]
javascript:
  category: js
database:
  category: tableName
  connections:
    archive:
      dsn: postgres://localhost/archive
      table_prefix: tbl_
  tables:
    - connection: archive
      table: "{{%product}}"
      columns: [name, description]
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "langscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverlaysProfile(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("WORKER_COUNT", "2")

	cfg, err := Load(writeProfile(t, profile))
	require.NoError(t, err)

	assert.Equal(t, []string{"./app", "./common"}, cfg.Roots)
	assert.Equal(t, []string{"::t", "Module::t"}, cfg.PHP.Translators)
	assert.Equal(t, "js", cfg.JavaScript.Category)
	assert.Equal(t, []string{"lajax.t"}, cfg.JavaScript.Translators, "defaults survive")
	assert.Equal(t, "array", cfg.PHPArray.Category)
	assert.Equal(t, filewalker.DefaultIgnored, cfg.IgnoredItems)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, "postgres://localhost/app", cfg.DatabaseURL)

	require.Len(t, cfg.Database.Tables, 1)
	assert.Equal(t, "product", cfg.Database.Tables[0].CategoryFor(cfg.Database.Category))
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeProfile(t, "rootz: [.]\n"))
	assert.Error(t, err)
}

func TestLoadEmptyProfile(t *testing.T) {
	cfg, err := Load(writeProfile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default().Patterns, cfg.Patterns)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Roots = []string{"."}
		return cfg
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Roots = nil
	assert.ErrorIs(t, cfg.Validate(), ErrNoRoots)

	cfg = valid()
	cfg.Patterns = []string{"[*.php"}
	assert.ErrorIs(t, cfg.Validate(), filewalker.ErrBadPattern)

	cfg = valid()
	cfg.WorkerCount = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Database.Tables = []dbscan.Table{{Connection: "db", Table: "t", Columns: []string{"c"}}}
	assert.ErrorIs(t, cfg.Validate(), dbscan.ErrIncompleteTable, "db needs DATABASE_URL")
	cfg.DatabaseURL = "postgres://localhost/app"
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	cfg := Default()
	cfg.DatabaseURL = "postgres://localhost/app"
	cfg.Database.Connections = map[string]dbscan.Connection{
		"db": {TablePrefix: "tbl_"},
	}

	conn, err := cfg.DSN("db")
	require.NoError(t, err)
	assert.Equal(t, dbscan.Connection{DSN: "postgres://localhost/app", TablePrefix: "tbl_"}, conn)

	_, err = cfg.DSN("archive")
	assert.ErrorIs(t, err, dbscan.ErrIncompleteTable)
}
