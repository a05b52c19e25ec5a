package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LANGSCAN_CONFIG", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScanCommand(t *testing.T) {
	root := t.TempDir()
	src := "<?php echo Yii::t('app', 'Hello'), Yii::t('skip', 'Hidden');\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.php"), []byte(src), 0o644))

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out.json")
	metricsPath := filepath.Join(dir, "langscan.prom")

	out, err := runCLI(t, "scan", "--root", root, "--ignore-category", "skip",
		"--json", jsonPath, "--metrics-file", metricsPath)
	require.NoError(t, err)
	assert.Equal(t, "CATEGORY  MESSAGES\napp       1\nTotal: 1\n", out)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message": "Hello"`)

	data, err = os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "langscan_items_recorded_total 1")
}

func TestScanListMode(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("lajax.t('Save');"), 0o644))

	out, err := runCLI(t, "scan", "--root", root, "--list")
	require.NoError(t, err)
	assert.Equal(t, "[javascript] Save\n", out)
}

func TestScanConfigurationErrors(t *testing.T) {
	_, err := runCLI(t, "scan")
	assert.ErrorContains(t, err, "no scan roots")

	_, err = runCLI(t, "scan", "--root", t.TempDir(), "--pattern", "[*.php")
	assert.Error(t, err)

	_, err = runCLI(t, "scan", "--root", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, err = runCLI(t, "scan", "--root", t.TempDir(), "--lang", "not a tag!")
	assert.True(t, err != nil && strings.Contains(err.Error(), "--lang"))
}
