package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersArePerRun(t *testing.T) {
	a, b := New(), New()
	a.FilesScanned.Add(3)
	a.Matches.WithLabelValues("php-function").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(a.FilesScanned))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Matches.WithLabelValues("php-function")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FilesScanned))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ItemsRecorded.Add(2)

	path := filepath.Join(t.TempDir(), "langscan.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "langscan_items_recorded_total 2")
}
