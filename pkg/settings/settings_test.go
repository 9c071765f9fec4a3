package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "en", s.Value("EmbedLegend/Lang", "en"))
}

func TestSetValuePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetValue("EmbedLegend/Lang", "id"))
	require.NoError(t, s.SetValue("theme", "dark"))
	assert.Equal(t, "id", s.Value("EmbedLegend/Lang", "en"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[EmbedLegend]")
	assert.Contains(t, string(data), `Lang = "id"`)

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "id", reopened.Value("EmbedLegend/Lang", "en"))
	assert.Equal(t, "dark", reopened.Value("theme", ""))
	assert.Equal(t, path, reopened.Path())
}

func TestOpenInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is = = not toml"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}
