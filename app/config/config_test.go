package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Cleanup(func() { C = Default() })

	path := filepath.Join(t.TempDir(), "matcher.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fuzzy_limit: 20\nsuggest:\n  limit: 3\n"), 0o644))

	require.NoError(t, Load(path))

	assert.Equal(t, 20, C.FuzzyLimit)
	assert.Equal(t, 3, C.Suggest.Limit)
	assert.Equal(t, 0.6, C.Suggest.MinScore)
	assert.Equal(t, 1024, C.Cache.Size)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(func() { C = Default() })
	t.Setenv("FUZZY_LIMIT", "7")
	t.Setenv("MEILI_MIRROR", "1")

	path := filepath.Join(t.TempDir(), "matcher.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fuzzy_limit: 20\n"), 0o644))

	require.NoError(t, Load(path))

	assert.Equal(t, 7, C.FuzzyLimit)
	assert.True(t, C.Mirror.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	t.Cleanup(func() { C = Default() })

	assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fuzzy_limit: [\n"), 0o644))
	assert.Error(t, Load(path))
	assert.Equal(t, Default(), C)
}

func TestSearchOptions(t *testing.T) {
	opts := Default().SearchOptions()

	assert.Equal(t, 50, opts.FuzzyLimit)
	assert.Equal(t, 5, opts.SuggestLimit)
	assert.Equal(t, 0.6, opts.SuggestMinScore)
}
