package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfeelapi/goVeritas/foundation/config"
)

const filepathFixture = "testdata/veritas.json"

func TestGetPolicy(t *testing.T) {
	t.Run("policy exists", func(t *testing.T) {
		t.Parallel()
		policy, err := config.GetPolicy(filepathFixture, "v1")
		require.NoError(t, err)

		assert.Equal(t, 0.5, policy.Neutral)
		assert.Equal(t, config.Rule{Threshold: 15, Weight: 0.25}, policy.HNR)
		assert.Equal(t, config.Rule{Threshold: 2.5, Weight: -0.35}, policy.OrganicMovement)
		assert.Equal(t, 0.55, policy.AIThreshold)
	})

	t.Run("policy does not exist", func(t *testing.T) {
		t.Parallel()
		_, err := config.GetPolicy(filepathFixture, "v0")
		assert.Error(t, err)
	})

	t.Run("file does not exist", func(t *testing.T) {
		t.Parallel()
		_, err := config.GetPolicy("testdata/missing.json", "v1")
		assert.Error(t, err)
	})
}

func TestGetLanguages(t *testing.T) {
	langs, err := config.GetLanguages(filepathFixture)
	require.NoError(t, err)
	assert.Equal(t, []string{"ta", "en", "hi"}, langs)

	langs, err = config.GetLanguages("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLanguages, langs)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"policies": []}`), 0o600))
	langs, err = config.GetLanguages(empty)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLanguages, langs)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"policies": [`), 0o600))

	_, err := config.Load(bad)
	assert.Error(t, err)
}
