package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfeelapi/goVeritas/business/detector"
	"github.com/superfeelapi/goVeritas/foundation/config"
)

func TestPolicyFromFileMatchesDefault(t *testing.T) {
	c, err := config.GetPolicy("../../foundation/config/testdata/veritas.json", "v1")
	require.NoError(t, err)

	assert.Equal(t, detector.DefaultPolicy(), detector.PolicyFrom(c))
}

func TestAlternatePolicyChangesVerdict(t *testing.T) {
	c, err := config.GetPolicy("../../foundation/config/testdata/veritas.json", "v2-strict")
	require.NoError(t, err)
	strict := detector.PolicyFrom(c)
	require.NoError(t, strict.Validate())

	fs := detector.FeatureSet{HarmonicToNoiseRatio: 16, SpectralBrightness: 1000, MovementScore: 2}

	assert.Equal(t, detector.AIGenerated, detector.Evaluate(fs, detector.DefaultPolicy()).Classification)
	assert.Equal(t, detector.Human, detector.Evaluate(fs, strict).Classification)
}
