package detector

import (
	"errors"
	"fmt"
	"math"

	"github.com/superfeelapi/goVeritas/foundation/config"
)

// Policy is the versioned table of heuristic thresholds and weights.
//
// The v1 constants are hand-tuned, not fitted to labelled data. They must be
// reproduced exactly for compatible output; precision/recall against real AI
// and human corpora is still outstanding.
type Policy struct {
	Version string

	Neutral float64

	HNRThreshold float64 // hnr > threshold adds HNRWeight
	HNRWeight    float64

	BrightnessThreshold float64 // centroid Hz > threshold adds BrightnessWeight
	BrightnessWeight    float64

	StaticMovementThreshold float64 // movement < threshold adds StaticMovementWeight
	StaticMovementWeight    float64

	OrganicMovementThreshold float64 // movement > threshold adds OrganicMovementWeight
	OrganicMovementWeight    float64

	MinConfidence float64
	MaxConfidence float64

	AIThreshold float64 // confidence > threshold classifies as AI_GENERATED
}

// DefaultPolicy returns the v1 policy.
func DefaultPolicy() Policy {
	return Policy{
		Version: "v1",
		Neutral: 0.5,

		HNRThreshold: 15.0,
		HNRWeight:    0.25,

		BrightnessThreshold: 3000,
		BrightnessWeight:    0.15,

		StaticMovementThreshold: 1.5,
		StaticMovementWeight:    0.20,

		OrganicMovementThreshold: 2.5,
		OrganicMovementWeight:    -0.35,

		MinConfidence: 0.01,
		MaxConfidence: 0.99,

		AIThreshold: 0.55,
	}
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	if p.Version == "" {
		return errors.New("policy: missing version")
	}

	values := []float64{
		p.Neutral, p.HNRThreshold, p.HNRWeight, p.BrightnessThreshold, p.BrightnessWeight,
		p.StaticMovementThreshold, p.StaticMovementWeight, p.OrganicMovementThreshold,
		p.OrganicMovementWeight, p.MinConfidence, p.MaxConfidence, p.AIThreshold,
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("policy[%s]: non-finite value", p.Version)
		}
	}

	if p.MinConfidence <= 0 || p.MaxConfidence >= 1 || p.MinConfidence >= p.MaxConfidence {
		return fmt.Errorf("policy[%s]: confidence range [%v, %v] must lie inside (0, 1)", p.Version, p.MinConfidence, p.MaxConfidence)
	}
	if p.StaticMovementThreshold > p.OrganicMovementThreshold {
		return fmt.Errorf("policy[%s]: static movement threshold %v above organic threshold %v", p.Version, p.StaticMovementThreshold, p.OrganicMovementThreshold)
	}
	if p.AIThreshold < p.MinConfidence || p.AIThreshold > p.MaxConfidence {
		return fmt.Errorf("policy[%s]: AI threshold %v outside confidence range", p.Version, p.AIThreshold)
	}

	return nil
}

// PolicyFrom maps a policy loaded from a policy file.
func PolicyFrom(c config.Policy) Policy {
	return Policy{
		Version: c.Version,
		Neutral: c.Neutral,

		HNRThreshold: c.HNR.Threshold,
		HNRWeight:    c.HNR.Weight,

		BrightnessThreshold: c.Brightness.Threshold,
		BrightnessWeight:    c.Brightness.Weight,

		StaticMovementThreshold: c.StaticMovement.Threshold,
		StaticMovementWeight:    c.StaticMovement.Weight,

		OrganicMovementThreshold: c.OrganicMovement.Threshold,
		OrganicMovementWeight:    c.OrganicMovement.Weight,

		MinConfidence: c.MinConfidence,
		MaxConfidence: c.MaxConfidence,

		AIThreshold: c.AIThreshold,
	}
}
