package config

type Config struct {
	Policies  []Policy `json:"policies"`
	Languages []string `json:"languages"`
}

// Policy mirrors the scoring policy table of the detector.
type Policy struct {
	Version string  `json:"version"`
	Neutral float64 `json:"neutral"`

	HNR             Rule `json:"hnr"`
	Brightness      Rule `json:"brightness"`
	StaticMovement  Rule `json:"static_movement"`
	OrganicMovement Rule `json:"organic_movement"`

	MinConfidence float64 `json:"min_confidence"`
	MaxConfidence float64 `json:"max_confidence"`
	AIThreshold   float64 `json:"ai_threshold"`
}

type Rule struct {
	Threshold float64 `json:"threshold"`
	Weight    float64 `json:"weight"`
}
