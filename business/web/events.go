package web

import (
	"time"

	"github.com/superfeelapi/goVeritas/business/detector"
)

// VerdictTopic is the broker topic carrying VerdictEvent values.
const VerdictTopic = "verdicts"

type VerdictEvent struct {
	ID             string                  `json:"id"`
	Language       string                  `json:"language"`
	Classification detector.Classification `json:"classification"`
	Confidence     float64                 `json:"confidence"`
	Degraded       bool                    `json:"degraded"`
	ElapsedMs      int64                   `json:"elapsedMs"`
	At             time.Time               `json:"at"`
}
