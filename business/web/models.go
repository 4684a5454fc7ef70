package web

import (
	"github.com/superfeelapi/goVeritas/business/detector"
	"github.com/superfeelapi/goVeritas/foundation/pubsub"
	"github.com/superfeelapi/goVeritas/foundation/spool"
	"github.com/superfeelapi/goVeritas/foundation/state"
	"go.uber.org/zap"
)

// Analyzer scores the audio file at path. It must never fail.
type Analyzer interface {
	Analyze(path string) detector.Verdict
}

type Settings struct {
	Config
	Logger   *zap.SugaredLogger
	Analyzer Analyzer
	Spool    *spool.Spool
	Broker   *pubsub.Broker
	State    *state.State
}

type Config struct {
	APIKey        string
	Languages     Languages
	PolicyVersion string
	StaticDir     string
	MaxConcurrent int64
	MaxBodyBytes  int64
	DisableFeed   bool
}

// =====================================================================================================================

type detectionRequest struct {
	Language    *string `json:"language" binding:"required"`
	AudioFormat *string `json:"audioFormat" binding:"required"`
	AudioBase64 *string `json:"audioBase64" binding:"required"`
}

type detectionResponse struct {
	Status          string                  `json:"status"`
	Language        string                  `json:"language"`
	Classification  detector.Classification `json:"classification"`
	ConfidenceScore float64                 `json:"confidenceScore"`
	Explanation     string                  `json:"explanation"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
