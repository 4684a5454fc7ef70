package web

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/superfeelapi/goVeritas/business/detector"
	"github.com/superfeelapi/goVeritas/foundation/pubsub"
)

const (
	audioFormat = "mp3"
	base64Mark  = "base64,"
)

func (a *API) detect(c *gin.Context) {
	start := time.Now()
	id := uuid.New().String()
	c.Header(requestIDHeader, id)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.config.MaxBodyBytes)

	var req detectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.logger.Debugw("web: detect: bind", "requestID", id, "ERROR", err)
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !strings.EqualFold(*req.AudioFormat, audioFormat) {
		abort(c, http.StatusBadRequest, "Invalid format. Only MP3 is supported.")
		return
	}

	language, ok := a.config.Languages.Normalize(*req.Language)
	if !ok {
		abort(c, http.StatusBadRequest, "Invalid language. Supported: "+a.config.Languages.Supported()+".")
		return
	}

	audio, err := decodeAudio(*req.AudioBase64)
	if err != nil {
		a.logger.Debugw("web: detect: decode", "requestID", id, "ERROR", err)
		abort(c, http.StatusBadRequest, "Malformed Base64 data")
		return
	}

	if err := a.sem.Acquire(c.Request.Context(), 1); err != nil {
		a.logger.Warnw("web: detect: acquire", "requestID", id, "ERROR", err)
		abort(c, http.StatusServiceUnavailable, "Server busy")
		return
	}
	defer a.sem.Release(1)

	var verdict detector.Verdict
	err = a.spool.With(audio, "."+audioFormat, func(path string) error {
		verdict = a.analyzer.Analyze(path)
		return nil
	})
	if err != nil {
		a.logger.Errorw("web: detect: spool", "requestID", id, "ERROR", err)
		abort(c, http.StatusInternalServerError, "Failed to process audio")
		return
	}

	elapsed := time.Since(start)
	if verdict.Degraded {
		a.logger.Warnw("web: detect: degraded verdict", "requestID", id, "language", language, "bytes", len(audio))
	}

	a.publish(VerdictEvent{
		ID:             id,
		Language:       language,
		Classification: verdict.Classification,
		Confidence:     verdict.Confidence,
		Degraded:       verdict.Degraded,
		ElapsedMs:      elapsed.Milliseconds(),
		At:             start.UTC(),
	})

	c.JSON(http.StatusOK, detectionResponse{
		Status:          "success",
		Language:        language,
		Classification:  verdict.Classification,
		ConfidenceScore: verdict.Confidence,
		Explanation:     verdict.Explanation,
	})
}

func (a *API) publish(event VerdictEvent) {
	if _, err := a.broker.Publish(VerdictTopic, event); err != nil {
		if errors.Is(err, pubsub.ErrNoTopic) {
			return
		}
		a.logger.Errorw("web: publish", "ERROR", err)
	}
}

// decodeAudio accepts plain base64 or a data URL. Runes outside the standard
// alphabet are discarded before decoding, so line breaks and stray
// separators do not reject an otherwise valid payload.
func decodeAudio(payload string) ([]byte, error) {
	if _, after, found := strings.Cut(payload, base64Mark); found {
		payload = after
	}

	payload = strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '+', r == '/', r == '=':
			return r
		}
		return -1
	}, payload)

	return base64.StdEncoding.DecodeString(payload)
}
