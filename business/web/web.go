// Package web is the HTTP shell around the detector: authentication, request
// validation, payload spooling and the live verdict feed.
package web

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/superfeelapi/goVeritas/foundation/pubsub"
	"github.com/superfeelapi/goVeritas/foundation/spool"
	"github.com/superfeelapi/goVeritas/foundation/state"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	apiKeyHeader    = "x-api-key"
	requestIDHeader = "X-Request-ID"

	defaultMaxConcurrent = 4
	defaultMaxBodyBytes  = 32 << 20
)

type API struct {
	config   Config
	logger   *zap.SugaredLogger
	analyzer Analyzer
	spool    *spool.Spool
	broker   *pubsub.Broker
	state    *state.State

	sem      *semaphore.Weighted
	upgrader websocket.Upgrader
}

func New(s Settings) *API {
	if s.MaxConcurrent <= 0 {
		s.MaxConcurrent = defaultMaxConcurrent
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = defaultMaxBodyBytes
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop().Sugar()
	}
	if s.Broker == nil {
		s.Broker = pubsub.NewBroker()
	}
	if s.State == nil {
		s.State = state.NewState()
	}
	s.State.Set(state.Feed, !s.DisableFeed)

	return &API{
		config:   s.Config,
		logger:   s.Logger,
		analyzer: s.Analyzer,
		spool:    s.Spool,
		broker:   s.Broker,
		state:    s.State,
		sem:      semaphore.NewWeighted(s.MaxConcurrent),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the routed gin engine.
func (a *API) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), a.requestLogger())

	if a.config.StaticDir != "" {
		r.Static("/static", a.config.StaticDir)
		r.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(a.config.StaticDir, "index.html"))
		})
	}

	r.GET("/healthz", a.health)

	r.POST("/api/voice-detection", a.authenticate(false), a.detect)

	// Browsers cannot set headers on a websocket handshake.
	r.GET("/api/verdicts/feed", a.authenticate(true), a.feed)

	return r
}

func (a *API) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"policy":   a.config.PolicyVersion,
		"services": a.state.Snapshot(),
	})
}

// =====================================================================================================================

func (a *API) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		a.logger.Infow("web: request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"requestID", c.Writer.Header().Get(requestIDHeader),
			"elapsed", time.Since(start).String(),
		)
	}
}

func (a *API) authenticate(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(apiKeyHeader)
		if key == "" && allowQuery {
			key = c.Query("key")
		}

		switch {
		case key == "":
			abort(c, http.StatusUnauthorized, "Missing API Key")
			return
		case key != a.config.APIKey:
			abort(c, http.StatusUnauthorized, "Invalid API Key")
			return
		}

		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Status:  "error",
		Message: message,
	})
}
