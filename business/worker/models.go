package worker

import (
	"net/http"
	"os"
	"time"

	"github.com/superfeelapi/goVeritas/foundation/pubsub"
	"github.com/superfeelapi/goVeritas/foundation/redis"
	"github.com/superfeelapi/goVeritas/foundation/state"
	"go.uber.org/zap"
)

type Settings struct {
	Config
	Logger  *zap.SugaredLogger
	Handler http.Handler
	Broker  *pubsub.Broker
	State   *state.State
	Redis   *redis.Redis
	Signals <-chan os.Signal
}

type Config struct {
	APIHost         string
	GRPCHost        string
	HealthService   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}
