// Package worker runs the long-lived goroutines of the service and tears them
// down together.
package worker

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/superfeelapi/goVeritas/foundation/pubsub"
	"github.com/superfeelapi/goVeritas/foundation/redis"
	"github.com/superfeelapi/goVeritas/foundation/state"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 20 * time.Second

type Worker struct {
	config  Config
	state   *state.State
	logger  *zap.SugaredLogger
	handler http.Handler
	broker  *pubsub.Broker
	redis   *redis.Redis
	signals <-chan os.Signal

	wg    sync.WaitGroup
	once  sync.Once
	shut  chan struct{}
	error chan error
}

func Run(s Settings) <-chan error {
	if s.State == nil {
		s.State = state.NewState()
	}
	if s.Broker == nil {
		s.Broker = pubsub.NewBroker()
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop().Sugar()
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = defaultShutdownTimeout
	}

	w := &Worker{
		config:  s.Config,
		state:   s.State,
		logger:  s.Logger,
		handler: s.Handler,
		broker:  s.Broker,
		redis:   s.Redis,
		signals: s.Signals,
		shut:    make(chan struct{}),
		error:   make(chan error, 1),
	}

	operations := []func(){
		w.httpOperation,
		w.grpcOperation,
		w.verdictOperation,
		w.signalOperation,
	}

	g := len(operations)
	w.wg.Add(g)

	hasStarted := make(chan bool)

	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return w.error
}

// Shutdown stops every operation. Only the first call has any effect; its
// error is delivered on the channel returned by Run once all goroutines
// have returned.
func (w *Worker) Shutdown(err error) {
	w.once.Do(func() {
		w.logger.Infow("worker: shutdown: started")

		if err != nil {
			w.logger.Errorw("worker: shutdown", "ERROR", err)
		}

		w.logger.Infow("worker: shutdown: terminate goroutines")
		close(w.shut)

		go func() {
			w.wg.Wait()
			w.logger.Infow("worker: shutdown: completed")
			w.error <- err
			close(w.error)
		}()
	})
}

func (w *Worker) signalOperation() {
	w.logger.Infow("worker: signalOperation: G started")
	defer w.logger.Infow("worker: signalOperation: G completed")

	select {
	case sig := <-w.signals:
		w.logger.Infow("worker: signalOperation: received signal", "signal", sig.String())
		w.Shutdown(nil)

	case <-w.shut:
		w.logger.Infow("worker: signalOperation: received shut signal")
	}
}
