package worker

import (
	"context"

	"github.com/superfeelapi/goVeritas/business/web"
	"github.com/superfeelapi/goVeritas/foundation/pubsub"
	"github.com/superfeelapi/goVeritas/foundation/state"
)

const verdictBuffer = 64

// verdictOperation forwards verdict events to Redis. The first failed
// publish disables the sink for the rest of the process lifetime.
func (w *Worker) verdictOperation() {
	w.logger.Infow("worker: verdictOperation: G started")
	defer w.logger.Infow("worker: verdictOperation: G completed")

	if w.redis == nil {
		w.state.Set(state.Redis, false)
		return
	}

	sub := pubsub.NewSubscriber(verdictBuffer)
	w.broker.Subscribe(web.VerdictTopic, sub)
	defer w.broker.UnSubscribe(web.VerdictTopic, sub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.logger.Infow("worker: verdictOperation: G listening")
	for {
		select {
		case event := <-sub.GetChannel():
			if !w.state.Get(state.Redis) {
				continue
			}
			if err := w.redis.Produce(ctx, event); err != nil {
				w.state.Set(state.Redis, false)
				w.logger.Errorw("worker: verdictOperation: redis", "ERROR", err)
			}

		case <-w.shut:
			w.logger.Infow("worker: verdictOperation: received shut signal")
			return
		}
	}
}
