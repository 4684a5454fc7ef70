package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

func (w *Worker) httpOperation() {
	w.logger.Infow("worker: httpOperation: G started")
	defer w.logger.Infow("worker: httpOperation: G completed")

	server := http.Server{
		Addr:         w.config.APIHost,
		Handler:      w.handler,
		ReadTimeout:  w.config.ReadTimeout,
		WriteTimeout: w.config.WriteTimeout,
		IdleTimeout:  w.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		w.logger.Infow("worker: httpOperation: G listening", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			w.Shutdown(fmt.Errorf("worker: httpOperation: %w", err))
		}

	case <-w.shut:
		w.logger.Infow("worker: httpOperation: received shut signal")

		ctx, cancel := context.WithTimeout(context.Background(), w.config.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			w.logger.Errorw("worker: httpOperation: graceful shutdown", "ERROR", err)
			server.Close()
		}
	}
}
