package worker

import (
	"net"

	"github.com/superfeelapi/goVeritas/foundation/state"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// grpcOperation serves the standard gRPC health protocol for load balancers.
// Failing to bind is not fatal to the HTTP API.
func (w *Worker) grpcOperation() {
	w.logger.Infow("worker: grpcOperation: G started")
	defer w.logger.Infow("worker: grpcOperation: G completed")

	if w.config.GRPCHost == "" {
		w.state.Set(state.GRPC, false)
		return
	}

	lis, err := net.Listen("tcp", w.config.GRPCHost)
	if err != nil {
		w.state.Set(state.GRPC, false)
		w.logger.Errorw("worker: grpcOperation", "ERROR", err)
		return
	}

	server := grpc.NewServer()
	checker := health.NewServer()
	healthpb.RegisterHealthServer(server, checker)

	checker.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	if w.config.HealthService != "" {
		checker.SetServingStatus(w.config.HealthService, healthpb.HealthCheckResponse_SERVING)
	}

	serveErr := make(chan error, 1)
	go func() {
		w.logger.Infow("worker: grpcOperation: G listening", "host", lis.Addr().String())
		serveErr <- server.Serve(lis)
	}()

	select {
	case err := <-serveErr:
		w.state.Set(state.GRPC, false)
		if err != nil {
			w.logger.Errorw("worker: grpcOperation: serve", "ERROR", err)
		}

	case <-w.shut:
		w.logger.Infow("worker: grpcOperation: received shut signal")
		checker.Shutdown()
		server.GracefulStop()
	}
}
