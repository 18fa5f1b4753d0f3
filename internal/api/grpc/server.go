package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"reservation-backoffice/internal/api/grpc/interceptor"
	"reservation-backoffice/internal/security"
	"reservation-backoffice/internal/service"
)

// ServiceName is the name reported by the health service
const ServiceName = "backoffice"

// NewServer builds the gRPC server exposing the reservation conflict check and health
// checks for orchestrators. The returned health server lets main flip the serving status
// on shutdown.
func NewServer(sessions *security.SessionResolver, reservations service.ReservationService) (*grpc.Server, *health.Server) {
	authInterceptor := interceptor.NewAuthInterceptor(sessions)
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptor.Logging(),
			authInterceptor.Unary(),
		),
	)

	RegisterReservationsServer(server, NewReservationHandler(reservations))

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ReservationsServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	return server, healthServer
}
