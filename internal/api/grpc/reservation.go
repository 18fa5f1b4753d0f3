package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"reservation-backoffice/internal/api/grpc/interceptor"
	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/service"
)

const (
	ReservationsServiceName = "backoffice.v1.Reservations"
	checkConflictMethod     = "/" + ReservationsServiceName + "/CheckConflict"
)

// ReservationsServer is the gRPC surface used by booking front-ends to pre-check a slot.
// Requests are google.protobuf.Struct values with location_id, start, end (RFC3339) and
// an optional exclude_id.
type ReservationsServer interface {
	CheckConflict(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error)
}

type ReservationHandler struct {
	reservationSvc service.ReservationService
}

func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

func (h *ReservationHandler) CheckConflict(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	actor, ok := interceptor.ActorFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}

	fields := req.GetFields()
	locationID := int32(fields["location_id"].GetNumberValue())
	if locationID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "location_id is required")
	}
	start, err := time.Parse(time.RFC3339, fields["start"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "start must be an RFC3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, fields["end"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "end must be an RFC3339 timestamp")
	}
	var excludeID *int32
	if v, ok := fields["exclude_id"]; ok {
		id := int32(v.GetNumberValue())
		excludeID = &id
	}

	conflict, err := h.reservationSvc.HasConflict(ctx, locationID, start, end, excludeID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	logger.DebugContext(ctx, "Conflict check", "actor_id", actor.UserID, "location_id", locationID, "conflict", conflict)
	return wrapperspb.Bool(conflict), nil
}

// toStatus maps classified domain errors onto gRPC codes
func toStatus(ctx context.Context, err error) error {
	var code codes.Code
	switch domain.KindOf(err) {
	case domain.KindAuth:
		code = codes.Unauthenticated
	case domain.KindPermission:
		code = codes.PermissionDenied
	case domain.KindNotFound:
		code = codes.NotFound
	case domain.KindValidation:
		code = codes.InvalidArgument
	case domain.KindPolicy:
		code = codes.FailedPrecondition
	case domain.KindConflict, domain.KindReferentialIntegrity:
		code = codes.AlreadyExists
	default:
		logger.ErrorContext(ctx, "gRPC call failed", "error", err)
		return status.Error(codes.Internal, "internal server error")
	}
	return status.Error(code, domain.PublicMessage(err, "internal server error"))
}

func checkConflictHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, unary grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if unary == nil {
		return srv.(ReservationsServer).CheckConflict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: checkConflictMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationsServer).CheckConflict(ctx, req.(*structpb.Struct))
	}
	return unary(ctx, in, info, handler)
}

var reservationsServiceDesc = grpc.ServiceDesc{
	ServiceName: ReservationsServiceName,
	HandlerType: (*ReservationsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CheckConflict", Handler: checkConflictHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "backoffice/v1/reservations.proto",
}

func RegisterReservationsServer(s grpc.ServiceRegistrar, srv ReservationsServer) {
	s.RegisterService(&reservationsServiceDesc, srv)
}
