package interceptor

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"reservation-backoffice/internal/config"
	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/security"
)

type actorKey struct{}

// ActorFromContext returns the caller resolved by the auth interceptor
func ActorFromContext(ctx context.Context) (domain.ActorContext, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.ActorContext)
	return actor, ok
}

type AuthInterceptor struct {
	sessions *security.SessionResolver
}

func NewAuthInterceptor(sessions *security.SessionResolver) *AuthInterceptor {
	return &AuthInterceptor{sessions: sessions}
}

// Unary returns a server interceptor function to authenticate and authorize unary RPCs
func (i *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		level := config.GetSecurityLevel(info.FullMethod)

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			return handler(ctx, req)
		}

		token, err := i.extractToken(ctx)
		if err != nil {
			return nil, err
		}
		actor, err := i.sessions.Resolve(ctx, token)
		if err != nil {
			if errors.Is(err, domain.ErrAuth) {
				return nil, status.Error(codes.Unauthenticated, domain.PublicMessage(err, "invalid or expired session"))
			}
			logger.ErrorContext(ctx, "Failed to resolve session", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Internal, "internal server error")
		}

		if err := checkSecurityLevel(level, actor); err != nil {
			return nil, err
		}

		ctx = context.WithValue(ctx, actorKey{}, actor)
		ctx = logger.WithActorID(ctx, actor.UserID)
		return handler(ctx, req)
	}
}

func (i *AuthInterceptor) extractToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "metadata is not provided")
	}

	authHeader := md["authorization"]
	if len(authHeader) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization token is not provided")
	}

	token := authHeader[0]
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = token[7:]
	}
	return token, nil
}

func checkSecurityLevel(level config.SecurityLevel, actor domain.ActorContext) error {
	switch level {
	case config.SecurityAdmin:
		if !actor.IsAdmin() {
			return status.Error(codes.PermissionDenied, "administrator role required")
		}
	case config.SecurityValidator:
		if !actor.IsValidator() {
			return status.Error(codes.PermissionDenied, "administrator or commission role required")
		}
	case config.SecurityCron:
		// cron jobs are only reachable over HTTP
		return status.Error(codes.PermissionDenied, "not available over gRPC")
	}
	return nil
}
