package interceptor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/security"
)

type userTable map[int32]*domain.User

func (u userTable) GetByID(_ context.Context, id int32) (*domain.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, domain.NewNotFoundError("user not found")
}

func TestAuthInterceptor(t *testing.T) {
	tokens := security.NewTokenManager("grpc-secret", time.Hour)
	cid := int32(10)
	users := userTable{
		1: {ID: 1, Name: "Admin", Role: domain.UserRoleAdmin},
		2: {ID: 2, Role: domain.UserRoleCEE, CommissionID: &cid},
	}
	unary := NewAuthInterceptor(security.NewSessionResolver(tokens, users)).Unary()

	var seen domain.ActorContext
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen, _ = ActorFromContext(ctx)
		return "ok", nil
	}
	call := func(ctx context.Context, method string) error {
		_, err := unary(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, handler)
		return err
	}

	t.Run("Health is public", func(t *testing.T) {
		assert.NoError(t, call(context.Background(), "/grpc.health.v1.Health/Check"))
	})

	t.Run("Missing token", func(t *testing.T) {
		err := call(context.Background(), "/backoffice.v1.Reports/Monthly")
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("CEE on admin method", func(t *testing.T) {
		tok, _, err := tokens.GenerateSessionToken(users[2])
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))

		err = call(ctx, "/backoffice.v1.Reports/Monthly")
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("Admin resolves actor", func(t *testing.T) {
		tok, _, err := tokens.GenerateSessionToken(&domain.User{ID: 1, Name: "Admin", Role: domain.UserRoleAdmin})
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "bearer "+tok))

		require.NoError(t, call(ctx, "/backoffice.v1.Reports/Monthly"))
		assert.Equal(t, int32(1), seen.UserID)
		assert.True(t, seen.IsAdmin())
	})

	t.Run("Validator method uses stored commission", func(t *testing.T) {
		moved := int32(20)
		tok, _, err := tokens.GenerateSessionToken(&domain.User{ID: 3, Role: domain.UserRoleCEE, CommissionID: &cid})
		require.NoError(t, err)
		users[3] = &domain.User{ID: 3, Role: domain.UserRoleCEE, CommissionID: &moved}
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))

		require.NoError(t, call(ctx, "/backoffice.v1.Reservations/CheckConflict"))
		assert.True(t, seen.InCommission(20))
		assert.False(t, seen.InCommission(10))
	})

	t.Run("Deleted user", func(t *testing.T) {
		tok, _, err := tokens.GenerateSessionToken(&domain.User{ID: 99, Role: domain.UserRoleAdmin})
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))

		err = call(ctx, "/backoffice.v1.Reservations/CheckConflict")
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}

func TestLoggingRecoversPanics(t *testing.T) {
	unary := Logging()
	_, err := unary(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, func(context.Context, interface{}) (interface{}, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}
