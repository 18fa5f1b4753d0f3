package service

import (
	"context"
	"errors"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
)

func requireActor(actor domain.ActorContext) error {
	if actor.UserID == 0 || !actor.Role.Valid() {
		return domain.ErrAuth
	}
	return nil
}

func requireAdmin(actor domain.ActorContext) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return domain.NewPermissionError("administrator role required")
	}
	return nil
}

func requireValidator(actor domain.ActorContext) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsValidator() {
		return domain.NewPermissionError("administrator or commission role required")
	}
	return nil
}

// canAccessCommission reports whether actor may read data of the commission
func canAccessCommission(actor domain.ActorContext, commissionID int32) bool {
	return actor.IsAdmin() || actor.InCommission(commissionID)
}

// fail logs a failed operation and returns err unchanged. Classified errors are
// expected business outcomes and are logged at warn.
func fail(ctx context.Context, method string, err error, args ...any) error {
	var de *domain.Error
	logger.ExitMethodWithError(ctx, method, err, errors.As(err, &de), args...)
	return err
}

// invalidate emits the cache invalidation signal; a cache failure never fails the mutation
func invalidate(ctx context.Context, cache DashboardCache) {
	if err := cache.Invalidate(ctx); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate dashboard cache", "error", err)
	}
}
