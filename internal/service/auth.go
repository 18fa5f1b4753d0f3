package service

import (
	"context"
	"errors"
	"strings"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/repository"
	"reservation-backoffice/internal/security"
)

type authService struct {
	userRepo     repository.UserRepository
	tokenManager security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokenManager security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokenManager: tokenManager}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	const method = "AuthService.Login"
	logger.EnterMethod(ctx, method)

	invalid := domain.NewAuthError("invalid email or password")
	u, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fail(ctx, method, invalid)
		}
		return "", nil, fail(ctx, method, err)
	}

	hash, err := s.userRepo.GetPasswordHash(ctx, u.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fail(ctx, method, invalid)
		}
		return "", nil, fail(ctx, method, err)
	}
	if !security.CheckPassword(hash, password) {
		return "", nil, fail(ctx, method, invalid, "user_id", u.ID)
	}
	if u.Role != domain.UserRoleAdmin && u.Role != domain.UserRoleCEE {
		return "", nil, fail(ctx, method, domain.NewPermissionError("the back office is reserved to administrators and commission members"))
	}

	token, _, err := s.tokenManager.GenerateSessionToken(u)
	if err != nil {
		return "", nil, fail(ctx, method, err)
	}
	logger.InfoContext(ctx, "User signed in", "user_id", u.ID, "role", u.Role)
	return token, u, nil
}
