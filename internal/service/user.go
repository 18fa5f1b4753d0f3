package service

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/repository"
	"reservation-backoffice/internal/security"
)

const userRecentReservations = 10

type userService struct {
	userRepo       repository.UserRepository
	commissionRepo repository.CommissionRepository
	emailSvc       EmailService
}

func NewUserService(
	userRepo repository.UserRepository,
	commissionRepo repository.CommissionRepository,
	emailSvc EmailService,
) UserService {
	return &userService{userRepo: userRepo, commissionRepo: commissionRepo, emailSvc: emailSvc}
}

func normalizeIdentity(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return "", "", domain.NewValidationError("name must be between 2 and 100 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", "", domain.NewValidationError("invalid email address")
	}
	return name, email, nil
}

func (s *userService) List(ctx context.Context, actor domain.ActorContext, filter domain.UserFilter) (*domain.PaginatedResult[domain.User], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, domain.NewValidationError("unknown role %q", filter.Role)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Page = filter.Page.Normalize()
	list, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	res := domain.NewPaginatedResult(list, total, filter.Page)
	return &res, nil
}

func (s *userService) Get(ctx context.Context, actor domain.ActorContext, id int32) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.userRepo.GetDetail(ctx, id, userRecentReservations)
}

func (s *userService) Create(ctx context.Context, actor domain.ActorContext, input domain.CreateUserInput) (*domain.User, string, error) {
	const method = "UserService.Create"
	logger.EnterMethod(ctx, method, "role", input.Role)

	if err := requireAdmin(actor); err != nil {
		return nil, "", fail(ctx, method, err)
	}
	name, email, err := normalizeIdentity(input.Name, input.Email)
	if err != nil {
		return nil, "", fail(ctx, method, err)
	}
	if !input.Role.Valid() {
		return nil, "", fail(ctx, method, domain.NewValidationError("unknown role %q", input.Role))
	}

	taken, err := s.userRepo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, "", fail(ctx, method, err)
	}
	if taken {
		return nil, "", fail(ctx, method, domain.NewValidationError("a user with this email already exists"))
	}

	u := &domain.User{Name: name, Email: email, Role: input.Role}
	// only CEE members belong to a commission
	if input.Role == domain.UserRoleCEE && input.CommissionID != nil {
		commission, err := s.commissionRepo.GetByID(ctx, *input.CommissionID)
		if err != nil {
			return nil, "", fail(ctx, method, err, "commission_id", *input.CommissionID)
		}
		id := commission.ID
		u.CommissionID = &id
		u.Commission = commission
	}

	password, err := security.GeneratePassword(security.DefaultPasswordLength)
	if err != nil {
		return nil, "", fail(ctx, method, err)
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fail(ctx, method, err)
	}
	if err := s.userRepo.CreateWithCredentials(ctx, u, hash); err != nil {
		return nil, "", fail(ctx, method, err)
	}
	logger.InfoContext(ctx, "User created", "user_id", u.ID, "role", u.Role)

	// best effort: the account exists whether or not the email goes out
	err = s.emailSvc.SendWelcome(ctx, domain.WelcomeNotice{Name: u.Name, Email: u.Email, Password: password, Role: u.Role})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to send welcome email", "user_id", u.ID, "error", err)
	}

	logger.ExitMethod(ctx, method, "user_id", u.ID)
	return u, password, nil
}

func (s *userService) Update(ctx context.Context, actor domain.ActorContext, id int32, input domain.UpdateUserInput) (*domain.User, error) {
	const method = "UserService.Update"
	logger.EnterMethod(ctx, method, "user_id", id)

	if err := requireAdmin(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	name, email, err := normalizeIdentity(input.Name, input.Email)
	if err != nil {
		return nil, fail(ctx, method, err)
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fail(ctx, method, err, "user_id", id)
	}
	taken, err := s.userRepo.EmailTaken(ctx, email, id)
	if err != nil {
		return nil, fail(ctx, method, err)
	}
	if taken {
		return nil, fail(ctx, method, domain.NewValidationError("a user with this email already exists"))
	}

	u.Name = name
	u.Email = email
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, fail(ctx, method, err, "user_id", id)
	}
	logger.ExitMethod(ctx, method, "user_id", id)
	return u, nil
}

func (s *userService) UpdateCommission(ctx context.Context, actor domain.ActorContext, userID, commissionID int32) error {
	const method = "UserService.UpdateCommission"
	logger.EnterMethod(ctx, method, "user_id", userID, "commission_id", commissionID)

	if err := requireAdmin(actor); err != nil {
		return fail(ctx, method, err)
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return fail(ctx, method, err, "user_id", userID)
	}
	if _, err := s.commissionRepo.GetByID(ctx, commissionID); err != nil {
		return fail(ctx, method, err, "commission_id", commissionID)
	}
	if err := s.userRepo.UpdateCommission(ctx, userID, commissionID); err != nil {
		return fail(ctx, method, err, "user_id", userID)
	}
	logger.ExitMethod(ctx, method, "user_id", userID)
	return nil
}

func (s *userService) Delete(ctx context.Context, actor domain.ActorContext, id int32) error {
	const method = "UserService.Delete"
	logger.EnterMethod(ctx, method, "user_id", id)

	if err := requireAdmin(actor); err != nil {
		return fail(ctx, method, err)
	}
	if id == actor.UserID {
		return fail(ctx, method, domain.NewPolicyError("you cannot delete your own account"))
	}
	target, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return fail(ctx, method, err, "user_id", id)
	}
	if target.Role == domain.UserRoleAdmin {
		return fail(ctx, method, domain.NewPolicyError("administrators cannot be deleted"))
	}
	n, err := s.userRepo.CountReservations(ctx, id)
	if err != nil {
		return fail(ctx, method, err, "user_id", id)
	}
	if n > 0 {
		return fail(ctx, method, domain.NewReferentialIntegrityError("cannot delete a user with existing reservations"))
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fail(ctx, method, err, "user_id", id)
	}
	logger.InfoContext(ctx, "User deleted", "user_id", id)
	return nil
}
