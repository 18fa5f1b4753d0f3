package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/repository"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type commissionService struct {
	commissionRepo repository.CommissionRepository
	cache          DashboardCache
}

func NewCommissionService(commissionRepo repository.CommissionRepository, cache DashboardCache) CommissionService {
	if cache == nil {
		cache = NopCache()
	}
	return &commissionService{commissionRepo: commissionRepo, cache: cache}
}

func validateCommissionInput(input *domain.CommissionInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if n := utf8.RuneCountInString(input.Name); n < 2 || n > 100 {
		return domain.NewValidationError("name must be between 2 and 100 characters")
	}
	if input.Color == "" {
		input.Color = "#3b82f6"
	}
	if !colorPattern.MatchString(input.Color) {
		return domain.NewValidationError("color must be a hex value like #3b82f6")
	}
	return nil
}

func (s *commissionService) List(ctx context.Context, actor domain.ActorContext, filter domain.CommissionFilter) (*domain.PaginatedResult[domain.Commission], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Page = filter.Page.Normalize()
	list, total, err := s.commissionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	res := domain.NewPaginatedResult(list, total, filter.Page)
	return &res, nil
}

func (s *commissionService) Get(ctx context.Context, actor domain.ActorContext, id int32) (*domain.Commission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.commissionRepo.GetWithRelations(ctx, id)
}

func (s *commissionService) ListForSelect(ctx context.Context, actor domain.ActorContext) ([]domain.Commission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.commissionRepo.ListForSelect(ctx)
}

func (s *commissionService) Create(ctx context.Context, actor domain.ActorContext, input domain.CommissionInput) (*domain.Commission, error) {
	const method = "CommissionService.Create"
	logger.EnterMethod(ctx, method, "name", input.Name)

	if err := requireAdmin(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	if err := validateCommissionInput(&input); err != nil {
		return nil, fail(ctx, method, err)
	}

	c := &domain.Commission{Name: input.Name, Description: input.Description, Color: input.Color}
	if err := s.commissionRepo.Create(ctx, c); err != nil {
		return nil, fail(ctx, method, err)
	}
	invalidate(ctx, s.cache)

	logger.ExitMethod(ctx, method, "commission_id", c.ID)
	return c, nil
}

func (s *commissionService) Update(ctx context.Context, actor domain.ActorContext, id int32, input domain.CommissionInput) (*domain.Commission, error) {
	const method = "CommissionService.Update"
	logger.EnterMethod(ctx, method, "commission_id", id)

	if err := requireAdmin(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	if err := validateCommissionInput(&input); err != nil {
		return nil, fail(ctx, method, err)
	}

	c, err := s.commissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fail(ctx, method, err, "commission_id", id)
	}
	c.Name = input.Name
	c.Description = input.Description
	c.Color = input.Color
	if err := s.commissionRepo.Update(ctx, c); err != nil {
		return nil, fail(ctx, method, err, "commission_id", id)
	}
	invalidate(ctx, s.cache)

	logger.ExitMethod(ctx, method, "commission_id", id)
	return c, nil
}

func (s *commissionService) Delete(ctx context.Context, actor domain.ActorContext, id int32) error {
	const method = "CommissionService.Delete"
	logger.EnterMethod(ctx, method, "commission_id", id)

	if err := requireAdmin(actor); err != nil {
		return fail(ctx, method, err)
	}
	if _, err := s.commissionRepo.GetByID(ctx, id); err != nil {
		return fail(ctx, method, err, "commission_id", id)
	}

	members, locations, err := s.commissionRepo.CountDependents(ctx, id)
	if err != nil {
		return fail(ctx, method, err, "commission_id", id)
	}
	if members > 0 || locations > 0 {
		return fail(ctx, method, domain.NewReferentialIntegrityError(
			"cannot delete a commission that still has %d member(s) and %d location(s)", members, locations))
	}

	if err := s.commissionRepo.Delete(ctx, id); err != nil {
		return fail(ctx, method, err, "commission_id", id)
	}
	invalidate(ctx, s.cache)

	logger.InfoContext(ctx, "Commission deleted", "commission_id", id)
	return nil
}
