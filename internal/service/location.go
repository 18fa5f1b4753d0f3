package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/repository"
)

type locationService struct {
	locationRepo   repository.LocationRepository
	commissionRepo repository.CommissionRepository
	cache          DashboardCache
}

func NewLocationService(
	locationRepo repository.LocationRepository,
	commissionRepo repository.CommissionRepository,
	cache DashboardCache,
) LocationService {
	if cache == nil {
		cache = NopCache()
	}
	return &locationService{locationRepo: locationRepo, commissionRepo: commissionRepo, cache: cache}
}

func (s *locationService) validate(ctx context.Context, input *domain.LocationInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if n := utf8.RuneCountInString(input.Name); n < 2 || n > 100 {
		return domain.NewValidationError("name must be between 2 and 100 characters")
	}
	if input.MaxDurationHours != nil && *input.MaxDurationHours <= 0 {
		return domain.NewValidationError("maximum duration must be a positive number of hours")
	}
	if input.CommissionID <= 0 {
		return domain.NewValidationError("commission is required")
	}
	if _, err := s.commissionRepo.GetByID(ctx, input.CommissionID); err != nil {
		return err
	}
	return nil
}

func (s *locationService) List(ctx context.Context, actor domain.ActorContext, filter domain.LocationFilter) (*domain.PaginatedResult[domain.Location], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Page = filter.Page.Normalize()
	list, total, err := s.locationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	res := domain.NewPaginatedResult(list, total, filter.Page)
	return &res, nil
}

func (s *locationService) Get(ctx context.Context, actor domain.ActorContext, id int32) (*domain.Location, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.locationRepo.GetByID(ctx, id)
}

func (s *locationService) ListForSelect(ctx context.Context, actor domain.ActorContext) ([]domain.Location, error) {
	if err := requireValidator(actor); err != nil {
		return nil, err
	}
	return s.locationRepo.ListForSelect(ctx, actor.Scope())
}

func (s *locationService) Create(ctx context.Context, actor domain.ActorContext, input domain.LocationInput) (*domain.Location, error) {
	const method = "LocationService.Create"
	logger.EnterMethod(ctx, method, "name", input.Name, "commission_id", input.CommissionID)

	if err := requireAdmin(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	if err := s.validate(ctx, &input); err != nil {
		return nil, fail(ctx, method, err)
	}

	l := &domain.Location{
		Name:             input.Name,
		Description:      input.Description,
		MaxDurationHours: input.MaxDurationHours,
		CommissionID:     input.CommissionID,
	}
	if err := s.locationRepo.Create(ctx, l); err != nil {
		return nil, fail(ctx, method, err)
	}
	invalidate(ctx, s.cache)

	logger.ExitMethod(ctx, method, "location_id", l.ID)
	return l, nil
}

func (s *locationService) Update(ctx context.Context, actor domain.ActorContext, id int32, input domain.LocationInput) (*domain.Location, error) {
	const method = "LocationService.Update"
	logger.EnterMethod(ctx, method, "location_id", id)

	if err := requireAdmin(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	l, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fail(ctx, method, err, "location_id", id)
	}
	if err := s.validate(ctx, &input); err != nil {
		return nil, fail(ctx, method, err)
	}

	l.Name = input.Name
	l.Description = input.Description
	l.MaxDurationHours = input.MaxDurationHours
	if l.CommissionID != input.CommissionID {
		l.CommissionID = input.CommissionID
		l.Commission = nil
	}
	if err := s.locationRepo.Update(ctx, l); err != nil {
		return nil, fail(ctx, method, err, "location_id", id)
	}
	invalidate(ctx, s.cache)

	logger.ExitMethod(ctx, method, "location_id", id)
	return l, nil
}

func (s *locationService) Delete(ctx context.Context, actor domain.ActorContext, id int32) error {
	const method = "LocationService.Delete"
	logger.EnterMethod(ctx, method, "location_id", id)

	if err := requireAdmin(actor); err != nil {
		return fail(ctx, method, err)
	}
	if _, err := s.locationRepo.GetByID(ctx, id); err != nil {
		return fail(ctx, method, err, "location_id", id)
	}
	n, err := s.locationRepo.CountReservations(ctx, id)
	if err != nil {
		return fail(ctx, method, err, "location_id", id)
	}
	if n > 0 {
		return fail(ctx, method, domain.NewReferentialIntegrityError("cannot delete a location with %d reservation(s)", n))
	}

	if err := s.locationRepo.Delete(ctx, id); err != nil {
		return fail(ctx, method, err, "location_id", id)
	}
	invalidate(ctx, s.cache)

	logger.InfoContext(ctx, "Location deleted", "location_id", id)
	return nil
}
