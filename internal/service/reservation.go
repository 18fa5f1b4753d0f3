package service

import (
	"context"
	"strings"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/repository"
)

const (
	minRejectionReasonLen = 10
	maxTitleLen           = 200
	recentReservations    = 10
)

type reservationService struct {
	reservationRepo repository.ReservationRepository
	locationRepo    repository.LocationRepository
	emailSvc        EmailService
	cache           DashboardCache
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	locationRepo repository.LocationRepository,
	emailSvc EmailService,
	cache DashboardCache,
) ReservationService {
	if cache == nil {
		cache = NopCache()
	}
	return &reservationService{
		reservationRepo: reservationRepo,
		locationRepo:    locationRepo,
		emailSvc:        emailSvc,
		cache:           cache,
	}
}

func (s *reservationService) HasConflict(ctx context.Context, locationID int32, start, end time.Time, excludeID *int32) (bool, error) {
	if !start.Before(end) {
		return false, domain.NewValidationError("start must be before end")
	}
	if _, err := s.locationRepo.GetByID(ctx, locationID); err != nil {
		return false, err
	}
	return s.reservationRepo.HasConflict(ctx, locationID, start, end, excludeID)
}

func validateReservationInput(input *domain.CreateReservationInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" {
		return domain.NewValidationError("title is required")
	}
	if len(input.Title) > maxTitleLen {
		return domain.NewValidationError("title must be at most %d characters", maxTitleLen)
	}
	if input.LocationID <= 0 {
		return domain.NewValidationError("location is required")
	}
	if input.Start.IsZero() || input.End.IsZero() {
		return domain.NewValidationError("start and end are required")
	}
	if !input.Start.Before(input.End) {
		return domain.NewValidationError("start must be before end")
	}
	return nil
}

func (s *reservationService) Create(ctx context.Context, actor domain.ActorContext, input domain.CreateReservationInput) (*domain.Reservation, error) {
	const method = "ReservationService.Create"
	logger.EnterMethod(ctx, method, "location_id", input.LocationID, "actor_id", actor.UserID)

	if err := requireActor(actor); err != nil {
		return nil, fail(ctx, method, err)
	}
	if err := validateReservationInput(&input); err != nil {
		return nil, fail(ctx, method, err)
	}

	location, err := s.locationRepo.GetByID(ctx, input.LocationID)
	if err != nil {
		return nil, fail(ctx, method, err, "location_id", input.LocationID)
	}

	if limit := location.MaxDuration(); limit > 0 && input.End.Sub(input.Start) > limit {
		hours := input.End.Sub(input.Start).Hours()
		return nil, fail(ctx, method, domain.NewPolicyError(
			"reservations at %s cannot exceed %dh (requested %.1fh)", location.Name, *location.MaxDurationHours, hours))
	}
	if actor.Role == domain.UserRoleCEE && !actor.InCommission(location.CommissionID) {
		return nil, fail(ctx, method, domain.NewPolicyError("you can only create reservations for locations of your commission"))
	}

	reservation := &domain.Reservation{
		Title:       input.Title,
		Description: input.Description,
		LocationID:  location.ID,
		UserID:      actor.UserID,
		Start:       input.Start,
		End:         input.End,
		Status:      domain.ReservationStatusPending,
		Location:    location,
	}
	// back-office creation by a validator is auto-validated
	if actor.IsValidator() {
		validator := actor.UserID
		reservation.Status = domain.ReservationStatusAccepted
		reservation.ValidatedBy = &validator
		reservation.Validator = &domain.User{ID: actor.UserID, Name: actor.Name}
	}

	if err := s.reservationRepo.CreateIfNoConflict(ctx, reservation); err != nil {
		return nil, fail(ctx, method, err, "location_id", location.ID)
	}
	invalidate(ctx, s.cache)

	logger.InfoContext(ctx, "Reservation created", "reservation_id", reservation.ID, "status", reservation.Status)
	logger.ExitMethod(ctx, method, "reservation_id", reservation.ID)
	return reservation, nil
}

// loadForDecision fetches a reservation a validator wants to accept or reject
func (s *reservationService) loadForDecision(ctx context.Context, actor domain.ActorContext, id int32, verb string) (*domain.Reservation, error) {
	if err := requireValidator(actor); err != nil {
		return nil, err
	}
	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessCommission(actor, r.Location.CommissionID) {
		return nil, domain.NewPermissionError("you can only %s reservations of your commission", verb)
	}
	if r.Status != domain.ReservationStatusPending {
		return nil, domain.NewPolicyError("only pending reservations can be %sed (current status: %s)", verb, r.Status)
	}
	return r, nil
}

func (s *reservationService) Accept(ctx context.Context, actor domain.ActorContext, id int32) (*domain.Reservation, error) {
	const method = "ReservationService.Accept"
	logger.EnterMethod(ctx, method, "reservation_id", id, "actor_id", actor.UserID)

	r, err := s.loadForDecision(ctx, actor, id, "accept")
	if err != nil {
		return nil, fail(ctx, method, err, "reservation_id", id)
	}

	validator := actor.UserID
	r.Status = domain.ReservationStatusAccepted
	r.ValidatedBy = &validator
	r.Validator = &domain.User{ID: actor.UserID, Name: actor.Name}
	r.RejectionReason = ""
	if err := s.reservationRepo.UpdateStatus(ctx, r); err != nil {
		return nil, fail(ctx, method, err, "reservation_id", id)
	}
	invalidate(ctx, s.cache)

	s.notify(ctx, r)
	logger.ExitMethod(ctx, method, "reservation_id", id)
	return r, nil
}

func (s *reservationService) Reject(ctx context.Context, actor domain.ActorContext, id int32, reason string) (*domain.Reservation, error) {
	const method = "ReservationService.Reject"
	logger.EnterMethod(ctx, method, "reservation_id", id, "actor_id", actor.UserID)

	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) < minRejectionReasonLen {
		return nil, fail(ctx, method, domain.NewValidationError("rejection reason must be at least %d characters", minRejectionReasonLen))
	}

	r, err := s.loadForDecision(ctx, actor, id, "reject")
	if err != nil {
		return nil, fail(ctx, method, err, "reservation_id", id)
	}

	validator := actor.UserID
	r.Status = domain.ReservationStatusRejected
	r.ValidatedBy = &validator
	r.Validator = &domain.User{ID: actor.UserID, Name: actor.Name}
	r.RejectionReason = reason
	if err := s.reservationRepo.UpdateStatus(ctx, r); err != nil {
		return nil, fail(ctx, method, err, "reservation_id", id)
	}
	invalidate(ctx, s.cache)

	s.notify(ctx, r)
	logger.ExitMethod(ctx, method, "reservation_id", id)
	return r, nil
}

// notify tells the requester about a decision. The status change is already committed,
// so a delivery failure is logged and not returned.
func (s *reservationService) notify(ctx context.Context, r *domain.Reservation) {
	if r.User == nil || r.User.Email == "" {
		logger.WarnContext(ctx, "Reservation has no requester email, skipping notification", "reservation_id", r.ID)
		return
	}
	notice := domain.ReservationNotice{
		StudentName:      r.User.Name,
		ReservationTitle: r.Title,
		LocationName:     r.Location.Name,
		Start:            r.Start,
		End:              r.End,
		ValidatedBy:      r.Validator.Name,
		RejectionReason:  r.RejectionReason,
	}

	var err error
	if r.Status == domain.ReservationStatusAccepted {
		err = s.emailSvc.SendReservationAccepted(ctx, r.User.Email, notice)
	} else {
		err = s.emailSvc.SendReservationRejected(ctx, r.User.Email, notice)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to send reservation notification", "reservation_id", r.ID, "status", r.Status, "error", err)
	}
}

func (s *reservationService) Delete(ctx context.Context, actor domain.ActorContext, id int32) error {
	const method = "ReservationService.Delete"
	logger.EnterMethod(ctx, method, "reservation_id", id, "actor_id", actor.UserID)

	if err := requireActor(actor); err != nil {
		return fail(ctx, method, err)
	}
	if !actor.IsAdmin() {
		return fail(ctx, method, domain.NewPermissionError("only administrators can delete reservations"))
	}
	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		return fail(ctx, method, err, "reservation_id", id)
	}
	invalidate(ctx, s.cache)

	logger.InfoContext(ctx, "Reservation deleted", "reservation_id", id)
	return nil
}

func (s *reservationService) List(ctx context.Context, actor domain.ActorContext, filter domain.ReservationFilter) (*domain.PaginatedResult[domain.Reservation], error) {
	if err := requireValidator(actor); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("unknown status %q", filter.Status)
	}
	filter.CommissionID = actor.Scope()
	filter.Page = filter.Page.Normalize()

	list, total, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	res := domain.NewPaginatedResult(list, total, filter.Page)
	return &res, nil
}

func (s *reservationService) Get(ctx context.Context, actor domain.ActorContext, id int32) (*domain.Reservation, error) {
	if err := requireValidator(actor); err != nil {
		return nil, err
	}
	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessCommission(actor, r.Location.CommissionID) {
		// out-of-scope reservations look missing to the caller
		return nil, domain.NewNotFoundError("reservation not found")
	}
	return r, nil
}

func (s *reservationService) Recent(ctx context.Context, actor domain.ActorContext) ([]domain.Reservation, error) {
	if err := requireValidator(actor); err != nil {
		return nil, err
	}
	return s.reservationRepo.Recent(ctx, actor.Scope(), recentReservations)
}
