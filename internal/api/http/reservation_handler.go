package http

import (
	"net/http"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/service"
)

type ReservationHandler struct {
	reservationSvc service.ReservationService
	loc            *time.Location
}

func NewReservationHandler(reservationSvc service.ReservationService, loc *time.Location) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc, loc: loc}
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type conflictResponse struct {
	Conflict bool `json:"conflict"`
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	filter := domain.ReservationFilter{
		Search: q.Get("search"),
		Status: domain.ReservationStatus(q.Get("status")),
		Page:   page,
	}
	// from and to are inclusive calendar days on the reservation start
	from, present, err := queryDate(r, "from", h.loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if present {
		filter.StartFrom = &from
	}
	to, present, err := queryDate(r, "to", h.loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if present {
		end := to.AddDate(0, 0, 1)
		filter.StartTo = &end
	}

	res, err := h.reservationSvc.List(r.Context(), ActorFrom(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, res)
}

func (h *ReservationHandler) Recent(w http.ResponseWriter, r *http.Request) {
	list, err := h.reservationSvc.Recent(r.Context(), ActorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, list)
}

func (h *ReservationHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	locationID, err := queryInt32(r, "location_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if locationID <= 0 {
		writeError(w, r, domain.NewValidationError("location_id is required"))
		return
	}
	start, err := queryTime(r, "start")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := queryTime(r, "end")
	if err != nil {
		writeError(w, r, err)
		return
	}
	excludeID, err := queryOptionalID(r, "exclude_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	conflict, err := h.reservationSvc.HasConflict(r.Context(), locationID, start, end, excludeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, conflictResponse{Conflict: conflict})
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservationSvc.Get(r.Context(), ActorFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, res)
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateReservationInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservationSvc.Create(r.Context(), ActorFrom(r.Context()), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusCreated, res)
}

func (h *ReservationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservationSvc.Accept(r.Context(), ActorFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, res)
}

func (h *ReservationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req rejectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservationSvc.Reject(r.Context(), ActorFrom(r.Context()), id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, res)
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.reservationSvc.Delete(r.Context(), ActorFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, nil)
}
