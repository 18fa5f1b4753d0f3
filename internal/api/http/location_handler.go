package http

import (
	"net/http"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/service"
)

type LocationHandler struct {
	locationSvc service.LocationService
}

func NewLocationHandler(locationSvc service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	commissionID, err := queryOptionalID(r, "commission_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := domain.LocationFilter{Search: r.URL.Query().Get("search"), CommissionID: commissionID, Page: page}
	res, err := h.locationSvc.List(r.Context(), ActorFrom(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, res)
}

func (h *LocationHandler) Select(w http.ResponseWriter, r *http.Request) {
	list, err := h.locationSvc.ListForSelect(r.Context(), ActorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, list)
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, err := h.locationSvc.Get(r.Context(), ActorFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, l)
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.LocationInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := h.locationSvc.Create(r.Context(), ActorFrom(r.Context()), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusCreated, l)
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var input domain.LocationInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := h.locationSvc.Update(r.Context(), ActorFrom(r.Context()), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, l)
}

func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.locationSvc.Delete(r.Context(), ActorFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, nil)
}
