package http

import (
	"net/http"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/service"
)

type CommissionHandler struct {
	commissionSvc service.CommissionService
}

func NewCommissionHandler(commissionSvc service.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionSvc: commissionSvc}
}

func (h *CommissionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := domain.CommissionFilter{Search: r.URL.Query().Get("search"), Page: page}
	res, err := h.commissionSvc.List(r.Context(), ActorFrom(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, res)
}

func (h *CommissionHandler) Select(w http.ResponseWriter, r *http.Request) {
	list, err := h.commissionSvc.ListForSelect(r.Context(), ActorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, list)
}

func (h *CommissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.commissionSvc.Get(r.Context(), ActorFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, c)
}

func (h *CommissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.CommissionInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.commissionSvc.Create(r.Context(), ActorFrom(r.Context()), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusCreated, c)
}

func (h *CommissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var input domain.CommissionInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.commissionSvc.Update(r.Context(), ActorFrom(r.Context()), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, c)
}

func (h *CommissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.commissionSvc.Delete(r.Context(), ActorFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, nil)
}
