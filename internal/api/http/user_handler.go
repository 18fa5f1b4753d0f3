package http

import (
	"net/http"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

type createUserResponse struct {
	User            *domain.User `json:"user"`
	DefaultPassword string       `json:"default_password"`
}

type commissionAssignment struct {
	CommissionID int32 `json:"commission_id"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
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
	q := r.URL.Query()
	filter := domain.UserFilter{
		Search:       q.Get("search"),
		Role:         domain.UserRole(q.Get("role")),
		CommissionID: commissionID,
		Page:         page,
	}
	res, err := h.userSvc.List(r.Context(), ActorFrom(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, res)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.userSvc.Get(r.Context(), ActorFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, u)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateUserInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	u, password, err := h.userSvc.Create(r.Context(), ActorFrom(r.Context()), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusCreated, createUserResponse{User: u, DefaultPassword: password})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var input domain.UpdateUserInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.userSvc.Update(r.Context(), ActorFrom(r.Context()), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateCommission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body commissionAssignment
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.userSvc.UpdateCommission(r.Context(), ActorFrom(r.Context()), id, body.CommissionID); err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.userSvc.Delete(r.Context(), ActorFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, nil)
}
