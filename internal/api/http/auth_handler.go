package http

import (
	"net/http"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, domain.NewValidationError("email and password are required"))
		return
	}
	token, user, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutated(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Me echoes the caller resolved from the session token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ok(w, ActorFrom(r.Context()))
}
