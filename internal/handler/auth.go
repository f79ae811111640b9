package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/service"
)

type authService interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, in service.RegisterInput) (*domain.PublicUser, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (*service.LoginResult, error)
}

type AuthHandler struct {
	auth    authService
	maxBody int64
}

func NewAuthHandler(auth authService, maxBody int64) *AuthHandler {
	return &AuthHandler{auth: auth, maxBody: maxBody}
}

func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		RespondAppError(w, ErrMissingEmail)
		return
	}

	exists, err := h.auth.CheckEmailExists(r.Context(), email)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"exists":  exists,
	})
}

type registerRequest struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Password string  `json:"password"`
	Address  *string `json:"address"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "registration complete",
		"user":    user,
	})
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		RespondAppError(w, ErrInvalidBody)
		return false
	}
	return true
}
