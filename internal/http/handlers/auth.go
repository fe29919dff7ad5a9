package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"expense-tracker-api/internal/auth"
	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/http/respond"
	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/models/dto"
	"expense-tracker-api/internal/storage"
)

// AuthHandler owns the register and login endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
	cfg    *config.Config
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, cfg: cfg}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/api/auth/register", h.handleRegister)
	r.Post("/api/auth/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if fields := validateRegistration(req); len(fields) > 0 {
		respond.ValidationError(w, fields)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("hash password error: %v", err)
		respond.Internal(w, h.cfg.Development, err)
		return
	}

	created, err := h.store.CreateUser(r.Context(), models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusBadRequest, "User already exists")
			return
		}
		log.Printf("create user error: %v", err)
		respond.Internal(w, h.cfg.Development, err)
		return
	}

	token, err := h.tokens.Generate(created.ID)
	if err != nil {
		log.Printf("generate token error: %v", err)
		respond.Internal(w, h.cfg.Development, err)
		return
	}

	respond.JSON(w, http.StatusCreated, dto.AuthResponse{Success: true, Token: token, User: created})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if fields := validateLogin(req); len(fields) > 0 {
		respond.ValidationError(w, fields)
		return
	}

	user, err := h.store.FindByEmail(r.Context(), req.Email)
	if err != nil {
		// Unknown email and wrong password look identical to the caller.
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("login: fetch user error: %v", err)
		respond.Internal(w, h.cfg.Development, err)
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		log.Printf("generate token error: %v", err)
		respond.Internal(w, h.cfg.Development, err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.AuthResponse{Success: true, Token: token, User: user})
}

func validateRegistration(req dto.RegisterRequest) map[string]string {
	fields := map[string]string{}
	if length := utf8.RuneCountInString(req.Username); length < 3 || length > 50 {
		fields["username"] = "username must be 3-50 characters"
	}
	if !validEmail(req.Email) {
		fields["email"] = "a valid email address is required"
	}
	if utf8.RuneCountInString(req.Password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	return fields
}

func validateLogin(req dto.LoginRequest) map[string]string {
	fields := map[string]string{}
	if !validEmail(req.Email) {
		fields["email"] = "a valid email address is required"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}
	return fields
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
