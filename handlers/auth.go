package handlers

import (
	"errors"
	"net/http"

	"github.com/CrowderSoup/todo-group-api/database"
	"github.com/CrowderSoup/todo-group-api/services"
)

// AuthHandler handles user registration and login.
type AuthHandler struct {
	authService *services.AuthService
	store       *database.Store
}

func NewAuthHandler(authService *services.AuthService, store *database.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
	}
}

// Signup registers a new user. The password is stored as a bcrypt hash and
// never returned.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	body, ok := requestBody[SignupRequest](r)
	if !ok {
		serverError(w, r, errors.New("signup body missing from context"))
		return
	}

	if body.Password != body.PasswordConfirmation {
		respondError(w, http.StatusBadRequest, "Passwords and confirmation passwords do not match")
		return
	}

	// Check if user already exists
	_, err := h.store.GetUserByEmail(r.Context(), body.Email)
	if err == nil {
		respondError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if !errors.Is(err, database.ErrNotFound) {
		serverError(w, r, err)
		return
	}

	hash, err := h.authService.HashPassword(body.Password)
	if err != nil {
		serverError(w, r, err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), body.Name, body.Email, hash)
	if errors.Is(err, database.ErrDuplicateEmail) {
		// Lost the race against a concurrent signup with the same email.
		respondError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, "User registered successfully", map[string]any{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
	})
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password answer the same message so neither case is leaked.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, ok := requestBody[LoginRequest](r)
	if !ok {
		serverError(w, r, errors.New("login body missing from context"))
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), body.Email)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	if !h.authService.CheckPassword(user.Password, body.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.authService.CreateToken(user.ID, user.Email)
	if err != nil {
		serverError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Login successful", map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"token": token,
	})
}
