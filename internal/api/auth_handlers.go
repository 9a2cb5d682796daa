package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/example/artisan-market/internal/api/middleware"
	"github.com/example/artisan-market/internal/auth"
	"github.com/example/artisan-market/internal/command"
	"github.com/example/artisan-market/internal/domain/user"
	"github.com/example/artisan-market/internal/query"
)

// AuthHandlers owns registration, login, token refresh, and the
// become-an-artisan flow (which re-issues tokens carrying the new
// artisan ID).
type AuthHandlers struct {
	userService  *user.Service
	jwtService   *auth.JWTService
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewAuthHandlers(userService *user.Service, jwtService *auth.JWTService, cmdHandler *command.Handler, queryHandler *query.Handler) *AuthHandlers {
	return &AuthHandlers{
		userService:  userService,
		jwtService:   jwtService,
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	// Role may be "customer" (default) or "artisan". Admin accounts are
	// provisioned out of band.
	Role string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message,omitempty"`
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	role := req.Role
	switch role {
	case "":
		role = user.RoleCustomer
	case user.RoleCustomer, user.RoleArtisan:
	default:
		respondError(w, "invalid role", http.StatusBadRequest)
		return
	}

	if _, exists := h.queryHandler.GetUserByEmail(req.Email); exists {
		respondError(w, "email already registered", http.StatusConflict)
		return
	}

	newUser, err := h.userService.RegisterWithRole(r.Context(), req.Email, req.Password, req.Name, role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, user.ErrInvalidEmail),
			errors.Is(err, user.ErrInvalidName):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondError(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	h.setAuthCookies(w, newUser.ID, newUser.Email, newUser.Role, "")

	respondJSON(w, http.StatusCreated, AuthResponse{
		User: UserResponse{
			ID:        newUser.ID,
			Email:     newUser.Email,
			Name:      newUser.Name,
			Role:      newUser.Role,
			CreatedAt: newUser.CreatedAt,
		},
		Message: "registration successful",
	})
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userModel, exists := h.queryHandler.GetUserByEmail(req.Email)
	if !exists {
		respondError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if !userModel.IsActive {
		respondError(w, "account is deactivated", http.StatusForbidden)
		return
	}
	if err := auth.CheckPassword(userModel.PasswordHash, req.Password); err != nil {
		respondError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	h.setAuthCookies(w, userModel.ID, userModel.Email, userModel.Role, h.artisanIDFor(userModel.ID))

	// Best-effort; a projection hiccup must not fail the login.
	sessionID := uuid.New().String()
	if err := h.userService.RecordLogin(r.Context(), userModel.ID, sessionID, r.RemoteAddr, r.UserAgent()); err != nil {
		log.Printf("[API] recording login for %s: %v", userModel.ID, err)
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		User: UserResponse{
			ID:        userModel.ID,
			Email:     userModel.Email,
			Name:      userModel.Name,
			Role:      userModel.Role,
			CreatedAt: userModel.CreatedAt,
		},
		Message: "login successful",
	})
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		if err := h.userService.RecordLogout(r.Context(), claims.UserID, ""); err != nil {
			log.Printf("[API] recording logout for %s: %v", claims.UserID, err)
		}
	}

	h.clearAuthCookies(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// refresh token is self-contained; revocation happens by deactivating
// the account, which this handler re-checks on every refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshCookie, err := r.Cookie("refresh_token")
	if err != nil {
		respondError(w, "no refresh token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(refreshCookie.Value)
	if err != nil {
		h.clearAuthCookies(w)
		respondError(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	userModel, exists := h.queryHandler.GetUser(userID)
	if !exists {
		h.clearAuthCookies(w)
		respondError(w, "user not found", http.StatusUnauthorized)
		return
	}
	if !userModel.IsActive {
		h.clearAuthCookies(w)
		respondError(w, "account is deactivated", http.StatusForbidden)
		return
	}

	h.setAuthCookies(w, userModel.ID, userModel.Email, userModel.Role, h.artisanIDFor(userModel.ID))
	respondJSON(w, http.StatusOK, map[string]string{"message": "token refreshed"})
}

func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	userModel, exists := h.queryHandler.GetUser(claims.UserID)
	if !exists {
		respondError(w, "user not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, UserResponse{
		ID:        userModel.ID,
		Email:     userModel.Email,
		Name:      userModel.Name,
		Role:      userModel.Role,
		CreatedAt: userModel.CreatedAt,
	})
}

func (h *AuthHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userModel, exists := h.queryHandler.GetUser(claims.UserID)
	if !exists {
		respondError(w, "user not found", http.StatusNotFound)
		return
	}
	if err := auth.CheckPassword(userModel.PasswordHash, req.CurrentPassword); err != nil {
		respondError(w, "current password is incorrect", http.StatusBadRequest)
		return
	}

	if err := h.userService.ChangePassword(r.Context(), claims.UserID, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondError(w, "password change failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// RegisterArtisan creates the seller profile for the authenticated
// user, moves a customer account to the artisan role, and re-issues
// tokens carrying the new role and artisan ID, so subsequent requests
// pass the seller checks without re-login.
func (h *AuthHandlers) RegisterArtisan(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if _, exists := h.queryHandler.GetArtisanByUser(claims.UserID); exists {
		respondError(w, "artisan profile already exists", http.StatusConflict)
		return
	}

	var req struct {
		DisplayName string `json:"display_name"`
		Location    string `json:"location"`
		Bio         string `json:"bio"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.RegisterArtisan{
		UserID:      claims.UserID,
		DisplayName: req.DisplayName,
		Location:    req.Location,
		Bio:         req.Bio,
	}
	profile, err := h.cmdHandler.RegisterArtisan(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	role := claims.Role
	if role == user.RoleCustomer {
		if err := h.userService.ChangeRole(r.Context(), claims.UserID, user.RoleArtisan); err != nil {
			log.Printf("[API] Failed to upgrade role for user %s: %v", claims.UserID, err)
			respondError(w, "artisan registration failed", http.StatusInternalServerError)
			return
		}
		role = user.RoleArtisan
	}

	h.setAuthCookies(w, claims.UserID, claims.Email, role, profile.ID)
	respondJSON(w, http.StatusCreated, profile)
}

// artisanIDFor resolves the artisan profile for a user, "" when none.
func (h *AuthHandlers) artisanIDFor(userID string) string {
	if profile, ok := h.queryHandler.GetArtisanByUser(userID); ok {
		return profile.ID
	}
	return ""
}

func (h *AuthHandlers) setAuthCookies(w http.ResponseWriter, userID, email, role, artisanID string) {
	accessToken, accessExpiry, err := h.jwtService.GenerateAccessToken(userID, email, role, artisanID)
	if err != nil {
		log.Printf("[API] generating access token: %v", err)
		return
	}
	refreshToken, refreshExpiry, err := h.jwtService.GenerateRefreshToken(userID)
	if err != nil {
		log.Printf("[API] generating refresh token: %v", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		Expires:  accessExpiry,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/auth",
		Expires:  refreshExpiry,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "", Path: "/auth", MaxAge: -1, HttpOnly: true})
}
