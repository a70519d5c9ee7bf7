package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brightmind-app/brightmind/internal/auth"
	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/brightmind-app/brightmind/internal/middleware"
	"github.com/brightmind-app/brightmind/internal/storage"
)

// Points awarded for a successful login.
const loginPoints = 2

// AuthHandler handles registration, login and the authenticated account
// surfaces (password, name, settings, profile, photo).
type AuthHandler struct {
	users   domain.UserRepository
	tokens  *auth.TokenManager
	emailer domain.EmailSender
	photos  storage.Store
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users domain.UserRepository, tokens *auth.TokenManager, emailer domain.EmailSender, photos storage.Store) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, emailer: emailer, photos: photos}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Name, email and password are required"})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error during registration"})
	}

	user := &domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
	}
	if _, err := h.users.Create(c.Request().Context(), user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "User already exists"})
		}
		slog.Error("Failed to create user", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error during registration"})
	}

	// Welcome mail is best-effort; registration already succeeded.
	go func() {
		body := fmt.Sprintf("<p>Welcome to Brightmind, %s!</p>", user.Name)
		if err := h.emailer.Send(user.Email, "Welcome to Brightmind", body); err != nil {
			slog.Error("Failed to send welcome email", "email", user.Email, "error", err)
		}
	}()

	return c.JSON(http.StatusCreated, map[string]string{"message": "Registered successfully"})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Email and password are required"})
	}

	ctx := c.Request().Context()
	user, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		slog.Error("Login lookup failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error during login"})
	}
	if user == nil || !auth.ComparePassword(req.Password, user.Password) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid credentials"})
	}

	userID := user.ID.String()
	activity := domain.Activity{
		Type:   "login",
		Title:  "Successful login",
		Time:   time.Now().UTC(),
		Points: loginPoints,
	}
	if err := h.users.RecordLogin(ctx, userID, loginPoints, activity); err != nil {
		// Login still succeeds; only the gamification bookkeeping is lost.
		slog.Error("Failed to update login stats", "user_id", userID, "error", err)
	}

	token, err := h.tokens.Generate(userID)
	if err != nil {
		slog.Error("Failed to issue token", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error during login"})
	}

	updated, err := h.users.FindByID(ctx, userID)
	if err != nil {
		updated = user
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  updated.Sanitized(),
	})
}

// GoogleRegister handles POST /api/auth/googleRegister: an email-only upsert
// for accounts arriving through Google sign-in.
func (h *AuthHandler) GoogleRegister(c echo.Context) error {
	var req GoogleRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Email is required"})
	}

	ctx := c.Request().Context()
	user, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		slog.Error("Google register lookup failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error during Google registration"})
	}
	if user == nil {
		// Google accounts have no local password.
		user, err = h.users.Create(ctx, &domain.User{Email: req.Email})
		if err != nil {
			slog.Error("Google register create failed", "error", err)
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error during Google registration"})
		}
	}

	token, err := h.tokens.Generate(user.ID.String())
	if err != nil {
		slog.Error("Failed to issue token", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error during Google registration"})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Google registration/login successful",
		"token":   token,
		"user":    user.Sanitized(),
	})
}

// ChangePassword handles POST /api/auth/changePassword.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Current and new password are required"})
	}

	ctx := c.Request().Context()
	// The context user is sanitized; refetch for the stored hash.
	stored, err := h.users.FindByID(ctx, user.ID.String())
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "User not found"})
	}
	if !auth.ComparePassword(req.CurrentPassword, stored.Password) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Incorrect current password"})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error changing password"})
	}
	if err := h.users.UpdatePassword(ctx, user.ID.String(), hash); err != nil {
		slog.Error("Failed to update password", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error changing password"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// ChangeUserName handles POST /api/auth/changeUserName.
func (h *AuthHandler) ChangeUserName(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}

	var req ChangeUserNameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "New username is required"})
	}

	if err := h.users.UpdateName(c.Request().Context(), user.ID.String(), req.NewUserName); err != nil {
		slog.Error("Failed to update name", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error changing username"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Username changed successfully"})
}

// GetSettings handles GET /api/auth/settings.
func (h *AuthHandler) GetSettings(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}
	return c.JSON(http.StatusOK, user.Settings)
}

// UpdateSettings handles PUT /api/auth/settings.
func (h *AuthHandler) UpdateSettings(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}

	var settings domain.Settings
	if err := c.Bind(&settings); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}

	updated, err := h.users.UpdateSettings(c.Request().Context(), user.ID.String(), settings)
	if err != nil {
		slog.Error("Failed to update settings", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error updating settings"})
	}
	return c.JSON(http.StatusOK, updated)
}

// GetProfile handles GET /api/auth/profile.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}
	return c.JSON(http.StatusOK, user.Profile)
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}

	var profile domain.Profile
	if err := c.Bind(&profile); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), user.ID.String(), profile)
	if err != nil {
		slog.Error("Failed to update profile", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error updating profile"})
	}
	return c.JSON(http.StatusOK, updated)
}

// UploadPhoto handles POST /api/auth/profile/photo.
func (h *AuthHandler) UploadPhoto(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "A photo file is required"})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Could not read uploaded file"})
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	photoPath := path.Join("photos", strings.ReplaceAll(user.ID.String(), ":", "-")+ext)

	ctx := c.Request().Context()
	if _, err := h.photos.Save(ctx, photoPath, src); err != nil {
		slog.Error("Failed to store photo", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error storing photo"})
	}
	if err := h.users.UpdatePhoto(ctx, user.ID.String(), photoPath); err != nil {
		slog.Error("Failed to record photo path", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error storing photo"})
	}

	return c.JSON(http.StatusOK, map[string]string{"photo": photoPath})
}

// GetPhoto handles GET /api/auth/profile/photo, streaming the caller's
// stored photo.
func (h *AuthHandler) GetPhoto(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}
	if user.Photo == "" {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "No photo uploaded"})
	}

	rc, err := h.photos.Get(c.Request().Context(), user.Photo)
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Photo not found"})
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, contentTypeForExt(filepath.Ext(user.Photo)), rc)
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
