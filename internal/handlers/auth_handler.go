package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tmoreau/cvfolio/internal/apperr"
	"github.com/tmoreau/cvfolio/internal/db"
	"github.com/tmoreau/cvfolio/internal/middleware"
	"github.com/tmoreau/cvfolio/internal/services"
	"github.com/tmoreau/cvfolio/internal/storage"
)

// AuthHandler serves the account lifecycle: register, login, logout,
// password rotation, admin transfer and the full-account wipe.
type AuthHandler struct {
	users    *services.UserService
	tokens   *services.TokenService
	database *mongo.Database
	files    storage.FileStore
	validate *validator.Validate
	secure   bool
}

func NewAuthHandler(users *services.UserService, tokens *services.TokenService, database *mongo.Database, files storage.FileStore, validate *validator.Validate, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		database: database,
		files:    files,
		validate: validate,
		secure:   secureCookies,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Register creates the account and logs it in immediately: the session
// cookie is set and both tokens are returned in the body for non-browser
// clients.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.users.CreateUser(c.Context(), req.Username, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		return respondError(c, err)
	}

	return h.respondWithTokens(c, user.ID.Hex(), user.IsAdmin, fiber.StatusCreated, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials. The failure response never reveals
// whether the email or the password was wrong.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.users.FindByEmail(c.Context(), req.Email)
	if err != nil || !h.users.VerifyPassword(user, req.Password) {
		return respondError(c, apperr.New(apperr.Authentication, "Invalid credentials"))
	}

	return h.respondWithTokens(c, user.ID.Hex(), user.IsAdmin, fiber.StatusOK, "")
}

func (h *AuthHandler) respondWithTokens(c *fiber.Ctx, userID string, isAdmin bool, status int, message string) error {
	access, err := h.tokens.SignAccessToken(userID)
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.Persistence, "failed to sign token", err))
	}
	refresh, err := h.tokens.SignRefreshToken(userID)
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.Persistence, "failed to sign token", err))
	}

	setAuthCookie(c, access, h.tokens.AccessTTL(), h.secure)

	body := fiber.Map{
		"token":        access,
		"refreshToken": refresh,
		"isAdmin":      isAdmin,
		"expiresAt":    time.Now().Add(h.tokens.AccessTTL()).UnixMilli(),
	}
	if message != "" {
		body["message"] = message
	}
	return c.Status(status).JSON(body)
}

// Logout clears the session cookie. Previously issued bearer tokens
// stay valid until expiry; there is no server-side revocation list.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearAuthCookie(c, h.secure)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	var req changePasswordRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	if err := h.users.ChangePassword(c.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

type transferAdminRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) TransferAdmin(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	var req transferAdminRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	if err := h.users.TransferAdmin(c.Context(), user, req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Admin role transferred"})
}

// DeleteAccount is the irreversible single-tenant wipe: every uploaded
// file and every collection in the database is removed, then the
// session cookie is cleared.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.files.RemoveAll(c.Context()); err != nil {
		return respondError(c, apperr.Wrap(apperr.Persistence, "failed to delete uploaded files", err))
	}
	if err := db.DropAll(c.Context(), h.database); err != nil {
		return respondError(c, apperr.Wrap(apperr.Persistence, "failed to delete account data", err))
	}
	clearAuthCookie(c, h.secure)
	return c.JSON(fiber.Map{"message": "Account and all data deleted"})
}
