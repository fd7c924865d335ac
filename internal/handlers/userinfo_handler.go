package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tmoreau/cvfolio/internal/apperr"
	"github.com/tmoreau/cvfolio/internal/middleware"
	"github.com/tmoreau/cvfolio/internal/models"
	"github.com/tmoreau/cvfolio/internal/services"
)

// UserInfoHandler serves the résumé document: authenticated read/write
// for the owner plus a public read of the admin's profile.
type UserInfoHandler struct {
	forms *services.FormService
	users *services.UserService
}

func NewUserInfoHandler(forms *services.FormService, users *services.UserService) *UserInfoHandler {
	return &UserInfoHandler{forms: forms, users: users}
}

// Get returns the caller's form for ?lang=fr|en (default fr). A user
// who has never saved gets an empty form, not a 404.
func (h *UserInfoHandler) Get(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	lang := services.NormalizeLang(c.Query("lang"))

	form, err := h.forms.GetForm(c.Context(), user.ID, lang)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(form)
}

// Update upserts the caller's form. Saving French re-derives the
// English document through the translation gateway.
func (h *UserInfoHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	lang := services.NormalizeLang(c.Query("lang"))

	var payload models.Form
	if err := c.BodyParser(&payload); err != nil {
		return respondError(c, apperr.New(apperr.Validation, "Invalid request body"))
	}

	saved, err := h.forms.SaveForm(c.Context(), user.ID, payload, lang)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(saved)
}

// GetAdmin is the public read of the admin user's profile, used by the
// résumé landing page without authentication.
func (h *UserInfoHandler) GetAdmin(c *fiber.Ctx) error {
	admin, err := h.users.FindAdmin(c.Context())
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			return respondError(c, apperr.New(apperr.NotFound, "Admin user not found"))
		}
		return respondError(c, err)
	}
	lang := services.NormalizeLang(c.Query("lang"))

	form, err := h.forms.GetForm(c.Context(), admin.ID, lang)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(form)
}
