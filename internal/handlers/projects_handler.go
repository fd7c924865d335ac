package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tmoreau/cvfolio/internal/apperr"
	"github.com/tmoreau/cvfolio/internal/middleware"
	"github.com/tmoreau/cvfolio/internal/models"
	"github.com/tmoreau/cvfolio/internal/services"
)

// ProjectsHandler serves the embedded projects array on its own
// endpoints, scoped to the same per-language upsert contract as the
// full form.
type ProjectsHandler struct {
	forms    *services.FormService
	users    *services.UserService
	validate *validator.Validate
}

func NewProjectsHandler(forms *services.FormService, users *services.UserService, validate *validator.Validate) *ProjectsHandler {
	return &ProjectsHandler{forms: forms, users: users, validate: validate}
}

func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	lang := services.NormalizeLang(c.Query("lang"))

	projects, err := h.forms.GetProjects(c.Context(), user.ID, lang)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(projects)
}

type saveProjectsRequest struct {
	Projects []models.Project `json:"projects"`
}

func (h *ProjectsHandler) Save(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	lang := services.NormalizeLang(c.Query("lang"))

	var req saveProjectsRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	updated, err := h.forms.SaveProjects(c.Context(), user.ID, req.Projects, lang)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// GetAdmin is the public read of the admin user's projects.
func (h *ProjectsHandler) GetAdmin(c *fiber.Ctx) error {
	admin, err := h.users.FindAdmin(c.Context())
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			return respondError(c, apperr.New(apperr.NotFound, "Admin not found"))
		}
		return respondError(c, err)
	}
	lang := services.NormalizeLang(c.Query("lang"))

	projects, err := h.forms.GetProjects(c.Context(), admin.ID, lang)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(projects)
}
