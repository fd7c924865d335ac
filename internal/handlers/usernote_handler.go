package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tmoreau/cvfolio/internal/middleware"
	"github.com/tmoreau/cvfolio/internal/models"
	"github.com/tmoreau/cvfolio/internal/repository"
)

// NoteHandler serves the per-user scratch note, independent of language.
type NoteHandler struct {
	notes    repository.NoteRepository
	validate *validator.Validate
}

func NewNoteHandler(notes repository.NoteRepository, validate *validator.Validate) *NoteHandler {
	return &NoteHandler{notes: notes, validate: validate}
}

func (h *NoteHandler) Get(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	note, found, err := h.notes.Get(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	if !found {
		return c.JSON(models.UserNote{UserID: user.ID})
	}
	return c.JSON(note)
}

type saveNoteRequest struct {
	Note string `json:"note" validate:"max=10000"`
}

func (h *NoteHandler) Save(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	var req saveNoteRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	updated, err := h.notes.Upsert(c.Context(), user.ID, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}
