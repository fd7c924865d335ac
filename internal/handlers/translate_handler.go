package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tmoreau/cvfolio/internal/translate"
)

// TranslateHandler exposes on-demand single-string translation. The
// gateway's fallback policy applies: the worst case is getting the
// input back unchanged.
type TranslateHandler struct {
	translator translate.Translator
	validate   *validator.Validate
}

func NewTranslateHandler(translator translate.Translator, validate *validator.Validate) *TranslateHandler {
	return &TranslateHandler{translator: translator, validate: validate}
}

type translateRequest struct {
	Text   string `json:"text" validate:"required"`
	Source string `json:"source" validate:"omitempty,len=2"`
	Target string `json:"target" validate:"omitempty,len=2"`
}

func (h *TranslateHandler) Text(c *fiber.Ctx) error {
	var req translateRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	translated := h.translator.Translate(c.Context(), req.Text, req.Source, req.Target)
	return c.JSON(fiber.Map{"translatedText": translated})
}
