package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tmoreau/cvfolio/internal/apperr"
	"github.com/tmoreau/cvfolio/internal/services"
)

// respondError maps a service error to its HTTP status and a JSON body
// with a human-readable "error" field. Internal details never reach the
// client.
func respondError(c *fiber.Ctx, err error) error {
	status := apperr.Status(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": apperr.Message(err)})
}

// parseBody decodes and validates a typed request struct. Validation
// failures come back as a 400 with the first offending field named.
func parseBody(c *fiber.Ctx, validate *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return apperr.New(apperr.Validation, "invalid field: "+fieldErrs[0].Field())
		}
		return apperr.New(apperr.Validation, "Validation failed")
	}
	return nil
}

// setAuthCookie attaches the HttpOnly session cookie carrying the
// access token. SameSite=Strict; Secure outside development.
func setAuthCookie(c *fiber.Ctx, token string, ttl time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     services.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func clearAuthCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     services.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
