package handlers

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tmoreau/cvfolio/internal/apperr"
	"github.com/tmoreau/cvfolio/internal/storage"
)

// UploadHandler manages certificate and CV PDF files: upload with
// magic-byte validation, deletion by path, and serving stored files
// back under /uploads.
type UploadHandler struct {
	files storage.FileStore
}

func NewUploadHandler(files storage.FileStore) *UploadHandler {
	return &UploadHandler{files: files}
}

// UploadPDF accepts a multipart "pdf" field. The content must carry the
// PDF magic bytes; anything else is rejected and discarded without
// touching storage.
func (h *UploadHandler) UploadPDF(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		return respondError(c, apperr.New(apperr.Validation, "No file provided"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.Persistence, "failed to open upload", err))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.Persistence, "failed to read upload", err))
	}

	if !storage.IsPDF(content) {
		return respondError(c, apperr.New(apperr.Validation, "Invalid file: not a PDF"))
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".pdf"
	}
	name := fmt.Sprintf("pdfs/%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)

	path, err := h.files.Save(c.Context(), name, "application/pdf", content)
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.Persistence, "failed to store file", err))
	}

	return c.JSON(fiber.Map{
		"filename": fileHeader.Filename,
		"path":     path,
	})
}

// DeletePDF removes a stored file by its ?path=/uploads/... reference.
func (h *UploadHandler) DeletePDF(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return respondError(c, apperr.New(apperr.Validation, "Missing path parameter"))
	}
	if _, ok := storage.ObjectName(path); !ok {
		return respondError(c, apperr.New(apperr.Validation, "Invalid path"))
	}
	if err := h.files.Remove(c.Context(), path); err != nil {
		// Best effort, same as orphan cleanup: a missing file is fine.
		log.Printf("upload: delete %s: %v", path, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Serve streams a stored file back by its public path.
func (h *UploadHandler) Serve(c *fiber.Ctx) error {
	path := storage.PathPrefix + c.Params("*")
	obj, err := h.files.Open(c.Context(), path)
	if err != nil {
		return respondError(c, apperr.New(apperr.NotFound, "File not found"))
	}
	defer obj.Close()

	content, err := io.ReadAll(obj)
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.Persistence, "failed to read file", err))
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(content)
}
