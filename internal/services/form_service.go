package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tmoreau/cvfolio/internal/models"
	"github.com/tmoreau/cvfolio/internal/repository"
	"github.com/tmoreau/cvfolio/internal/storage"
	"github.com/tmoreau/cvfolio/internal/translate"
)

// Languages the form store knows about. French is the source of truth:
// saving it re-derives the English document.
const (
	LangFR = "fr"
	LangEN = "en"
)

// NormalizeLang collapses the ?lang= query value to a supported
// language, defaulting to French.
func NormalizeLang(lang string) string {
	if lang == LangEN {
		return LangEN
	}
	return LangFR
}

// FormService orchestrates reads and writes across the two language
// stores, decides when to auto-translate, and sanitizes payloads before
// they reach persistence.
type FormService struct {
	fr         repository.FormRepository
	en         repository.FormRepository
	translator translate.Translator
	files      storage.FileStore
}

func NewFormService(fr, en repository.FormRepository, translator translate.Translator, files storage.FileStore) *FormService {
	return &FormService{fr: fr, en: en, translator: translator, files: files}
}

func (s *FormService) repo(lang string) repository.FormRepository {
	if NormalizeLang(lang) == LangEN {
		return s.en
	}
	return s.fr
}

// GetForm returns the user's form for one language. A missing document
// comes back as the sanitized zero form, not an error.
func (s *FormService) GetForm(ctx context.Context, userID primitive.ObjectID, lang string) (models.Form, error) {
	form, found, err := s.repo(lang).Get(ctx, userID)
	if err != nil {
		return models.Form{}, err
	}
	if !found {
		return Sanitize(models.Form{}), nil
	}
	return form, nil
}

// SaveForm sanitizes and persists the payload into the requested
// language's store.
//
// English saves are authoritative for English only. French saves also
// translate the just-sanitized payload and overwrite the English
// document's translatable fields: a one-directional FR-is-source-of-
// truth synchronization. There is no atomicity across the two writes; a
// failure between them leaves the documents out of sync until the next
// French save.
func (s *FormService) SaveForm(ctx context.Context, userID primitive.ObjectID, payload models.Form, lang string) (models.Form, error) {
	lang = NormalizeLang(lang)
	sanitized := Sanitize(payload)

	old, hadOld, err := s.repo(lang).Get(ctx, userID)
	if err != nil {
		return models.Form{}, err
	}

	saved, err := s.repo(lang).Upsert(ctx, userID, sanitized)
	if err != nil {
		return models.Form{}, err
	}

	if hadOld {
		s.cleanupOrphans(ctx, old, saved)
	}

	if lang == LangFR {
		translated := translate.Profile(ctx, s.translator, sanitized)
		if _, err := s.en.Upsert(ctx, userID, translated); err != nil {
			return models.Form{}, err
		}
	}
	return saved, nil
}

// GetProjects returns only the embedded projects array.
func (s *FormService) GetProjects(ctx context.Context, userID primitive.ObjectID, lang string) ([]models.Project, error) {
	form, found, err := s.repo(lang).Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found || form.Projects == nil {
		return []models.Project{}, nil
	}
	return form.Projects, nil
}

// SaveProjects upserts the projects array for one language.
func (s *FormService) SaveProjects(ctx context.Context, userID primitive.ObjectID, projects []models.Project, lang string) ([]models.Project, error) {
	return s.repo(lang).UpsertProjects(ctx, userID, sanitizeProjects(projects))
}

// cleanupOrphans deletes files referenced by the old document but
// absent from the new one. Failures are logged, never surfaced; the
// form write has already committed.
func (s *FormService) cleanupOrphans(ctx context.Context, old, updated models.Form) {
	kept := make(map[string]struct{}, len(updated.Certifications))
	for _, cert := range updated.Certifications {
		if cert.PdfURL != "" {
			kept[cert.PdfURL] = struct{}{}
		}
	}
	for _, cert := range old.Certifications {
		if cert.PdfURL == "" {
			continue
		}
		if _, inUse := kept[cert.PdfURL]; inUse {
			continue
		}
		if err := s.files.Remove(ctx, cert.PdfURL); err != nil {
			log.Printf("cleanup: failed to remove %s: %v", cert.PdfURL, err)
		}
	}
	if old.CvPdfURL != "" && old.CvPdfURL != updated.CvPdfURL {
		if err := s.files.Remove(ctx, old.CvPdfURL); err != nil {
			log.Printf("cleanup: failed to remove %s: %v", old.CvPdfURL, err)
		}
	}
}

// Sanitize normalizes a decoded payload into the exact stored shape:
// server-managed fields are cleared and every repeated substructure is
// a non-nil slice. The typed schema already collapsed unexpected
// sub-fields during decoding; Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(form models.Form) models.Form {
	form.ID = primitive.NilObjectID
	form.UserID = primitive.NilObjectID
	form.UpdatedAt = time.Time{}

	if form.Languages == nil {
		form.Languages = []models.LanguageLevel{}
	}
	if form.Skills == nil {
		form.Skills = []models.Skill{}
	}
	if form.SoftSkills == nil {
		form.SoftSkills = []models.SoftSkill{}
	}
	if form.Experiences == nil {
		form.Experiences = []models.Experience{}
	}
	if form.Certifications == nil {
		form.Certifications = []models.Certification{}
	}
	if form.References == nil {
		form.References = []models.Reference{}
	}
	if form.Hobbies == nil {
		form.Hobbies = []string{}
	}
	form.Projects = sanitizeProjects(form.Projects)
	return form
}

func sanitizeProjects(projects []models.Project) []models.Project {
	if projects == nil {
		return []models.Project{}
	}
	out := make([]models.Project, len(projects))
	for i, p := range projects {
		out[i] = models.Project{Title: p.Title, Description: p.Description}
	}
	return out
}
