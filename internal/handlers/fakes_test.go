package handlers

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tmoreau/cvfolio/internal/apperr"
	"github.com/tmoreau/cvfolio/internal/models"
)

type memUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperr.New(apperr.Validation, "username or email already in use")
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (r *memUserRepo) FindAdmin(_ context.Context) (*models.User, error) {
	for _, u := range r.users {
		if u.IsAdmin {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	u.Password = hash
	return nil
}

func (r *memUserRepo) SetAdmin(_ context.Context, id primitive.ObjectID, isAdmin bool) error {
	u, ok := r.users[id]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	u.IsAdmin = isAdmin
	return nil
}

type memFormRepo struct {
	docs map[primitive.ObjectID]models.Form
}

func newMemFormRepo() *memFormRepo {
	return &memFormRepo{docs: make(map[primitive.ObjectID]models.Form)}
}

func (r *memFormRepo) Get(_ context.Context, userID primitive.ObjectID) (models.Form, bool, error) {
	form, ok := r.docs[userID]
	return form, ok, nil
}

func (r *memFormRepo) Upsert(_ context.Context, userID primitive.ObjectID, form models.Form) (models.Form, error) {
	form.UserID = userID
	r.docs[userID] = form
	return form, nil
}

func (r *memFormRepo) UpsertProjects(_ context.Context, userID primitive.ObjectID, projects []models.Project) ([]models.Project, error) {
	form := r.docs[userID]
	form.UserID = userID
	form.Projects = projects
	r.docs[userID] = form
	return projects, nil
}

type memNoteRepo struct {
	notes map[primitive.ObjectID]string
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{notes: make(map[primitive.ObjectID]string)}
}

func (r *memNoteRepo) Get(_ context.Context, userID primitive.ObjectID) (models.UserNote, bool, error) {
	text, ok := r.notes[userID]
	if !ok {
		return models.UserNote{}, false, nil
	}
	return models.UserNote{UserID: userID, Note: text}, true, nil
}

func (r *memNoteRepo) Upsert(_ context.Context, userID primitive.ObjectID, text string) (models.UserNote, error) {
	r.notes[userID] = text
	return models.UserNote{UserID: userID, Note: text}, nil
}

// echoTranslator marks translated text so tests can see it went
// through the gateway.
type echoTranslator struct{}

func (echoTranslator) Translate(_ context.Context, text, _, _ string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return "en:" + text
}

type memFileStore struct {
	objects map[string][]byte
	removed []string
}

func newMemFileStore() *memFileStore {
	return &memFileStore{objects: make(map[string][]byte)}
}

func (f *memFileStore) Save(_ context.Context, name, _ string, content []byte) (string, error) {
	path := "/uploads/" + name
	f.objects[path] = content
	return path, nil
}

func (f *memFileStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	content, ok := f.objects[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(strings.NewReader(string(content))), nil
}

func (f *memFileStore) Remove(_ context.Context, path string) error {
	delete(f.objects, path)
	f.removed = append(f.removed, path)
	return nil
}

func (f *memFileStore) RemoveAll(_ context.Context) error {
	f.objects = make(map[string][]byte)
	return nil
}
