package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tmoreau/cvfolio/internal/apperr"
	"github.com/tmoreau/cvfolio/internal/models"
)

// fakeUserRepo mimics the mongo implementation including the unique
// indexes on username, email and the admin flag.
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperr.New(apperr.Validation, "username or email already in use")
		}
		if user.IsAdmin && u.IsAdmin {
			return apperr.New(apperr.Validation, "an administrator already exists")
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (r *fakeUserRepo) FindAdmin(_ context.Context) (*models.User, error) {
	for _, u := range r.users {
		if u.IsAdmin {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	u.Password = hash
	return nil
}

func (r *fakeUserRepo) SetAdmin(_ context.Context, id primitive.ObjectID, isAdmin bool) error {
	u, ok := r.users[id]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	if isAdmin {
		for otherID, other := range r.users {
			if otherID != id && other.IsAdmin {
				return apperr.New(apperr.Conflict, "an administrator already exists")
			}
		}
	}
	u.IsAdmin = isAdmin
	return nil
}

// fakeFormRepo keeps one form per user in memory.
type fakeFormRepo struct {
	docs map[primitive.ObjectID]models.Form
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{docs: make(map[primitive.ObjectID]models.Form)}
}

func (r *fakeFormRepo) Get(_ context.Context, userID primitive.ObjectID) (models.Form, bool, error) {
	form, ok := r.docs[userID]
	if !ok {
		return models.Form{}, false, nil
	}
	return form, true, nil
}

func (r *fakeFormRepo) Upsert(_ context.Context, userID primitive.ObjectID, form models.Form) (models.Form, error) {
	form.UserID = userID
	r.docs[userID] = form
	return form, nil
}

func (r *fakeFormRepo) UpsertProjects(_ context.Context, userID primitive.ObjectID, projects []models.Project) ([]models.Project, error) {
	form := r.docs[userID]
	form.UserID = userID
	form.Projects = projects
	r.docs[userID] = form
	return projects, nil
}

// fakeTranslator prefixes translated text, or echoes it back when
// broken (the gateway's fallback behavior).
type fakeTranslator struct {
	broken bool
	calls  int
}

func (f *fakeTranslator) Translate(_ context.Context, text, _, _ string) string {
	f.calls++
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if f.broken {
		return text
	}
	return "en:" + text
}

// fakeFileStore records removals.
type fakeFileStore struct {
	removed []string
	wiped   bool
}

func (f *fakeFileStore) Save(_ context.Context, name, _ string, _ []byte) (string, error) {
	return "/uploads/" + name, nil
}

func (f *fakeFileStore) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not found")
}

func (f *fakeFileStore) Remove(_ context.Context, path string) error {
	f.removed = append(f.removed, path)
	return nil
}

func (f *fakeFileStore) RemoveAll(_ context.Context) error {
	f.wiped = true
	return nil
}
