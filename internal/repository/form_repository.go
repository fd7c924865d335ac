package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tmoreau/cvfolio/internal/apperr"
	"github.com/tmoreau/cvfolio/internal/models"
)

// FormRepository stores one résumé document per user for a single
// language. One instance exists per language collection.
type FormRepository interface {
	// Get returns the user's form. A missing document is not an error:
	// found is false and the zero Form is returned.
	Get(ctx context.Context, userID primitive.ObjectID) (form models.Form, found bool, err error)
	// Upsert replaces or creates the user's form and returns the stored
	// document. The write is atomic per document.
	Upsert(ctx context.Context, userID primitive.ObjectID, form models.Form) (models.Form, error)
	// UpsertProjects replaces only the embedded projects array.
	UpsertProjects(ctx context.Context, userID primitive.ObjectID, projects []models.Project) ([]models.Project, error)
}

type mongoFormRepository struct {
	col *mongo.Collection
}

func NewFormRepository(col *mongo.Collection) FormRepository {
	return &mongoFormRepository{col: col}
}

func (r *mongoFormRepository) Get(ctx context.Context, userID primitive.ObjectID) (models.Form, bool, error) {
	var form models.Form
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&form)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Form{}, false, nil
	}
	if err != nil {
		return models.Form{}, false, apperr.Wrap(apperr.Persistence, "failed to load form", err)
	}
	return form, true, nil
}

func (r *mongoFormRepository) Upsert(ctx context.Context, userID primitive.ObjectID, form models.Form) (models.Form, error) {
	form.ID = primitive.NilObjectID
	form.UserID = userID
	form.UpdatedAt = time.Now().UTC()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated models.Form
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": form},
		opts,
	).Decode(&updated)
	if err != nil {
		return models.Form{}, apperr.Wrap(apperr.Persistence, "failed to save form", err)
	}
	return updated, nil
}

func (r *mongoFormRepository) UpsertProjects(ctx context.Context, userID primitive.ObjectID, projects []models.Project) ([]models.Project, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated models.Form
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{
			"projects":   projects,
			"user_id":    userID,
			"updated_at": time.Now().UTC(),
		}},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "failed to save projects", err)
	}
	if updated.Projects == nil {
		return []models.Project{}, nil
	}
	return updated.Projects, nil
}
