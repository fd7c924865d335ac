package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tmoreau/cvfolio/internal/apperr"
	"github.com/tmoreau/cvfolio/internal/models"
)

// NoteRepository stores the per-user scratch note.
type NoteRepository interface {
	Get(ctx context.Context, userID primitive.ObjectID) (note models.UserNote, found bool, err error)
	Upsert(ctx context.Context, userID primitive.ObjectID, text string) (models.UserNote, error)
}

type mongoNoteRepository struct {
	col *mongo.Collection
}

func NewNoteRepository(col *mongo.Collection) NoteRepository {
	return &mongoNoteRepository{col: col}
}

func (r *mongoNoteRepository) Get(ctx context.Context, userID primitive.ObjectID) (models.UserNote, bool, error) {
	var note models.UserNote
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserNote{}, false, nil
	}
	if err != nil {
		return models.UserNote{}, false, apperr.Wrap(apperr.Persistence, "failed to load note", err)
	}
	return note, true, nil
}

func (r *mongoNoteRepository) Upsert(ctx context.Context, userID primitive.ObjectID, text string) (models.UserNote, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated models.UserNote
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"note": text, "user_id": userID}},
		opts,
	).Decode(&updated)
	if err != nil {
		return models.UserNote{}, apperr.Wrap(apperr.Persistence, "failed to save note", err)
	}
	return updated, nil
}
