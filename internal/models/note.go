package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserNote is the per-user scratch note, independent of language.
type UserNote struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"-"`
	Note   string             `bson:"note" json:"note"`
}
