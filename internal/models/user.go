package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the credential store record. At most one user may carry the
// admin flag; a partial unique index on is_admin enforces it at the
// database level.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
	IsAdmin  bool               `bson:"is_admin" json:"isAdmin"`
}
