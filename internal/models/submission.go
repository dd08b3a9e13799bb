package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission is an accepted donor, recipient, event or post form, stored in
// MongoDB when configured.
type Submission struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Kind        string             `json:"kind" bson:"kind"`
	UserID      string             `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Role        Role               `json:"role,omitempty" bson:"role,omitempty"`
	Fields      map[string]any     `json:"fields" bson:"fields"`
	SubmittedAt time.Time          `json:"submitted_at" bson:"submitted_at"`
}
