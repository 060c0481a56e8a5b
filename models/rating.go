package models

import "time"

// Rating is a single submission event. Repeated submissions by the same user
// are stored independently.
// Collection: ratings
type Rating struct {
	ID        string    `bson:"_id" json:"id"`
	BlogID    string    `bson:"blog_id" json:"blogId"`
	Value     float64   `bson:"value" json:"value"`
	UserID    string    `bson:"user_id,omitempty" json:"userId,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
