package models

import "time"

// Comment is immutable once stored; it only disappears with its blog.
// Collection: comments
type Comment struct {
	ID        string    `bson:"_id" json:"id"`
	BlogID    string    `bson:"blog_id" json:"blogId"`
	Content   string    `bson:"content" json:"content"`
	Author    Author    `bson:"author" json:"author"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// AnonymousAuthor is used when a comment arrives without any author information.
var AnonymousAuthor = Author{DisplayName: "Anonymous"}
