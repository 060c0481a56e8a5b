package models

import "time"

// Author is a denormalized snapshot of the identity that wrote a post or comment.
// It is copied at write time and never re-synced with the identity provider.
type Author struct {
	DisplayName string `bson:"display_name" json:"displayName"`
	PhotoURL    string `bson:"photo_url,omitempty" json:"photoURL,omitempty"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
}

// Blog is a user-authored post
// Collection: blogs
type Blog struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Content     string    `bson:"content" json:"content"`
	Excerpt     string    `bson:"excerpt" json:"excerpt"`
	CoverImage  string    `bson:"cover_image" json:"coverImage"`
	Tags        []string  `bson:"tags" json:"tags"`
	AuthorID    string    `bson:"author_id" json:"authorId"`
	Author      Author    `bson:"author" json:"author"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
	Views       int64     `bson:"views" json:"views"`
	Rating      float64   `bson:"rating" json:"rating"`
	RatingCount int64     `bson:"rating_count" json:"ratingCount"`
}

// HasAnyTag reports whether the blog carries at least one of the given tags.
func (b *Blog) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range b.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TrendingScore blends quality and reach: 0.7*rating + 0.001*views.
func (b *Blog) TrendingScore() float64 {
	return 0.7*b.Rating + 0.001*float64(b.Views)
}

// ApplyRating folds one submitted value into the running average.
func (b *Blog) ApplyRating(value float64) {
	count := float64(b.RatingCount)
	b.Rating = (b.Rating*count + value) / (count + 1)
	b.RatingCount++
}
