package repositories

import (
	"context"
	"errors"

	"techsphere/models"
)

// ErrNotFound is returned when a lookup by id matches no document.
var ErrNotFound = errors.New("document not found")

// ListBlogsOptions controls ordering and filtering of blog listings.
// OrderBy uses API field names (createdAt, views, ...). Limit <= 0 means no cap.
type ListBlogsOptions struct {
	OrderBy   string
	Ascending bool
	Limit     int
	AuthorID  string
}

// sortFields maps API sort keys onto stored field names.
var sortFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"views":       "views",
	"rating":      "rating",
	"ratingCount": "rating_count",
	"title":       "title",
}

const defaultSortField = "createdAt"

func resolveSortField(orderBy string) string {
	if _, ok := sortFields[orderBy]; ok {
		return orderBy
	}
	return defaultSortField
}

// BlogRepository stores blogs. IncrementViews and ApplyRating are atomic at the
// storage layer and return the post-update document.
type BlogRepository interface {
	Insert(ctx context.Context, b *models.Blog) error
	FindByID(ctx context.Context, id string) (*models.Blog, error)
	List(ctx context.Context, opt ListBlogsOptions) ([]models.Blog, error)
	UpdateContent(ctx context.Context, b *models.Blog) error
	IncrementViews(ctx context.Context, id string) (*models.Blog, error)
	ApplyRating(ctx context.Context, id string, value float64) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Insert(ctx context.Context, c *models.Comment) error
	ListByBlog(ctx context.Context, blogID string) ([]models.Comment, error)
	DeleteByBlog(ctx context.Context, blogID string) (int64, error)
}

type RatingRepository interface {
	Insert(ctx context.Context, r *models.Rating) error
	ListByBlog(ctx context.Context, blogID string) ([]models.Rating, error)
	DeleteByBlog(ctx context.Context, blogID string) (int64, error)
}
