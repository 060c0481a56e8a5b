package repositories

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"techsphere/models"
)

// MemoryStore keeps every collection in process memory (demo mode and tests).
// Each repository guards its own slice with a mutex so view and rating updates
// are atomic per collection.
type MemoryStore struct {
	Blogs    *MemoryBlogRepository
	Comments *MemoryCommentRepository
	Ratings  *MemoryRatingRepository
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Blogs:    &MemoryBlogRepository{},
		Comments: &MemoryCommentRepository{},
		Ratings:  &MemoryRatingRepository{},
	}
}

type MemoryBlogRepository struct {
	mu    sync.RWMutex
	blogs []*models.Blog
}

var _ BlogRepository = (*MemoryBlogRepository)(nil)

func cloneBlog(b *models.Blog) models.Blog {
	out := *b
	out.Tags = slices.Clone(b.Tags)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

func (r *MemoryBlogRepository) Insert(_ context.Context, b *models.Blog) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	stored := cloneBlog(b)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.blogs = append(r.blogs, &stored)
	return nil
}

func (r *MemoryBlogRepository) find(id string) *models.Blog {
	for _, b := range r.blogs {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (r *MemoryBlogRepository) FindByID(_ context.Context, id string) (*models.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b := r.find(id)
	if b == nil {
		return nil, ErrNotFound
	}
	out := cloneBlog(b)
	return &out, nil
}

var blogComparators = map[string]func(a, b *models.Blog) int{
	"createdAt":   func(a, b *models.Blog) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt":   func(a, b *models.Blog) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	"views":       func(a, b *models.Blog) int { return cmp.Compare(a.Views, b.Views) },
	"rating":      func(a, b *models.Blog) int { return cmp.Compare(a.Rating, b.Rating) },
	"ratingCount": func(a, b *models.Blog) int { return cmp.Compare(a.RatingCount, b.RatingCount) },
	"title":       func(a, b *models.Blog) int { return strings.Compare(a.Title, b.Title) },
}

func (r *MemoryBlogRepository) List(_ context.Context, opt ListBlogsOptions) ([]models.Blog, error) {
	r.mu.RLock()
	selected := make([]*models.Blog, 0, len(r.blogs))
	for _, b := range r.blogs {
		if opt.AuthorID != "" && b.AuthorID != opt.AuthorID {
			continue
		}
		selected = append(selected, b)
	}

	compare := blogComparators[resolveSortField(opt.OrderBy)]
	slices.SortStableFunc(selected, func(a, b *models.Blog) int {
		if opt.Ascending {
			return compare(a, b)
		}
		return compare(b, a)
	})
	if opt.Limit > 0 && len(selected) > opt.Limit {
		selected = selected[:opt.Limit]
	}

	results := make([]models.Blog, 0, len(selected))
	for _, b := range selected {
		results = append(results, cloneBlog(b))
	}
	r.mu.RUnlock()
	return results, nil
}

func (r *MemoryBlogRepository) UpdateContent(_ context.Context, b *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.find(b.ID)
	if stored == nil {
		return ErrNotFound
	}
	stored.Title = b.Title
	stored.Content = b.Content
	stored.Excerpt = b.Excerpt
	stored.CoverImage = b.CoverImage
	stored.Tags = slices.Clone(b.Tags)
	stored.UpdatedAt = b.UpdatedAt
	return nil
}

func (r *MemoryBlogRepository) mutate(id string, fn func(b *models.Blog)) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.find(id)
	if stored == nil {
		return nil, ErrNotFound
	}
	fn(stored)
	out := cloneBlog(stored)
	return &out, nil
}

func (r *MemoryBlogRepository) IncrementViews(_ context.Context, id string) (*models.Blog, error) {
	return r.mutate(id, func(b *models.Blog) { b.Views++ })
}

func (r *MemoryBlogRepository) ApplyRating(_ context.Context, id string, value float64) (*models.Blog, error) {
	return r.mutate(id, func(b *models.Blog) { b.ApplyRating(value) })
}

func (r *MemoryBlogRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.blogs)
	r.blogs = slices.DeleteFunc(r.blogs, func(b *models.Blog) bool { return b.ID == id })
	if len(r.blogs) == before {
		return ErrNotFound
	}
	return nil
}

type MemoryCommentRepository struct {
	mu       sync.RWMutex
	comments []models.Comment
}

var _ CommentRepository = (*MemoryCommentRepository)(nil)

func (r *MemoryCommentRepository) Insert(_ context.Context, c *models.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	stampNow(&c.CreatedAt)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, *c)
	return nil
}

// ListByBlog returns newest first; comments inserted later win ties.
func (r *MemoryCommentRepository) ListByBlog(_ context.Context, blogID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := []models.Comment{}
	for i := len(r.comments) - 1; i >= 0; i-- {
		if r.comments[i].BlogID == blogID {
			results = append(results, r.comments[i])
		}
	}
	slices.SortStableFunc(results, func(a, b models.Comment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return results, nil
}

func (r *MemoryCommentRepository) DeleteByBlog(_ context.Context, blogID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.comments)
	r.comments = slices.DeleteFunc(r.comments, func(c models.Comment) bool { return c.BlogID == blogID })
	return int64(before - len(r.comments)), nil
}

type MemoryRatingRepository struct {
	mu      sync.RWMutex
	ratings []models.Rating
}

var _ RatingRepository = (*MemoryRatingRepository)(nil)

func (r *MemoryRatingRepository) Insert(_ context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	stampNow(&rating.CreatedAt)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratings = append(r.ratings, *rating)
	return nil
}

func (r *MemoryRatingRepository) ListByBlog(_ context.Context, blogID string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := []models.Rating{}
	for _, rating := range r.ratings {
		if rating.BlogID == blogID {
			results = append(results, rating)
		}
	}
	return results, nil
}

func (r *MemoryRatingRepository) DeleteByBlog(_ context.Context, blogID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.ratings)
	r.ratings = slices.DeleteFunc(r.ratings, func(rt models.Rating) bool { return rt.BlogID == blogID })
	return int64(before - len(r.ratings)), nil
}
