package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/dto"
	"techsphere/cmd/api/sanitize"
	"techsphere/cmd/api/trace"
	"techsphere/cmd/api/validation"
	"techsphere/cmd/internal/eventbus"
	"techsphere/cmd/internal/logger"
	"techsphere/models"
	"techsphere/repositories"
)

const (
	DefaultListLimit     = 50
	DefaultTrendingLimit = 6
)

// BlogService 는 블로그/댓글/평점에 대한 검증, 정제, 저장을 담당한다.
type BlogService struct {
	blogs    repositories.BlogRepository
	comments repositories.CommentRepository
	ratings  repositories.RatingRepository
	events   eventbus.Publisher
	now      func() time.Time
}

func NewBlogService(
	blogs repositories.BlogRepository,
	comments repositories.CommentRepository,
	ratings repositories.RatingRepository,
	events eventbus.Publisher,
) *BlogService {
	if events == nil {
		events = eventbus.NopPublisher{}
	}
	return &BlogService{
		blogs:    blogs,
		comments: comments,
		ratings:  ratings,
		events:   events,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *BlogService) List(ctx context.Context, q dto.BlogListQuery) ([]models.Blog, error) {
	if res := validation.BlogList(q); !res.Valid {
		return nil, newValidationError(res.Violations)
	}
	limit, _ := validation.ParseLimit(q.Limit, DefaultListLimit)

	blogs, err := s.blogs.List(ctx, repositories.ListBlogsOptions{
		OrderBy:   q.OrderBy,
		Ascending: q.Order == "asc",
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return blogs, nil
}

// Get returns the blog after counting this read as one view.
func (s *BlogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	b, err := s.blogs.IncrementViews(ctx, id)
	if err != nil {
		return nil, s.mapNotFound(err, "get blog")
	}
	return b, nil
}

func (s *BlogService) Create(ctx context.Context, req dto.BlogRequestDTO, caller *auth.Identity) (*models.Blog, error) {
	draft := draftFromRequest(req)
	if res := validation.Blog(draft.title, draft.content, req.Tags); !res.Valid {
		return nil, newValidationError(res.Violations)
	}

	clean := draft.sanitized()
	if res := validation.Blog(clean.title, clean.content, nil); !res.Valid {
		return nil, newValidationError(res.Violations)
	}

	now := s.now()
	b := &models.Blog{
		Title:       clean.title,
		Content:     clean.content,
		Excerpt:     clean.excerpt,
		CoverImage:  clean.coverImage,
		Tags:        clean.tags,
		AuthorID:    req.AuthorID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Views:       0,
		Rating:      0,
		RatingCount: 0,
	}
	if req.Author != nil {
		b.Author = req.Author.ToModel()
	}
	if caller != nil {
		if b.AuthorID == "" {
			b.AuthorID = caller.UID
		}
		if req.Author == nil {
			b.Author = caller.Author()
		}
	}

	if err := s.blogs.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("insert blog: %w", err)
	}

	logger.InfoWithFields("blog created", trace.LogFields(ctx, logger.Fields{
		"blog_id":   b.ID,
		"author_id": b.AuthorID,
	}))
	s.publish(ctx, eventbus.NewBlogEvent(eventbus.BlogCreated, b))
	return b, nil
}

// Update merges supplied fields over the stored blog. Counters and the author
// snapshot are never touched.
func (s *BlogService) Update(ctx context.Context, id string, req dto.BlogRequestDTO) (*models.Blog, error) {
	existing, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapNotFound(err, "find blog")
	}

	draft := draftFromBlog(existing).merge(req)
	tags := req.Tags
	if tags == nil {
		tags = &dto.TagList{Values: existing.Tags}
	}
	if res := validation.Blog(draft.title, draft.content, tags); !res.Valid {
		return nil, newValidationError(res.Violations)
	}

	clean := draft.sanitized()
	if res := validation.Blog(clean.title, clean.content, nil); !res.Valid {
		return nil, newValidationError(res.Violations)
	}

	updated := *existing
	updated.Title = clean.title
	updated.Content = clean.content
	updated.Excerpt = clean.excerpt
	updated.CoverImage = clean.coverImage
	updated.Tags = clean.tags
	updated.UpdatedAt = s.now()

	if err := s.blogs.UpdateContent(ctx, &updated); err != nil {
		return nil, s.mapNotFound(err, "update blog")
	}

	// counters may have moved since FindByID; return what is stored now
	fresh, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapNotFound(err, "reload blog")
	}
	s.publish(ctx, eventbus.NewBlogEvent(eventbus.BlogUpdated, fresh))
	return fresh, nil
}

// Delete removes the blog, then its comments and ratings concurrently.
// A failed child delete leaves orphans behind and is reported as an error.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.blogs.Delete(ctx, id); err != nil {
		return s.mapNotFound(err, "delete blog")
	}

	var removedComments, removedRatings int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.comments.DeleteByBlog(gctx, id)
		if err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		removedComments = n
		return nil
	})
	g.Go(func() error {
		n, err := s.ratings.DeleteByBlog(gctx, id)
		if err != nil {
			return fmt.Errorf("delete ratings: %w", err)
		}
		removedRatings = n
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.ErrorWithFields("cascade delete incomplete", trace.LogFields(ctx, logger.Fields{
			"blog_id": id,
			"error":   err.Error(),
		}))
		return err
	}

	logger.InfoWithFields("blog deleted", trace.LogFields(ctx, logger.Fields{
		"blog_id":  id,
		"comments": removedComments,
		"ratings":  removedRatings,
	}))
	s.publish(ctx, eventbus.NewBlogEvent(eventbus.BlogDeleted, &models.Blog{ID: id}))
	return nil
}

// Search matches q case-insensitively against title, content and excerpt, and
// keeps blogs sharing at least one tag with the comma-separated tags list.
func (s *BlogService) Search(ctx context.Context, q dto.BlogSearchQuery) ([]models.Blog, error) {
	all, err := s.blogs.List(ctx, repositories.ListBlogsOptions{})
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(q.Q))
	tags := splitTags(q.Tags)

	out := make([]models.Blog, 0, len(all))
	for i := range all {
		b := &all[i]
		if needle != "" && !matchesText(b, needle) {
			continue
		}
		if len(tags) > 0 && !b.HasAnyTag(tags) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

// Trending ranks by 0.7*rating + 0.001*views; ties keep listing order.
func (s *BlogService) Trending(ctx context.Context, limitRaw string) ([]dto.TrendingBlogDTO, error) {
	limit, err := validation.ParseLimit(limitRaw, DefaultTrendingLimit)
	if err != nil {
		return nil, newValidationError([]string{"Limit must be a positive integer"})
	}

	all, err := s.blogs.List(ctx, repositories.ListBlogsOptions{})
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	ranked := make([]dto.TrendingBlogDTO, 0, len(all))
	for i := range all {
		ranked = append(ranked, dto.TrendingBlogDTO{Blog: all[i], TrendingScore: all[i].TrendingScore()})
	}
	slices.SortStableFunc(ranked, func(a, b dto.TrendingBlogDTO) int {
		switch {
		case a.TrendingScore > b.TrendingScore:
			return -1
		case a.TrendingScore < b.TrendingScore:
			return 1
		default:
			return 0
		}
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Rate records the submission, then folds value into the blog's running
// average. A failed record insert leaves the average untouched.
func (s *BlogService) Rate(ctx context.Context, id string, value *float64, userID string) (*models.Blog, error) {
	if res := validation.Rating(value); !res.Valid {
		return nil, newValidationError(res.Violations)
	}

	if _, err := s.blogs.FindByID(ctx, id); err != nil {
		return nil, s.mapNotFound(err, "find blog")
	}

	if err := s.ratings.Insert(ctx, &models.Rating{
		BlogID:    id,
		Value:     *value,
		UserID:    userID,
		CreatedAt: s.now(),
	}); err != nil {
		return nil, fmt.Errorf("insert rating: %w", err)
	}

	b, err := s.blogs.ApplyRating(ctx, id, *value)
	if err != nil {
		return nil, s.mapNotFound(err, "apply rating")
	}

	s.publish(ctx, eventbus.NewBlogEvent(eventbus.BlogRated, b))
	return b, nil
}

func (s *BlogService) AddComment(ctx context.Context, blogID string, req dto.CommentRequestDTO, caller *auth.Identity) (*models.Comment, error) {
	if res := validation.Comment(req.Comment); !res.Valid {
		return nil, newValidationError(res.Violations)
	}

	if _, err := s.blogs.FindByID(ctx, blogID); err != nil {
		return nil, s.mapNotFound(err, "find blog")
	}

	content := sanitize.Comment(req.Comment)
	if res := validation.Comment(content); !res.Valid {
		return nil, newValidationError(res.Violations)
	}

	c := &models.Comment{
		BlogID:    blogID,
		Content:   content,
		Author:    commentAuthor(req.Author, caller),
		CreatedAt: s.now(),
	}
	if err := s.comments.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	s.publish(ctx, eventbus.NewCommentEvent(c))
	return c, nil
}

// ListComments returns comments newest first. An unknown blog has no comments.
func (s *BlogService) ListComments(ctx context.Context, blogID string) ([]models.Comment, error) {
	comments, err := s.comments.ListByBlog(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *BlogService) ListByAuthor(ctx context.Context, authorID string) ([]models.Blog, error) {
	blogs, err := s.blogs.List(ctx, repositories.ListBlogsOptions{AuthorID: authorID})
	if err != nil {
		return nil, fmt.Errorf("list author blogs: %w", err)
	}
	return blogs, nil
}

func (s *BlogService) mapNotFound(err error, op string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrBlogNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// publish never fails the request; broker problems are only logged.
func (s *BlogService) publish(ctx context.Context, evt eventbus.BlogEvent) {
	msg, err := eventbus.NewJSONEvent(evt.ID, evt.BlogID, evt)
	if err == nil {
		err = s.events.Publish(ctx, msg)
	}
	if err != nil {
		logger.WarnWithFields("event publish failed", trace.LogFields(ctx, logger.Fields{
			"event_type": string(evt.Type),
			"blog_id":    evt.BlogID,
			"error":      err.Error(),
		}))
	}
}

func commentAuthor(body *dto.AuthorDTO, caller *auth.Identity) models.Author {
	switch {
	case body != nil && body.DisplayName != "":
		return body.ToModel()
	case caller != nil:
		return caller.Author()
	default:
		return models.AnonymousAuthor
	}
}

func matchesText(b *models.Blog, needle string) bool {
	return strings.Contains(strings.ToLower(b.Title), needle) ||
		strings.Contains(strings.ToLower(b.Content), needle) ||
		strings.Contains(strings.ToLower(b.Excerpt), needle)
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// blogDraft is the editable part of a blog before and after sanitization.
type blogDraft struct {
	title, content, excerpt, coverImage string
	tags                                []string
}

func draftFromRequest(req dto.BlogRequestDTO) blogDraft {
	return blogDraft{}.merge(req)
}

func draftFromBlog(b *models.Blog) blogDraft {
	return blogDraft{
		title:      b.Title,
		content:    b.Content,
		excerpt:    b.Excerpt,
		coverImage: b.CoverImage,
		tags:       b.Tags,
	}
}

func (d blogDraft) merge(req dto.BlogRequestDTO) blogDraft {
	if req.Title != nil {
		d.title = *req.Title
	}
	if req.Content != nil {
		d.content = *req.Content
	}
	if req.Excerpt != nil {
		d.excerpt = *req.Excerpt
	}
	if req.CoverImage != nil {
		d.coverImage = *req.CoverImage
	}
	if req.Tags != nil && !req.Tags.NotList {
		d.tags = req.Tags.Values
	}
	return d
}

func (d blogDraft) sanitized() blogDraft {
	return blogDraft{
		title:      sanitize.Title(d.title),
		content:    sanitize.Content(d.content),
		excerpt:    sanitize.Excerpt(d.excerpt),
		coverImage: sanitize.CoverImage(d.coverImage),
		tags:       sanitize.Tags(d.tags),
	}
}
