package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/dto"
	"techsphere/cmd/internal/eventbus"
	"techsphere/models"
	"techsphere/repositories"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.BlogEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt eventbus.Event) error {
	decoded, err := eventbus.DecodeJSON[eventbus.BlogEvent](evt)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, decoded)
	return p.err
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) types() []eventbus.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]eventbus.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type failingComments struct {
	repositories.CommentRepository
}

func (failingComments) DeleteByBlog(context.Context, string) (int64, error) {
	return 0, errors.New("comments unavailable")
}

type failingRatings struct {
	repositories.RatingRepository
}

func (failingRatings) Insert(context.Context, *models.Rating) error {
	return errors.New("ratings unavailable")
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func newTestBlogService(t *testing.T) (*BlogService, *repositories.MemoryStore, *recordingPublisher) {
	t.Helper()
	store := repositories.NewMemoryStore()
	pub := &recordingPublisher{}
	svc := NewBlogService(store.Blogs, store.Comments, store.Ratings, pub)
	return svc, store, pub
}

func seedDemo(t *testing.T, store *repositories.MemoryStore) {
	t.Helper()
	_, err := repositories.SeedDemo(context.Background(), store.Blogs, time.Now())
	require.NoError(t, err)
}

func TestCreateStampsDefaultsAndSanitizes(t *testing.T) {
	svc, _, pub := newTestBlogService(t)

	b, err := svc.Create(context.Background(), dto.BlogRequestDTO{
		Title:   strPtr("  <b>Hello</b>  "),
		Content: strPtr("  ```\n<div>keep</div>\n```  "),
		Tags:    &dto.TagList{Values: []string{"go", " go ", "", "<ai>"}},
	}, &auth.Identity{UID: "u1", DisplayName: "Kim", Email: "kim@example.com"})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "bHello/b", b.Title)
	assert.Equal(t, "```\n<div>keep</div>\n```", b.Content)
	assert.Equal(t, []string{"go", "ai"}, b.Tags)
	assert.Equal(t, "u1", b.AuthorID)
	assert.Equal(t, "Kim", b.Author.DisplayName)
	assert.Zero(t, b.Views)
	assert.Zero(t, b.Rating)
	assert.Zero(t, b.RatingCount)
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)
	assert.Equal(t, []eventbus.EventType{eventbus.BlogCreated}, pub.types())
}

func TestCreateBodyAuthorWins(t *testing.T) {
	svc, _, _ := newTestBlogService(t)

	b, err := svc.Create(context.Background(), dto.BlogRequestDTO{
		Title:    strPtr("t"),
		Content:  strPtr("c"),
		AuthorID: "body-user",
		Author:   &dto.AuthorDTO{DisplayName: "Body"},
	}, &auth.Identity{UID: "token-user", DisplayName: "Token"})
	require.NoError(t, err)

	assert.Equal(t, "body-user", b.AuthorID)
	assert.Equal(t, "Body", b.Author.DisplayName)
}

func TestCreateValidation(t *testing.T) {
	svc, store, _ := newTestBlogService(t)

	testCases := []struct {
		name string
		req  dto.BlogRequestDTO
		want string
	}{
		{
			name: "missing everything",
			req:  dto.BlogRequestDTO{},
			want: "Title is required, Content is required",
		},
		{
			name: "tags not an array",
			req:  dto.BlogRequestDTO{Title: strPtr("t"), Content: strPtr("c"), Tags: &dto.TagList{NotList: true}},
			want: "Tags must be an array",
		},
		{
			name: "too many tags",
			req:  dto.BlogRequestDTO{Title: strPtr("t"), Content: strPtr("c"), Tags: &dto.TagList{Values: strings.Split("a,b,c,d,e,f,g,h,i,j,k", ",")}},
			want: "Maximum 10 tags allowed",
		},
		{
			name: "title blank after sanitizing",
			req:  dto.BlogRequestDTO{Title: strPtr("<>"), Content: strPtr("c")},
			want: "Title is required",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), testCase.req, nil)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, testCase.want, vErr.Error())
		})
	}

	blogs, err := store.Blogs.List(context.Background(), repositories.ListBlogsOptions{})
	require.NoError(t, err)
	assert.Empty(t, blogs)
}

func TestGetIncrementsViews(t *testing.T) {
	svc, store, _ := newTestBlogService(t)
	seedDemo(t, store)

	b, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(43), b.Views)

	b, err = svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(44), b.Views)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestUpdateMergesAndKeepsCounters(t *testing.T) {
	svc, store, pub := newTestBlogService(t)
	seedDemo(t, store)

	b, err := svc.Update(context.Background(), "1", dto.BlogRequestDTO{Title: strPtr("Renamed")})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", b.Title)
	assert.Contains(t, b.Content, "AI Essay Generator")
	assert.Equal(t, []string{"tech", "AI"}, b.Tags)
	assert.Equal(t, int64(42), b.Views)
	assert.Equal(t, 4.5, b.Rating)
	assert.Equal(t, "Demo User", b.Author.DisplayName)
	assert.True(t, b.UpdatedAt.After(b.CreatedAt) || b.UpdatedAt.Equal(b.CreatedAt))
	assert.Equal(t, []eventbus.EventType{eventbus.BlogUpdated}, pub.types())

	_, err = svc.Update(context.Background(), "1", dto.BlogRequestDTO{Content: strPtr("   ")})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"Content is required"}, vErr.Violations)

	_, err = svc.Update(context.Background(), "missing", dto.BlogRequestDTO{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestDeleteCascades(t *testing.T) {
	svc, store, pub := newTestBlogService(t)
	ctx := context.Background()
	seedDemo(t, store)

	_, err := svc.AddComment(ctx, "1", dto.CommentRequestDTO{Comment: "first"}, nil)
	require.NoError(t, err)
	_, err = svc.Rate(ctx, "1", floatPtr(5), "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "1"))

	comments, err := svc.ListComments(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, comments)

	ratings, err := store.Ratings.ListByBlog(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, ratings)

	_, err = svc.Get(ctx, "1")
	assert.ErrorIs(t, err, ErrBlogNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "1"), ErrBlogNotFound)
	assert.Contains(t, pub.types(), eventbus.BlogDeleted)
}

func TestDeleteReportsChildFailure(t *testing.T) {
	store := repositories.NewMemoryStore()
	svc := NewBlogService(store.Blogs, failingComments{store.Comments}, store.Ratings, nil)
	seedDemo(t, store)

	err := svc.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBlogNotFound)
	assert.Contains(t, err.Error(), "comments unavailable")
}

func TestSearch(t *testing.T) {
	svc, store, _ := newTestBlogService(t)
	ctx := context.Background()
	seedDemo(t, store)

	_, err := svc.Create(ctx, dto.BlogRequestDTO{
		Title:   strPtr("Rust ownership"),
		Content: strPtr("borrow checker"),
		Tags:    &dto.TagList{Values: []string{"rust"}},
	}, nil)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		query dto.BlogSearchQuery
		want  []string
	}{
		{name: "text is case-insensitive", query: dto.BlogSearchQuery{Q: "ai"}, want: []string{"Welcome to TechSphere!"}},
		{name: "text matches content", query: dto.BlogSearchQuery{Q: "BORROW"}, want: []string{"Rust ownership"}},
		{name: "any tag matches", query: dto.BlogSearchQuery{Tags: "rust, AI"}, want: []string{"Rust ownership", "Welcome to TechSphere!"}},
		{name: "unknown tag", query: dto.BlogSearchQuery{Tags: "nonexistent"}, want: []string{}},
		{name: "text and tag are combined", query: dto.BlogSearchQuery{Q: "welcome", Tags: "rust"}, want: []string{}},
		{name: "no filters", query: dto.BlogSearchQuery{}, want: []string{"Rust ownership", "Welcome to TechSphere!"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			blogs, err := svc.Search(ctx, testCase.query)
			require.NoError(t, err)

			titles := []string{}
			for _, b := range blogs {
				titles = append(titles, b.Title)
			}
			assert.ElementsMatch(t, testCase.want, titles)
		})
	}
}

func TestTrendingOrdersByScore(t *testing.T) {
	svc, store, _ := newTestBlogService(t)
	ctx := context.Background()

	require.NoError(t, store.Blogs.Insert(ctx, &models.Blog{ID: "a", Title: "A", Rating: 5, RatingCount: 1, CreatedAt: time.Now()}))
	require.NoError(t, store.Blogs.Insert(ctx, &models.Blog{ID: "b", Title: "B", Views: 10000, CreatedAt: time.Now()}))
	require.NoError(t, store.Blogs.Insert(ctx, &models.Blog{ID: "c", Title: "C", CreatedAt: time.Now()}))

	ranked, err := svc.Trending(ctx, "")
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].ID)
	assert.InDelta(t, 10.0, ranked[0].TrendingScore, 1e-9)
	assert.Equal(t, "a", ranked[1].ID)
	assert.InDelta(t, 3.5, ranked[1].TrendingScore, 1e-9)

	top, err := svc.Trending(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, top, 1)

	_, err = svc.Trending(ctx, "zero")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestRate(t *testing.T) {
	svc, store, pub := newTestBlogService(t)
	ctx := context.Background()
	seedDemo(t, store)

	b, err := svc.Rate(ctx, "1", floatPtr(1), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(11), b.RatingCount)
	assert.InDelta(t, (4.5*10+1)/11, b.Rating, 1e-9)

	ratings, err := store.Ratings.ListByBlog(ctx, "1")
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, "u1", ratings[0].UserID)
	assert.Contains(t, pub.types(), eventbus.BlogRated)

	_, err = svc.Rate(ctx, "1", floatPtr(7), "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Rating must be between 1 and 5", vErr.Error())

	// validation runs before the existence check
	_, err = svc.Rate(ctx, "missing", nil, "")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Rating is required", vErr.Error())

	_, err = svc.Rate(ctx, "missing", floatPtr(3), "")
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestRateKeepsAverageWhenRecordFails(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedDemo(t, store)
	svc := NewBlogService(store.Blogs, store.Comments, failingRatings{store.Ratings}, nil)
	ctx := context.Background()

	_, err := svc.Rate(ctx, "1", floatPtr(5), "u1")
	require.Error(t, err)

	b, err := store.Blogs.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.RatingCount)
	assert.Equal(t, 4.5, b.Rating)
}

func TestRateUnknownBlogRecordsNothing(t *testing.T) {
	svc, store, _ := newTestBlogService(t)
	ctx := context.Background()

	_, err := svc.Rate(ctx, "missing", floatPtr(3), "u1")
	require.ErrorIs(t, err, ErrBlogNotFound)

	ratings, err := store.Ratings.ListByBlog(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, ratings)
}

func TestRateConcurrentKeepsMean(t *testing.T) {
	svc, store, _ := newTestBlogService(t)
	ctx := context.Background()
	require.NoError(t, store.Blogs.Insert(ctx, &models.Blog{ID: "x", Title: "X", CreatedAt: time.Now()}))

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			_, _ = svc.Rate(ctx, "x", &v, "")
		}(float64(i%2*4 + 1))
	}
	wg.Wait()

	b, err := store.Blogs.FindByID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, int64(40), b.RatingCount)
	assert.InDelta(t, 3.0, b.Rating, 1e-9)
}

func TestAddComment(t *testing.T) {
	svc, store, _ := newTestBlogService(t)
	ctx := context.Background()
	seedDemo(t, store)

	anon, err := svc.AddComment(ctx, "1", dto.CommentRequestDTO{Comment: "  <i>nice</i>  "}, nil)
	require.NoError(t, err)
	assert.Equal(t, "inice/i", anon.Content)
	assert.Equal(t, models.AnonymousAuthor, anon.Author)
	assert.Equal(t, "1", anon.BlogID)

	byToken, err := svc.AddComment(ctx, "1", dto.CommentRequestDTO{Comment: "hi"}, &auth.Identity{UID: "u1", DisplayName: "Kim"})
	require.NoError(t, err)
	assert.Equal(t, "Kim", byToken.Author.DisplayName)

	byBody, err := svc.AddComment(ctx, "1", dto.CommentRequestDTO{Comment: "yo", Author: &dto.AuthorDTO{DisplayName: "Lee"}}, &auth.Identity{UID: "u1", DisplayName: "Kim"})
	require.NoError(t, err)
	assert.Equal(t, "Lee", byBody.Author.DisplayName)

	_, err = svc.AddComment(ctx, "missing", dto.CommentRequestDTO{Comment: "hi"}, nil)
	assert.ErrorIs(t, err, ErrBlogNotFound)

	_, err = svc.AddComment(ctx, "1", dto.CommentRequestDTO{Comment: " "}, nil)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Comment is required", vErr.Error())

	_, err = svc.AddComment(ctx, "1", dto.CommentRequestDTO{Comment: "<>"}, nil)
	require.ErrorAs(t, err, &vErr)

	comments, err := svc.ListComments(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, comments, 3)
}

func TestListValidatesQuery(t *testing.T) {
	svc, store, _ := newTestBlogService(t)
	seedDemo(t, store)

	blogs, err := svc.List(context.Background(), dto.BlogListQuery{OrderBy: "views", Order: "asc", Limit: "10"})
	require.NoError(t, err)
	assert.Len(t, blogs, 1)

	_, err = svc.List(context.Background(), dto.BlogListQuery{OrderBy: "password"})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	store := repositories.NewMemoryStore()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewBlogService(store.Blogs, store.Comments, store.Ratings, pub)

	_, err := svc.Create(context.Background(), dto.BlogRequestDTO{Title: strPtr("t"), Content: strPtr("c")}, nil)
	assert.NoError(t, err)
}
