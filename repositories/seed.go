package repositories

import (
	"context"
	"time"

	"techsphere/models"
)

const DemoUserID = "demo-user"

// DemoBlog is the post a fresh demo installation starts with.
func DemoBlog(now time.Time) models.Blog {
	return models.Blog{
		ID:    "1",
		Title: "Welcome to TechSphere!",
		Content: "# Welcome to TechSphere\n\n" +
			"This is your blog and AI essay platform.\n\n" +
			"## Features\n" +
			"- **Create blogs** with the Markdown editor\n" +
			"- **AI Essay Generator** for drafts on any topic\n" +
			"- **Rate and comment** on posts\n" +
			"- **Search and filter** content\n",
		Excerpt:    "Welcome to TechSphere - your blog and AI essay platform",
		CoverImage: "https://images.unsplash.com/photo-1488590528505-98d2b5aba04b?w=800",
		Tags:       []string{"tech", "AI"},
		AuthorID:   DemoUserID,
		Author: models.Author{
			DisplayName: "Demo User",
			Email:       "demo@techsphere.com",
		},
		CreatedAt:   now,
		UpdatedAt:   now,
		Views:       42,
		Rating:      4.5,
		RatingCount: 10,
	}
}

// SeedDemo inserts DemoBlog when the store holds no blogs yet.
func SeedDemo(ctx context.Context, blogs BlogRepository, now time.Time) (bool, error) {
	existing, err := blogs.List(ctx, ListBlogsOptions{Limit: 1})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	demo := DemoBlog(now)
	if err := blogs.Insert(ctx, &demo); err != nil {
		return false, err
	}
	return true, nil
}
