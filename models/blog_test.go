package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendingScoreUsesExactBlend(t *testing.T) {
	a := Blog{Rating: 5, Views: 0}
	b := Blog{Rating: 0, Views: 10000}

	assert.InDelta(t, 3.5, a.TrendingScore(), 1e-9)
	assert.InDelta(t, 10.0, b.TrendingScore(), 1e-9)
	assert.Greater(t, b.TrendingScore(), a.TrendingScore())
}

func TestApplyRatingKeepsRunningMean(t *testing.T) {
	values := []float64{5, 3, 4, 1, 2, 5, 5}
	var blog Blog
	sum := 0.0
	for _, v := range values {
		blog.ApplyRating(v)
		sum += v
	}

	assert.Equal(t, int64(len(values)), blog.RatingCount)
	assert.InDelta(t, sum/float64(len(values)), blog.Rating, 1e-9)
}

func TestHasAnyTag(t *testing.T) {
	blog := Blog{Tags: []string{"tech", "AI"}}

	assert.True(t, blog.HasAnyTag([]string{"go", "AI"}))
	assert.False(t, blog.HasAnyTag([]string{"ai"}))
	assert.False(t, blog.HasAnyTag(nil))
}
