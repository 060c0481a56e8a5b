package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"techsphere/cmd/api/dto"
)

func ptr[T any](v T) *T { return &v }

func TestBlog(t *testing.T) {
	testCases := []struct {
		name    string
		title   string
		content string
		tags    *dto.TagList
		want    []string
	}{
		{name: "valid", title: "Hello", content: "World", tags: &dto.TagList{Values: []string{"go"}}},
		{name: "omitted tags", title: "Hello", content: "World"},
		{name: "blank title and content", title: "   ", content: "", want: []string{"Title is required", "Content is required"}},
		{name: "title too long", title: strings.Repeat("a", 201), content: "x", want: []string{"Title must be less than 200 characters"}},
		{name: "title at limit", title: strings.Repeat("é", 200), content: "x"},
		{name: "content too long", title: "t", content: strings.Repeat("a", 50001), want: []string{"Content must be less than 50000 characters"}},
		{name: "tags not a list", title: "t", content: "c", tags: &dto.TagList{NotList: true}, want: []string{"Tags must be an array"}},
		{name: "too many tags", title: "t", content: "c", tags: &dto.TagList{Values: make([]string, 11)}, want: []string{"Maximum 10 tags allowed"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			res := Blog(testCase.title, testCase.content, testCase.tags)
			assert.Equal(t, len(testCase.want) == 0, res.Valid)
			if len(testCase.want) == 0 {
				assert.Empty(t, res.Violations)
				return
			}
			assert.Equal(t, testCase.want, res.Violations)
		})
	}
}

func TestComment(t *testing.T) {
	assert.True(t, Comment("nice").Valid)
	assert.Equal(t, []string{"Comment is required"}, Comment(" \n").Violations)
	assert.Equal(t, []string{"Comment must be less than 1000 characters"}, Comment(strings.Repeat("a", 1001)).Violations)
}

func TestRating(t *testing.T) {
	testCases := []struct {
		name  string
		value *float64
		want  string
	}{
		{name: "missing", value: nil, want: "Rating is required"},
		{name: "zero", value: ptr(0.0), want: "Rating is required"},
		{name: "below range", value: ptr(0.5), want: "Rating must be between 1 and 5"},
		{name: "above range", value: ptr(6.0), want: "Rating must be between 1 and 5"},
		{name: "lower bound", value: ptr(1.0)},
		{name: "upper bound", value: ptr(5.0)},
		{name: "fractional", value: ptr(3.5)},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			res := Rating(testCase.value)
			if testCase.want == "" {
				assert.True(t, res.Valid)
				return
			}
			assert.False(t, res.Valid)
			assert.Equal(t, []string{testCase.want}, res.Violations)
		})
	}
}

func TestEssay(t *testing.T) {
	assert.True(t, Essay("Solar power", "", "").Valid)
	assert.True(t, Essay("Solar power", "formal", "long").Valid)

	res := Essay("", "poetic", "epic")
	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"Topic is required",
		"Invalid style. Must be one of: academic, creative, simple, formal",
		"Invalid length. Must be one of: short, medium, long",
	}, res.Violations)
	assert.Equal(t, "Topic is required, Invalid style. Must be one of: academic, creative, simple, formal, Invalid length. Must be one of: short, medium, long", res.Message())

	assert.Equal(t, []string{"Topic must be less than 500 characters"}, Essay(strings.Repeat("a", 501), "", "").Violations)
}

func TestRefine(t *testing.T) {
	assert.True(t, Refine("essay", "shorter").Valid)
	assert.Equal(t, []string{"Essay is required", "Instructions are required"}, Refine(" ", "").Violations)
}

func TestBlogList(t *testing.T) {
	assert.True(t, BlogList(dto.BlogListQuery{}).Valid)
	assert.True(t, BlogList(dto.BlogListQuery{OrderBy: "views", Order: "asc", Limit: "5"}).Valid)

	res := BlogList(dto.BlogListQuery{OrderBy: "password", Order: "up", Limit: "-1"})
	assert.Len(t, res.Violations, 3)
	assert.Equal(t, "Limit must be a positive integer", res.Violations[2])
}

func TestParseLimit(t *testing.T) {
	n, err := ParseLimit("", 6)
	assert.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = ParseLimit("12", 6)
	assert.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = ParseLimit("0", 6)
	assert.Error(t, err)
	_, err = ParseLimit("abc", 6)
	assert.Error(t, err)
}
