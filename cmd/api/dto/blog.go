package dto

import (
	"bytes"
	"encoding/json"

	"techsphere/models"
)

// TagList accepts any JSON value for "tags" so validation, not decoding,
// reports a malformed list. NotList is set when the value is not an array of strings.
type TagList struct {
	Values  []string
	NotList bool
}

func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = TagList{}
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		*t = TagList{NotList: true}
		return nil
	}
	*t = TagList{Values: values}
	return nil
}

func (t TagList) MarshalJSON() ([]byte, error) {
	if t.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Values)
}

// Len is the number of submitted tags, before sanitization.
func (t *TagList) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Values)
}

type AuthorDTO struct {
	DisplayName string `json:"displayName" example:"Demo User"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Email       string `json:"email,omitempty" example:"demo@techsphere.com"`
}

func (a AuthorDTO) ToModel() models.Author {
	return models.Author{DisplayName: a.DisplayName, PhotoURL: a.PhotoURL, Email: a.Email}
}

// BlogRequestDTO is the body of POST /api/blogs and PUT /api/blogs/:id.
// Nil fields are "not supplied": on update they keep the stored value.
type BlogRequestDTO struct {
	Title      *string    `json:"title" example:"Hello Go"`
	Content    *string    `json:"content" example:"# Heading"`
	Excerpt    *string    `json:"excerpt"`
	CoverImage *string    `json:"coverImage"`
	Tags       *TagList   `json:"tags" swaggertype:"array,string"`
	AuthorID   string     `json:"authorId"`
	Author     *AuthorDTO `json:"author"`
}

// BlogListQuery holds the raw query string of GET /api/blogs.
type BlogListQuery struct {
	OrderBy string `form:"orderBy"`
	Order   string `form:"order"`
	Limit   string `form:"limit"`
}

type BlogSearchQuery struct {
	Q    string `form:"q"`
	Tags string `form:"tags"`
}

type RatingRequestDTO struct {
	Rating *float64 `json:"rating" example:"4"`
}

type RatingResponseDTO struct {
	Rating      float64 `json:"rating" example:"4.5"`
	RatingCount int64   `json:"ratingCount" example:"11"`
}

// TrendingBlogDTO is a blog annotated with the score it was ranked by.
type TrendingBlogDTO struct {
	models.Blog
	TrendingScore float64 `json:"trendingScore" example:"3.192"`
}
