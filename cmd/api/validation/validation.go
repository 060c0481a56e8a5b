// Package validation checks request payloads before anything is sanitized or stored.
// Functions never mutate their input and accumulate every violation in order.
package validation

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"techsphere/cmd/api/dto"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 50000
	MaxTags          = 10
	MaxCommentLength = 1000
	MaxTopicLength   = 500
)

var (
	EssayStyles   = []string{"academic", "creative", "simple", "formal"}
	EssayLengths  = []string{"short", "medium", "long"}
	BlogOrderKeys = []string{"createdAt", "updatedAt", "views", "rating", "ratingCount", "title"}
)

type Result struct {
	Valid      bool
	Violations []string
}

// Message joins the violations the way the API reports them.
func (r Result) Message() string {
	return strings.Join(r.Violations, ", ")
}

type collector []string

func (c *collector) add(msg string) { *c = append(*c, msg) }

func (c collector) result() Result {
	return Result{Valid: len(c) == 0, Violations: c}
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func tooLong(s string, max int) bool { return utf8.RuneCountInString(s) > max }

// Blog validates a full blog draft. tags may be nil when the field was omitted.
func Blog(title, content string, tags *dto.TagList) Result {
	var errs collector

	if isBlank(title) {
		errs.add("Title is required")
	}
	if tooLong(title, MaxTitleLength) {
		errs.add("Title must be less than 200 characters")
	}
	if isBlank(content) {
		errs.add("Content is required")
	}
	if tooLong(content, MaxContentLength) {
		errs.add("Content must be less than 50000 characters")
	}
	if tags != nil {
		if tags.NotList {
			errs.add("Tags must be an array")
		} else if len(tags.Values) > MaxTags {
			errs.add("Maximum 10 tags allowed")
		}
	}

	return errs.result()
}

func Comment(comment string) Result {
	var errs collector

	if isBlank(comment) {
		errs.add("Comment is required")
	}
	if tooLong(comment, MaxCommentLength) {
		errs.add("Comment must be less than 1000 characters")
	}

	return errs.result()
}

// Rating treats a missing value and 0 alike: both are "not rated".
func Rating(value *float64) Result {
	var errs collector

	switch {
	case value == nil || *value == 0:
		errs.add("Rating is required")
	case *value < 1 || *value > 5:
		errs.add("Rating must be between 1 and 5")
	}

	return errs.result()
}

// Essay validates generation input. Empty style/length fall back to defaults later.
func Essay(topic, style, length string) Result {
	var errs collector

	if isBlank(topic) {
		errs.add("Topic is required")
	}
	if tooLong(topic, MaxTopicLength) {
		errs.add("Topic must be less than 500 characters")
	}
	if style != "" && !slices.Contains(EssayStyles, style) {
		errs.add("Invalid style. Must be one of: academic, creative, simple, formal")
	}
	if length != "" && !slices.Contains(EssayLengths, length) {
		errs.add("Invalid length. Must be one of: short, medium, long")
	}

	return errs.result()
}

func Refine(essay, instructions string) Result {
	var errs collector

	if isBlank(essay) {
		errs.add("Essay is required")
	}
	if isBlank(instructions) {
		errs.add("Instructions are required")
	}

	return errs.result()
}

// BlogList validates listing parameters. Empty values mean "use the default".
func BlogList(q dto.BlogListQuery) Result {
	var errs collector

	if q.OrderBy != "" && !slices.Contains(BlogOrderKeys, q.OrderBy) {
		errs.add("Invalid orderBy. Must be one of: " + strings.Join(BlogOrderKeys, ", "))
	}
	if q.Order != "" && q.Order != "asc" && q.Order != "desc" {
		errs.add("Invalid order. Must be one of: asc, desc")
	}
	if q.Limit != "" {
		if _, err := ParseLimit(q.Limit, 0); err != nil {
			errs.add("Limit must be a positive integer")
		}
	}

	return errs.result()
}

// ParseLimit parses a positive limit, returning fallback for an empty string.
func ParseLimit(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
