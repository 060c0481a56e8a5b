// Package eventbus publishes blog lifecycle events for downstream consumers
// (search indexers, notification workers). Publishing is best effort.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"techsphere/models"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	BlogCreated   EventType = "blog.created"
	BlogUpdated   EventType = "blog.updated"
	BlogDeleted   EventType = "blog.deleted"
	BlogRated     EventType = "blog.rated"
	BlogCommented EventType = "blog.commented"
)

const (
	eventSource  = "techsphere-api"
	eventVersion = "1.0"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// BlogEvent is the payload for every blog.* event. Optional fields are set
// only for the event types that carry them.
type BlogEvent struct {
	BaseEvent
	BlogID      string   `json:"blog_id"`
	AuthorID    string   `json:"author_id,omitempty"`
	Title       string   `json:"title,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	RatingCount int64    `json:"rating_count,omitempty"`
	CommentID   string   `json:"comment_id,omitempty"`
}

func newBase(t EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
	}
}

// NewBlogEvent builds an event describing b. For BlogDeleted only the id matters.
func NewBlogEvent(t EventType, b *models.Blog) BlogEvent {
	evt := BlogEvent{BaseEvent: newBase(t), BlogID: b.ID}
	switch t {
	case BlogCreated, BlogUpdated:
		evt.AuthorID = b.AuthorID
		evt.Title = b.Title
		evt.Tags = b.Tags
	case BlogRated:
		evt.Rating = b.Rating
		evt.RatingCount = b.RatingCount
	}
	return evt
}

func NewCommentEvent(c *models.Comment) BlogEvent {
	return BlogEvent{BaseEvent: newBase(BlogCommented), BlogID: c.BlogID, CommentID: c.ID}
}

// Event is the envelope written to the broker.
type Event struct {
	ID      string          `json:"id"`
	Key     string          `json:"-"`
	Payload json.RawMessage `json:"payload"`
}

// NewJSONEvent encodes payload. key selects the partition so events of one
// blog stay ordered.
func NewJSONEvent(id, key string, payload any) (Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("payload marshal 실패: %w", err)
	}
	return Event{ID: id, Key: key, Payload: b}, nil
}

func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("payload unmarshal 실패: %w", err)
	}
	return out, nil
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// NopPublisher drops every event. Used when events.enabled is false.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close()                               {}
