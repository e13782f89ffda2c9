// Package blog implements the post repository: slug-keyed CRUD,
// paginated listing with search, and draft/published gating.
package blog

import (
	"encoding/json"
	"time"
)

// Post statuses. A post is publicly visible only when published.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"

	// StatusAll is accepted as a list filter only, never stored.
	StatusAll = "all"
)

// Post is the core blog entity. Tags preserve the editor's insertion order.
type Post struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CoverImage string    `json:"cover_image"`
	Tags       []string  `json:"tags"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateInput carries the fields accepted at creation. Title, Slug, and
// Content are required; everything else defaults to empty values.
type CreateInput struct {
	Slug       string
	Title      string
	Excerpt    string
	Content    string
	AuthorID   string
	AuthorName string
	CoverImage string
	Tags       []string
	Status     string
}

// UpdateInput carries a partial update. Title and Content are required;
// nil optional fields preserve the stored value (merge semantics), and a
// nil Slug keeps the current slug.
type UpdateInput struct {
	Slug       *string
	Title      string
	Content    string
	Excerpt    *string
	AuthorName *string
	CoverImage *string
	Tags       []string
	Status     *string
}

// Filter selects and pages a post listing.
type Filter struct {
	Search string
	Status string // draft, published, all, or empty (= all)
	Page   int    // clamped to >= 1
	Limit  int    // clamped to >= 1
}

// ListResult is the single envelope shape for all list responses.
type ListResult struct {
	Posts      []Post
	TotalCount int
	Page       int
	TotalPages int
}

// timeLayout is RFC 3339 with fixed-width nanoseconds so that the stored
// TEXT column sorts lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

func decodeTags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
