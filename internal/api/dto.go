package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fernside/pawbase/internal/blog"
)

// createPostRequest is the body for POST /blog. Author fields come from
// the session, not the body.
type createPostRequest struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverImage string   `json:"cover_image"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

func (r createPostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Slug, validation.Required),
		validation.Field(&r.Status, validation.In(blog.StatusDraft, blog.StatusPublished)),
	)
}

// updatePostRequest is the body for PUT /blog/{slug}. Pointer fields
// distinguish "omitted" (preserve stored value) from "set to empty".
type updatePostRequest struct {
	Slug       *string  `json:"slug"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    *string  `json:"excerpt"`
	AuthorName *string  `json:"author_name"`
	CoverImage *string  `json:"cover_image"`
	Tags       []string `json:"tags"`
	Status     *string  `json:"status"`
}

func (r updatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Status, validation.In(blog.StatusDraft, blog.StatusPublished)),
	)
}

// postListResponse is the single envelope shape for all list responses.
type postListResponse struct {
	Posts      []blog.Post `json:"posts"`
	Count      int         `json:"count"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type bookingRequest struct {
	SlotID   string `json:"slot_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func (r bookingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SlotID, validation.Required),
		validation.Field(&r.FullName, validation.Required),
		validation.Field(&r.Email, validation.Required),
	)
}

type successResponse struct {
	Success bool `json:"success"`
}
