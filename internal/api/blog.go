package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fernside/pawbase/internal/auth"
	"github.com/fernside/pawbase/internal/blog"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxBodySize  = 1 << 20
)

// BlogHandler holds the blog route handlers.
type BlogHandler struct {
	repo *blog.Repository
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(repo *blog.Repository) *BlogHandler {
	return &BlogHandler{repo: repo}
}

// List handles GET /blog. Non-admin callers only ever see published
// posts regardless of the status parameter.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = defaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultLimit
	}

	status := q.Get("status")
	if sessionFrom(r).State != auth.AuthenticatedAdmin {
		status = blog.StatusPublished
	}

	result, err := h.repo.List(r.Context(), blog.Filter{
		Search: q.Get("search"),
		Status: status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		writeDomainErr(w, "list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, postListResponse{
		Posts:      result.Posts,
		Count:      result.TotalCount,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	})
}

// Get handles GET /blog/{slug}. Drafts 404 for non-admin callers.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		writeDomainErr(w, "get post", err)
		return
	}
	if post.Status != blog.StatusPublished && sessionFrom(r).State != auth.AuthenticatedAdmin {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create handles POST /blog (admin only). Author identity comes from the
// resolved session.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBodyDetails("title, content, and slug are required", err.Error()))
		return
	}

	in := blog.CreateInput{
		Slug:       req.Slug,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Status:     req.Status,
	}
	if user := sessionFrom(r).User; user != nil {
		in.AuthorID = user.ID
		in.AuthorName = user.Email
	}

	post, err := h.repo.Create(r.Context(), in)
	if err != nil {
		writeDomainErr(w, "create post", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Update handles PUT /blog/{slug} (admin only). Omitted optional fields
// preserve the stored values.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	slug := chi.URLParam(r, "slug")

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBodyDetails("title and content are required", err.Error()))
		return
	}

	post, err := h.repo.Update(r.Context(), slug, blog.UpdateInput{
		Slug:       req.Slug,
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		AuthorName: req.AuthorName,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Status:     req.Status,
	})
	if err != nil {
		writeDomainErr(w, "update post", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /blog/{slug} (admin only). Hard delete, no undo.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := h.repo.Delete(r.Context(), slug); err != nil {
		writeDomainErr(w, "delete post", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
