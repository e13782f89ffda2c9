package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fernside/pawbase/internal/apperr"
	"github.com/fernside/pawbase/internal/store"
)

// DefaultQueryTimeout bounds a single store round trip.
const DefaultQueryTimeout = 5 * time.Second

// Repository translates post operations into store queries. It owns the
// validation that depends on reading existing data (slug uniqueness);
// the UNIQUE constraint on posts.slug remains the authoritative check.
type Repository struct {
	db      *store.DB
	timeout time.Duration
}

// NewRepository creates a Repository with the given per-query timeout.
// A non-positive timeout falls back to DefaultQueryTimeout.
func NewRepository(db *store.DB, timeout time.Duration) *Repository {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Repository{db: db, timeout: timeout}
}

const postColumns = `id, slug, title, excerpt, content, author_id, author_name, cover_image, tags, status, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*Post, error) {
	var p Post
	var tags, createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content,
		&p.AuthorID, &p.AuthorName, &p.CoverImage, &tags, &p.Status,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Tags = decodeTags(tags)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// wrapStoreErr translates a deadline hit into ErrTimeout; other store
// failures pass through wrapped for the API layer to treat as 500s.
func wrapStoreErr(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("blog: %s: %w", op, apperr.ErrTimeout)
	}
	return fmt.Errorf("blog: %s: %w", op, err)
}

// List returns posts ordered by created_at descending, optionally filtered
// by a case-insensitive title/excerpt substring match and an exact status.
func (r *Repository) List(ctx context.Context, f Filter) (*ListResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 1
	}

	var where []string
	var args []any
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ?)")
		args = append(args, like, like)
	}
	if f.Status != "" && f.Status != StatusAll {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM posts"+cond, args...).Scan(&total); err != nil {
		return nil, wrapStoreErr(ctx, "count posts", err)
	}

	offset := (f.Page - 1) * f.Limit
	query := "SELECT " + postColumns + " FROM posts" + cond + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := r.db.Conn().QueryContext(ctx, query, append(args, f.Limit, offset)...)
	if err != nil {
		return nil, wrapStoreErr(ctx, "list posts", err)
	}
	defer rows.Close()

	posts := make([]Post, 0, f.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, wrapStoreErr(ctx, "scan post", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr(ctx, "list posts", err)
	}

	return &ListResult{
		Posts:      posts,
		TotalCount: total,
		Page:       f.Page,
		TotalPages: (total + f.Limit - 1) / f.Limit,
	}, nil
}

// GetBySlug returns the post with the exact slug, or ErrNotFound.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.Conn().QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE slug = ?", slug)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, wrapStoreErr(ctx, "get post", err)
	}
	return p, nil
}

// Create persists a new post. Title, Content, and Slug are required;
// status defaults to draft and optional fields to empty values.
func (r *Repository) Create(ctx context.Context, in CreateInput) (*Post, error) {
	if in.Title == "" {
		return nil, apperr.Validation("title")
	}
	if in.Content == "" {
		return nil, apperr.Validation("content")
	}
	if in.Slug == "" {
		return nil, apperr.Validation("slug")
	}
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	if status != StatusDraft && status != StatusPublished {
		return nil, apperr.Validationf("status", "must be %q or %q", StatusDraft, StatusPublished)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Friendly fast path; the UNIQUE constraint catches the race.
	if taken, err := r.slugTaken(ctx, in.Slug, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.ErrSlugTaken
	}

	now := time.Now()
	p := Post{
		ID:         uuid.NewString(),
		Slug:       in.Slug,
		Title:      in.Title,
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		CoverImage: in.CoverImage,
		Tags:       in.Tags,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Slug, p.Title, p.Excerpt, p.Content, p.AuthorID, p.AuthorName,
		p.CoverImage, encodeTags(p.Tags), p.Status, formatTime(now), formatTime(now))
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.ErrSlugTaken
		}
		return nil, wrapStoreErr(ctx, "create post", err)
	}
	return &p, nil
}

// Update applies a partial update to the post at currentSlug. Title and
// Content are required; nil optional fields preserve the stored value.
// A changed slug is re-validated against all other posts.
func (r *Repository) Update(ctx context.Context, currentSlug string, in UpdateInput) (*Post, error) {
	if in.Title == "" {
		return nil, apperr.Validation("title")
	}
	if in.Content == "" {
		return nil, apperr.Validation("content")
	}
	if in.Status != nil && *in.Status != StatusDraft && *in.Status != StatusPublished {
		return nil, apperr.Validationf("status", "must be %q or %q", StatusDraft, StatusPublished)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	existing, err := r.GetBySlug(ctx, currentSlug)
	if err != nil {
		return nil, err
	}

	next := *existing
	next.Title = in.Title
	next.Content = in.Content
	if in.Slug != nil && *in.Slug != "" {
		next.Slug = *in.Slug
	}
	if in.Excerpt != nil {
		next.Excerpt = *in.Excerpt
	}
	if in.AuthorName != nil {
		next.AuthorName = *in.AuthorName
	}
	if in.CoverImage != nil {
		next.CoverImage = *in.CoverImage
	}
	if in.Tags != nil {
		next.Tags = in.Tags
	}
	if in.Status != nil {
		next.Status = *in.Status
	}
	next.UpdatedAt = time.Now()

	if next.Slug != currentSlug {
		if taken, err := r.slugTaken(ctx, next.Slug, currentSlug); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.ErrSlugTaken
		}
	}

	res, err := r.db.Conn().ExecContext(ctx, `
		UPDATE posts
		SET slug = ?, title = ?, excerpt = ?, content = ?, author_name = ?,
		    cover_image = ?, tags = ?, status = ?, updated_at = ?
		WHERE slug = ?
	`, next.Slug, next.Title, next.Excerpt, next.Content, next.AuthorName,
		next.CoverImage, encodeTags(next.Tags), next.Status,
		formatTime(next.UpdatedAt), currentSlug)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.ErrSlugTaken
		}
		return nil, wrapStoreErr(ctx, "update post", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.ErrNotFound
	}
	return &next, nil
}

// Delete hard-deletes the post at slug, or returns ErrNotFound.
func (r *Repository) Delete(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.Conn().ExecContext(ctx, "DELETE FROM posts WHERE slug = ?", slug)
	if err != nil {
		return wrapStoreErr(ctx, "delete post", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *Repository) slugTaken(ctx context.Context, slug, exceptSlug string) (bool, error) {
	var one int
	err := r.db.Conn().QueryRowContext(ctx,
		"SELECT 1 FROM posts WHERE slug = ? AND slug <> ?", slug, exceptSlug).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapStoreErr(ctx, "check slug", err)
	}
	return true, nil
}
