package blog_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fernside/pawbase/internal/apperr"
	"github.com/fernside/pawbase/internal/blog"
	"github.com/fernside/pawbase/internal/testutil"
)

func testRepo(t *testing.T) *blog.Repository {
	t.Helper()
	return blog.NewRepository(testutil.TestDB(t), 0)
}

func mustCreate(t *testing.T, repo *blog.Repository, in blog.CreateInput) *blog.Post {
	t.Helper()
	post, err := repo.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create(%q): %v", in.Slug, err)
	}
	return post
}

func TestCreateAndGetBySlug(t *testing.T) {
	repo := testRepo(t)

	created := mustCreate(t, repo, blog.CreateInput{
		Slug: "a", Title: "A", Content: "c",
	})
	if created.ID == "" {
		t.Error("created post has empty id")
	}
	if created.Status != blog.StatusDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}
	if created.Tags == nil || len(created.Tags) != 0 {
		t.Errorf("tags = %v, want []", created.Tags)
	}
	if created.Excerpt != "" {
		t.Errorf("excerpt = %q, want empty", created.Excerpt)
	}

	got, err := repo.GetBySlug(context.Background(), "a")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.Title != "A" || got.Content != "c" || got.Slug != "a" || got.Status != blog.StatusDraft {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() || !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Errorf("timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestCreateRequiredFields(t *testing.T) {
	repo := testRepo(t)

	cases := []blog.CreateInput{
		{Slug: "x", Content: "c"},               // no title
		{Slug: "x", Title: "t"},                 // no content
		{Title: "t", Content: "c"},              // no slug
		{Slug: "x", Title: "t", Content: "c", Status: "archived"}, // bad status
	}
	for i, in := range cases {
		if _, err := repo.Create(context.Background(), in); !apperr.IsValidation(err) {
			t.Errorf("case %d: err = %v, want ValidationError", i, err)
		}
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	repo := testRepo(t)
	mustCreate(t, repo, blog.CreateInput{Slug: "a", Title: "first", Content: "c"})

	_, err := repo.Create(context.Background(), blog.CreateInput{Slug: "a", Title: "second", Content: "c"})
	if !errors.Is(err, apperr.ErrSlugTaken) {
		t.Fatalf("duplicate create err = %v, want ErrSlugTaken", err)
	}

	// The existing row is untouched and remains the only one.
	got, err := repo.GetBySlug(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "first" {
		t.Errorf("title = %q, want first", got.Title)
	}
	result, err := repo.List(context.Background(), blog.Filter{Status: blog.StatusAll, Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 1 {
		t.Errorf("total = %d, want 1", result.TotalCount)
	}
}

func TestGetBySlugNotFound(t *testing.T) {
	repo := testRepo(t)
	if _, err := repo.GetBySlug(context.Background(), "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListStatusFilter(t *testing.T) {
	repo := testRepo(t)
	mustCreate(t, repo, blog.CreateInput{Slug: "d", Title: "Draft", Content: "c"})
	mustCreate(t, repo, blog.CreateInput{Slug: "p", Title: "Published", Content: "c", Status: blog.StatusPublished})

	result, err := repo.List(context.Background(), blog.Filter{Status: blog.StatusPublished, Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 1 {
		t.Fatalf("total = %d, want 1", result.TotalCount)
	}
	for _, p := range result.Posts {
		if p.Status != blog.StatusPublished {
			t.Errorf("list(published) returned %q post %q", p.Status, p.Slug)
		}
	}

	all, err := repo.List(context.Background(), blog.Filter{Status: blog.StatusAll, Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if all.TotalCount != 2 {
		t.Errorf("all total = %d, want 2", all.TotalCount)
	}
}

func TestListSearch(t *testing.T) {
	repo := testRepo(t)
	mustCreate(t, repo, blog.CreateInput{
		Slug: "walks", Title: "Dog walks in the rain", Content: "c", Status: blog.StatusPublished,
	})
	mustCreate(t, repo, blog.CreateInput{
		Slug: "naps", Title: "Nap time", Excerpt: "even sleepy DOGS dream", Content: "c", Status: blog.StatusPublished,
	})
	mustCreate(t, repo, blog.CreateInput{
		Slug: "cats", Title: "Strictly feline", Content: "c", Status: blog.StatusPublished,
	})
	mustCreate(t, repo, blog.CreateInput{
		Slug: "draft-dog", Title: "dog draft", Content: "c",
	})

	result, err := repo.List(context.Background(), blog.Filter{
		Search: "dog", Status: blog.StatusPublished, Page: 1, Limit: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 2 {
		t.Fatalf("total = %d, want 2 (title + excerpt matches)", result.TotalCount)
	}
	for _, p := range result.Posts {
		if p.Slug == "cats" || p.Slug == "draft-dog" {
			t.Errorf("unexpected post %q in search result", p.Slug)
		}
	}
}

func TestListPagination(t *testing.T) {
	repo := testRepo(t)
	for i := 0; i < 5; i++ {
		mustCreate(t, repo, blog.CreateInput{
			Slug:    fmt.Sprintf("post-%d", i),
			Title:   fmt.Sprintf("Post %d", i),
			Content: "c",
		})
	}

	var seen []string
	page := 1
	for {
		result, err := repo.List(context.Background(), blog.Filter{Status: blog.StatusAll, Page: page, Limit: 2})
		if err != nil {
			t.Fatal(err)
		}
		if result.TotalCount != 5 || result.TotalPages != 3 {
			t.Fatalf("total = %d pages = %d, want 5/3", result.TotalCount, result.TotalPages)
		}
		if len(result.Posts) > 2 {
			t.Fatalf("page %d has %d posts, want <= 2", page, len(result.Posts))
		}
		for _, p := range result.Posts {
			seen = append(seen, p.Slug)
		}
		if page++; page > result.TotalPages {
			break
		}
	}

	if len(seen) != 5 {
		t.Fatalf("concatenated pages have %d posts, want 5", len(seen))
	}
	// Newest first: creation order was 0..4, so listing order is 4..0.
	for i, slug := range seen {
		want := fmt.Sprintf("post-%d", 4-i)
		if slug != want {
			t.Errorf("position %d = %q, want %q", i, slug, want)
		}
	}
	// No duplicates across pages.
	unique := make(map[string]struct{})
	for _, s := range seen {
		if _, dup := unique[s]; dup {
			t.Errorf("slug %q appears twice", s)
		}
		unique[s] = struct{}{}
	}
}

func strptr(s string) *string { return &s }

func TestUpdateMergeSemantics(t *testing.T) {
	repo := testRepo(t)
	created := mustCreate(t, repo, blog.CreateInput{
		Slug: "a", Title: "A", Content: "c",
		Excerpt: "keep me", CoverImage: "/img/a.png", Tags: []string{"one", "two"},
	})

	// Omitting optional fields preserves stored values.
	updated, err := repo.Update(context.Background(), "a", blog.UpdateInput{
		Title: "A2", Content: "c2",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Excerpt != "keep me" || updated.CoverImage != "/img/a.png" {
		t.Errorf("omitted fields not preserved: %+v", updated)
	}
	if len(updated.Tags) != 2 || updated.Tags[0] != "one" || updated.Tags[1] != "two" {
		t.Errorf("tags = %v, want [one two]", updated.Tags)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updated_at %v not after %v", updated.UpdatedAt, created.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}

	// Explicit empty values do overwrite.
	updated2, err := repo.Update(context.Background(), "a", blog.UpdateInput{
		Title: "A2", Content: "c2", Excerpt: strptr(""), Tags: []string{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated2.Excerpt != "" || len(updated2.Tags) != 0 {
		t.Errorf("explicit empties not applied: %+v", updated2)
	}
}

func TestUpdateSlugChange(t *testing.T) {
	repo := testRepo(t)
	mustCreate(t, repo, blog.CreateInput{Slug: "old", Title: "T", Content: "c"})

	if _, err := repo.Update(context.Background(), "old", blog.UpdateInput{
		Slug: strptr("new"), Title: "T", Content: "c",
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := repo.GetBySlug(context.Background(), "new"); err != nil {
		t.Errorf("new slug lookup: %v", err)
	}
	if _, err := repo.GetBySlug(context.Background(), "old"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("old slug lookup err = %v, want ErrNotFound", err)
	}
}

func TestUpdateSlugConflict(t *testing.T) {
	repo := testRepo(t)
	mustCreate(t, repo, blog.CreateInput{Slug: "a", Title: "A", Content: "c"})
	mustCreate(t, repo, blog.CreateInput{Slug: "b", Title: "B", Content: "c"})

	_, err := repo.Update(context.Background(), "a", blog.UpdateInput{
		Slug: strptr("b"), Title: "A", Content: "c",
	})
	if !errors.Is(err, apperr.ErrSlugTaken) {
		t.Errorf("err = %v, want ErrSlugTaken", err)
	}

	// Keeping the same slug is not a conflict.
	if _, err := repo.Update(context.Background(), "a", blog.UpdateInput{
		Slug: strptr("a"), Title: "A", Content: "c",
	}); err != nil {
		t.Errorf("same-slug update: %v", err)
	}
}

func TestUpdateValidationAndNotFound(t *testing.T) {
	repo := testRepo(t)
	mustCreate(t, repo, blog.CreateInput{Slug: "a", Title: "A", Content: "c"})

	if _, err := repo.Update(context.Background(), "a", blog.UpdateInput{Content: "c"}); !apperr.IsValidation(err) {
		t.Errorf("missing title err = %v, want ValidationError", err)
	}
	if _, err := repo.Update(context.Background(), "a", blog.UpdateInput{Title: "T"}); !apperr.IsValidation(err) {
		t.Errorf("missing content err = %v, want ValidationError", err)
	}
	if _, err := repo.Update(context.Background(), "ghost", blog.UpdateInput{Title: "T", Content: "c"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing post err = %v, want ErrNotFound", err)
	}
}

func TestUpdateIdempotent(t *testing.T) {
	repo := testRepo(t)
	mustCreate(t, repo, blog.CreateInput{Slug: "a", Title: "A", Content: "c"})

	in := blog.UpdateInput{
		Title: "T", Content: "body", Excerpt: strptr("e"),
		Tags: []string{"x"}, Status: strptr(blog.StatusPublished),
	}
	first, err := repo.Update(context.Background(), "a", in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.Update(context.Background(), "a", in)
	if err != nil {
		t.Fatal(err)
	}

	// Identical input produces the same stored post, updated_at aside.
	first.UpdatedAt = second.UpdatedAt
	if first.Title != second.Title || first.Content != second.Content ||
		first.Excerpt != second.Excerpt || first.Status != second.Status ||
		first.Slug != second.Slug || len(first.Tags) != len(second.Tags) {
		t.Errorf("repeat update diverged: %+v vs %+v", first, second)
	}
}

func TestDelete(t *testing.T) {
	repo := testRepo(t)
	mustCreate(t, repo, blog.CreateInput{Slug: "a", Title: "A", Content: "c"})

	if err := repo.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetBySlug(context.Background(), "a"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(context.Background(), "a"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestTagsPreserveOrder(t *testing.T) {
	repo := testRepo(t)
	tags := []string{"zeta", "alpha", "alpha", "mid"}
	mustCreate(t, repo, blog.CreateInput{Slug: "a", Title: "A", Content: "c", Tags: tags})

	got, err := repo.GetBySlug(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != len(tags) {
		t.Fatalf("tags = %v, want %v", got.Tags, tags)
	}
	for i := range tags {
		if got.Tags[i] != tags[i] {
			t.Errorf("tag %d = %q, want %q", i, got.Tags[i], tags[i])
		}
	}
}
