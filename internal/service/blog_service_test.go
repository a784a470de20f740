package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/realwork/site/internal/db"
)

func TestBlogServicePublishFlow(t *testing.T) {
	svc := NewBlogService(setupServiceTestDB(t))
	ctx := context.Background()
	published := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return published }

	draft, err := svc.Create(ctx, BlogPostInput{Title: "Hello, Realwork!", Content: "# hi"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if draft.Slug != "hello-realwork" {
		t.Fatalf("expected derived slug, got %q", draft.Slug)
	}
	if draft.Status != db.PostStatusDraft || draft.PublishedAt != nil {
		t.Fatalf("expected unpublished draft, got %s %v", draft.Status, draft.PublishedAt)
	}

	if _, err := svc.GetPublishedBySlug(ctx, "hello-realwork"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected draft to be hidden, got %v", err)
	}

	post, err := svc.Update(ctx, draft.ID, BlogPostInput{Title: "Hello, Realwork!", Status: "Published"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(published) {
		t.Fatalf("expected publish time to be set, got %v", post.PublishedAt)
	}

	svc.now = func() time.Time { return published.Add(24 * time.Hour) }
	post, err = svc.Update(ctx, draft.ID, BlogPostInput{Title: "Hello again", Slug: "hello-realwork", Status: "published"})
	if err != nil {
		t.Fatalf("second Update returned error: %v", err)
	}
	if !post.PublishedAt.Equal(published) {
		t.Fatalf("expected publish time to be kept, got %v", post.PublishedAt)
	}

	found, err := svc.GetPublishedBySlug(ctx, "Hello-Realwork")
	if err != nil {
		t.Fatalf("GetPublishedBySlug returned error: %v", err)
	}
	if found.Title != "Hello again" {
		t.Fatalf("unexpected title %q", found.Title)
	}
}

func TestBlogServiceRejectsDuplicateSlug(t *testing.T) {
	svc := NewBlogService(setupServiceTestDB(t))
	ctx := context.Background()

	if _, err := svc.Create(ctx, BlogPostInput{Title: "Launch"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Create(ctx, BlogPostInput{Title: "Another", Slug: "launch"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
	if _, err := svc.Create(ctx, BlogPostInput{Title: "x", Status: "archived"}); !IsValidation(err) {
		t.Fatalf("expected validation error for status, got %v", err)
	}
}

func TestBlogServiceListPaginates(t *testing.T) {
	svc := NewBlogService(setupServiceTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"One", "Two", "Three"} {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		if _, err := svc.Create(ctx, BlogPostInput{Title: title, Status: "published"}); err != nil {
			t.Fatalf("Create %s returned error: %v", title, err)
		}
	}
	if _, err := svc.Create(ctx, BlogPostInput{Title: "Draft"}); err != nil {
		t.Fatalf("Create draft returned error: %v", err)
	}

	result, err := svc.List(ctx, BlogFilter{Status: db.PostStatusPublished, Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Total != 3 || result.TotalPages != 2 {
		t.Fatalf("unexpected totals: total=%d pages=%d", result.Total, result.TotalPages)
	}
	if len(result.Posts) != 2 || result.Posts[0].Title != "Three" {
		t.Fatalf("expected newest first, got %+v", result.Posts)
	}

	published, err := svc.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished returned error: %v", err)
	}
	if len(published) != 3 {
		t.Fatalf("expected 3 published posts, got %d", len(published))
	}
}

func TestBlogServiceDelete(t *testing.T) {
	svc := NewBlogService(setupServiceTestDB(t))
	ctx := context.Background()

	post, err := svc.Create(ctx, BlogPostInput{Title: "Temp"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
