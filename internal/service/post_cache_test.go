package service

import (
	"context"
	"errors"
	"testing"

	"github.com/inkfolio/internal/cache"
	"github.com/inkfolio/internal/models"
	"github.com/inkfolio/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// racingPostRepo 在第一次读取返回前执行 onRead，模拟读取期间发生的并发写入
type racingPostRepo struct {
	repository.PostRepository
	onRead func()
}

func (r *racingPostRepo) fire() {
	if r.onRead != nil {
		hook := r.onRead
		r.onRead = nil
		hook()
	}
}

func (r *racingPostRepo) ListPublished(filter repository.PostListFilter) ([]models.Post, int64, error) {
	posts, total, err := r.PostRepository.ListPublished(filter)
	r.fire()
	return posts, total, err
}

func (r *racingPostRepo) GetBySlug(slug string) (*models.Post, error) {
	post, err := r.PostRepository.GetBySlug(slug)
	r.fire()
	return post, err
}

func newCachedPostService(t *testing.T, f *blogFixture) (*PostService, *racingPostRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.Use(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() {
		_ = cache.Close()
	})
	cfg := testBlogConfig()
	cfg.PublicCacheTTLSeconds = 300
	repo := &racingPostRepo{PostRepository: f.postRepo}
	return NewPostService(repo, f.posts.taxonomy, f.scheduler, cfg), repo
}

func TestPostServicePublicListCacheIgnoresFillRacingWrite(t *testing.T) {
	f := newBlogFixture(t)
	posts, repo := newCachedPostService(t, f)
	ctx := context.Background()
	query := PublicListQuery{Page: 1, PageSize: 10}

	repo.onRead = func() {
		if _, err := posts.Create(ctx, PostInput{Title: "Fresh", Content: longContent(), Published: true, CategoryIDs: []uint{f.tech.ID}}); err != nil {
			t.Fatalf("create during read failed: %v", err)
		}
	}
	first, _, err := posts.ListPublic(ctx, query)
	if err != nil {
		t.Fatalf("first list failed: %v", err)
	}
	if len(first) != 0 {
		t.Fatalf("first list want 0 posts got %d", len(first))
	}

	second, total, err := posts.ListPublic(ctx, query)
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if total != 1 || len(second) != 1 {
		t.Fatalf("second list want 1 post got total=%d len=%d", total, len(second))
	}

	third, _, err := posts.ListPublic(ctx, query)
	if err != nil {
		t.Fatalf("third list failed: %v", err)
	}
	if len(third) != 1 || third[0].Slug != "fresh" {
		t.Fatalf("cached list want [fresh] got %+v", third)
	}
}

func TestPostServicePublicSlugCacheDropsUnpublishedPost(t *testing.T) {
	f := newBlogFixture(t)
	posts, repo := newCachedPostService(t, f)
	ctx := context.Background()

	post, err := posts.Create(ctx, PostInput{Title: "Going Away", Content: longContent(), Published: true, CategoryIDs: []uint{f.tech.ID}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	repo.onRead = func() {
		if _, err := posts.SetPublished(ctx, post.ID, false); err != nil {
			t.Fatalf("unpublish during read failed: %v", err)
		}
	}
	if _, err := posts.GetPublicBySlug(ctx, post.Slug); err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	if _, err := posts.GetPublicBySlug(ctx, post.Slug); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unpublished post want ErrNotFound got %v", err)
	}
}
