package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/inkfolio/internal/cache"
	"github.com/inkfolio/internal/config"
	"github.com/inkfolio/internal/editor"
	"github.com/inkfolio/internal/logger"
	"github.com/inkfolio/internal/models"
	"github.com/inkfolio/internal/queue"
	"github.com/inkfolio/internal/repository"
)

// PublishScheduler 定时发布任务投递
type PublishScheduler interface {
	Enabled() bool
	EnqueuePostPublish(payload queue.PostPublishPayload, at time.Time) error
}

// CacheObserver 缓存命中统计
type CacheObserver interface {
	RecordCacheHit(ctx context.Context, key string)
	RecordCacheMiss(ctx context.Context, key string)
}

// PostService 文章业务服务
type PostService struct {
	repo      repository.PostRepository
	taxonomy  repository.TaxonomyRepository
	scheduler PublishScheduler
	observer  CacheObserver
	blog      config.BlogConfig
	now       func() time.Time
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository, taxonomy repository.TaxonomyRepository, scheduler PublishScheduler, blog config.BlogConfig) *PostService {
	return &PostService{
		repo:      repo,
		taxonomy:  taxonomy,
		scheduler: scheduler,
		blog:      blog,
		now:       time.Now,
	}
}

// SetCacheObserver 设置缓存命中统计
func (s *PostService) SetCacheObserver(observer CacheObserver) {
	s.observer = observer
}

// PostInput 创建/更新文章输入
type PostInput struct {
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	Author      string
	ReadTime    int
	Featured    bool
	Published   bool
	CoverImage  string
	PublishDate *time.Time
	CategoryIDs []uint
	TagIDs      []uint
}

// PublicListQuery 公开列表查询
type PublicListQuery struct {
	CategorySlug string
	TagSlug      string
	Featured     *bool
	Page         int
	PageSize     int
}

// AdminListQuery 后台列表查询
type AdminListQuery struct {
	Status   string
	Search   string
	Page     int
	PageSize int
}

type cachedPostPage struct {
	Posts []models.Post `json:"posts"`
	Total int64         `json:"total"`
}

// ListPublic 获取公开文章列表
func (s *PostService) ListPublic(ctx context.Context, query PublicListQuery) ([]models.Post, int64, error) {
	featured := ""
	if query.Featured != nil {
		featured = strconv.FormatBool(*query.Featured)
	}
	parts := []string{
		"list",
		"category=" + query.CategorySlug,
		"tag=" + query.TagSlug,
		"featured=" + featured,
		"page=" + strconv.Itoa(query.Page),
		"size=" + strconv.Itoa(query.PageSize),
	}
	var cached cachedPostPage
	key, hit := s.readPublicCache(ctx, &cached, parts...)
	if hit {
		return cached.Posts, cached.Total, nil
	}

	posts, total, err := s.repo.ListPublished(repository.PostListFilter{
		CategorySlug: query.CategorySlug,
		TagSlug:      query.TagSlug,
		Featured:     query.Featured,
		Limit:        query.PageSize,
		Offset:       repository.PageToOffset(query.Page, query.PageSize),
	})
	if err != nil {
		logger.Errorw("post_list_public_failed", "error", err)
		return nil, 0, err
	}
	s.writePublicCache(ctx, key, cachedPostPage{Posts: posts, Total: total})
	return posts, total, nil
}

// GetPublicBySlug 获取公开文章详情
func (s *PostService) GetPublicBySlug(ctx context.Context, slug string) (*models.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}
	var cached models.Post
	key, hit := s.readPublicCache(ctx, &cached, "post", slug)
	if hit {
		return &cached, nil
	}
	post, err := s.repo.GetBySlug(slug)
	if err != nil {
		logger.Errorw("post_get_by_slug_failed", "slug", slug, "error", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	s.writePublicCache(ctx, key, post)
	return post, nil
}

// Search 搜索已发布文章
func (s *PostService) Search(term string) ([]models.Post, error) {
	posts, err := s.repo.Search(term)
	if err != nil {
		logger.Errorw("post_search_failed", "term", term, "error", err)
		return nil, err
	}
	return posts, nil
}

// ListAdmin 获取后台文章列表
func (s *PostService) ListAdmin(query AdminListQuery) ([]models.Post, int64, error) {
	return s.repo.ListAll(repository.PostListFilter{
		Status: query.Status,
		Search: query.Search,
		Limit:  query.PageSize,
		Offset: repository.PageToOffset(query.Page, query.PageSize),
	})
}

// GetAdminByID 获取后台文章详情
func (s *PostService) GetAdminByID(id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Stats 仪表盘统计
func (s *PostService) Stats() (*repository.PostStats, error) {
	return s.repo.Stats()
}

// Create 创建文章
func (s *PostService) Create(ctx context.Context, input PostInput) (*models.Post, error) {
	post, categoryIDs, tagIDs, err := s.preparePost(input, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(post, categoryIDs, tagIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugExists
		}
		logger.Errorw("post_create_failed", "slug", post.Slug, "error", err)
		return nil, err
	}
	logger.Infow("post_created", "post_id", post.ID, "slug", post.Slug, "published", post.Published)
	s.invalidatePublic(ctx)
	return s.GetAdminByID(post.ID)
}

// Update 更新文章，分类/标签整体替换
func (s *PostService) Update(ctx context.Context, id uint, input PostInput) (*models.Post, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	post, categoryIDs, tagIDs, err := s.preparePost(input, id)
	if err != nil {
		return nil, err
	}
	post.ID = existing.ID
	post.CreatedAt = existing.CreatedAt
	post.ScheduledAt = existing.ScheduledAt
	if post.Published {
		post.ScheduledAt = nil
	}
	if err := s.repo.Update(post, categoryIDs, tagIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugExists
		}
		logger.Errorw("post_update_failed", "post_id", id, "error", err)
		return nil, err
	}
	logger.Infow("post_updated", "post_id", id, "slug", post.Slug, "published", post.Published)
	s.invalidatePublic(ctx)
	return s.GetAdminByID(id)
}

// preparePost 归一化、校验输入并构建模型；excludeID 为更新时的自身 ID
func (s *PostService) preparePost(input PostInput, excludeID uint) (*models.Post, []uint, []uint, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Slug == "" {
		input.Slug = editor.Slugify(input.Title)
	}
	if strings.TrimSpace(input.Author) == "" {
		input.Author = s.blog.DefaultAuthor
	}
	if input.ReadTime < 1 {
		input.ReadTime = editor.ReadTime(input.Content)
	}
	categoryIDs := uniqueUintIDs(input.CategoryIDs)
	tagIDs := uniqueUintIDs(input.TagIDs)

	errs := editor.Validate(editor.Form{
		Title:       input.Title,
		Slug:        input.Slug,
		Content:     input.Content,
		CategoryIDs: categoryIDs,
	})
	if len(errs) > 0 {
		return nil, nil, nil, newValidationError(errs)
	}

	if err := s.ensureTaxonomyExists(categoryIDs, tagIDs); err != nil {
		return nil, nil, nil, err
	}

	count, err := s.repo.CountBySlug(input.Slug, excludeID)
	if err != nil {
		return nil, nil, nil, err
	}
	if count > 0 {
		return nil, nil, nil, ErrSlugExists
	}

	publishDate := s.now()
	if input.PublishDate != nil && !input.PublishDate.IsZero() {
		publishDate = *input.PublishDate
	}
	post := &models.Post{
		Title:       input.Title,
		Slug:        input.Slug,
		Excerpt:     strings.TrimSpace(input.Excerpt),
		Content:     input.Content,
		Author:      strings.TrimSpace(input.Author),
		ReadTime:    input.ReadTime,
		Featured:    input.Featured,
		Published:   input.Published,
		CoverImage:  strings.TrimSpace(input.CoverImage),
		PublishDate: publishDate,
	}
	return post, categoryIDs, tagIDs, nil
}

func (s *PostService) ensureTaxonomyExists(categoryIDs, tagIDs []uint) error {
	count, err := s.taxonomy.CountCategoriesByIDs(categoryIDs)
	if err != nil {
		return err
	}
	if count != int64(len(categoryIDs)) {
		return ErrCategoryNotFound
	}
	if len(tagIDs) == 0 {
		return nil
	}
	count, err = s.taxonomy.CountTagsByIDs(tagIDs)
	if err != nil {
		return err
	}
	if count != int64(len(tagIDs)) {
		return ErrTagNotFound
	}
	return nil
}

// Delete 删除文章
func (s *PostService) Delete(ctx context.Context, id uint) error {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		logger.Errorw("post_delete_failed", "post_id", id, "error", err)
		return err
	}
	logger.Infow("post_deleted", "post_id", id, "slug", post.Slug)
	s.invalidatePublic(ctx)
	return nil
}

// SetPublished 切换发布状态
func (s *PostService) SetPublished(ctx context.Context, id uint, published bool) (*models.Post, error) {
	affected, err := s.repo.SetPublished(id, published)
	if err != nil {
		logger.Errorw("post_set_published_failed", "post_id", id, "error", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	if published {
		// 手动发布后旧的定时任务作废
		if _, err := s.repo.SetScheduledAt(id, nil); err != nil {
			logger.Warnw("post_clear_schedule_failed", "post_id", id, "error", err)
		}
	}
	s.invalidatePublic(ctx)
	return s.GetAdminByID(id)
}

// SchedulePublish 在 at 时刻自动发布草稿
func (s *PostService) SchedulePublish(ctx context.Context, id uint, at time.Time) (*models.Post, error) {
	at = at.Truncate(time.Second)
	if !at.After(s.now()) {
		return nil, ErrScheduleInvalid
	}
	if s.scheduler == nil || !s.scheduler.Enabled() {
		return nil, ErrScheduleUnavailable
	}
	post, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}
	if post.Published {
		return nil, ErrScheduleInvalid
	}
	if _, err := s.repo.SetScheduledAt(id, &at); err != nil {
		logger.Errorw("post_schedule_failed", "post_id", id, "error", err)
		return nil, err
	}
	payload := queue.PostPublishPayload{PostID: id, ScheduledAt: at.Unix()}
	if err := s.scheduler.EnqueuePostPublish(payload, at); err != nil {
		logger.Errorw("post_schedule_enqueue_failed", "post_id", id, "error", err)
		if _, clearErr := s.repo.SetScheduledAt(id, nil); clearErr != nil {
			logger.Warnw("post_clear_schedule_failed", "post_id", id, "error", clearErr)
		}
		return nil, err
	}
	logger.Infow("post_publish_scheduled", "post_id", id, "scheduled_at", at)
	return s.GetAdminByID(id)
}

// PublishScheduled 执行定时发布；计划已变更或文章已删除时跳过
func (s *PostService) PublishScheduled(ctx context.Context, payload queue.PostPublishPayload) (bool, error) {
	post, err := s.repo.GetByID(payload.PostID)
	if err != nil {
		return false, err
	}
	if post == nil || post.Published || post.ScheduledAt == nil {
		return false, nil
	}
	if payload.ScheduledAt != 0 && post.ScheduledAt.Unix() != payload.ScheduledAt {
		logger.Debugw("post_publish_schedule_stale", "post_id", post.ID, "payload_at", payload.ScheduledAt, "current_at", post.ScheduledAt.Unix())
		return false, nil
	}
	if _, err := s.repo.MarkScheduledPublished(post.ID, *post.ScheduledAt); err != nil {
		return false, fmt.Errorf("publish scheduled post %d: %w", post.ID, err)
	}
	logger.Infow("post_published_by_schedule", "post_id", post.ID, "slug", post.Slug)
	s.invalidatePublic(ctx)
	return true, nil
}

// PublishDueScheduled 补偿发布已到期的定时文章，返回发布数量
func (s *PostService) PublishDueScheduled(ctx context.Context) (int, error) {
	due, err := s.repo.ListDueScheduled(s.now(), 50)
	if err != nil {
		return 0, err
	}
	published := 0
	var errs []error
	for _, post := range due {
		ok, err := s.PublishScheduled(ctx, queue.PostPublishPayload{PostID: post.ID})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			published++
		}
	}
	return published, errors.Join(errs...)
}

// readPublicCache 读取公开缓存并返回本次读取对应的代数键，回填必须写入同一个键
func (s *PostService) readPublicCache(ctx context.Context, dest interface{}, parts ...string) (string, bool) {
	if !cache.Enabled() {
		return "", false
	}
	key, err := cache.PublicPostKey(ctx, parts...)
	if err != nil {
		logger.Warnw("post_cache_read_failed", "key", parts[0], "error", err)
		return "", false
	}
	hit, err := cache.GetJSON(ctx, key, dest)
	if err != nil {
		logger.Warnw("post_cache_read_failed", "key", parts[0], "error", err)
		return key, false
	}
	if s.observer != nil {
		if hit {
			s.observer.RecordCacheHit(ctx, parts[0])
		} else {
			s.observer.RecordCacheMiss(ctx, parts[0])
		}
	}
	return key, hit
}

func (s *PostService) writePublicCache(ctx context.Context, key string, value interface{}) {
	ttl := s.blog.PublicCacheTTL()
	if key == "" || ttl <= 0 {
		return
	}
	if err := cache.SetJSON(ctx, key, value, ttl); err != nil {
		logger.Warnw("post_cache_write_failed", "key", key, "error", err)
	}
}

func (s *PostService) invalidatePublic(ctx context.Context) {
	if err := cache.InvalidatePublicPosts(ctx); err != nil {
		logger.Warnw("post_cache_invalidate_failed", "error", err)
	}
}
