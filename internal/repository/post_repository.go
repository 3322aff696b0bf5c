package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/inkfolio/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	ListPublished(filter PostListFilter) ([]models.Post, int64, error)
	ListAll(filter PostListFilter) ([]models.Post, int64, error)
	GetBySlug(slug string) (*models.Post, error)
	GetByID(id uint) (*models.Post, error)
	Search(term string) ([]models.Post, error)
	Create(post *models.Post, categoryIDs, tagIDs []uint) error
	Update(post *models.Post, categoryIDs, tagIDs []uint) error
	Delete(id uint) error
	SetPublished(id uint, published bool) (int64, error)
	SetScheduledAt(id uint, at *time.Time) (int64, error)
	MarkScheduledPublished(id uint, publishDate time.Time) (int64, error)
	ListDueScheduled(now time.Time, limit int) ([]models.Post, error)
	CountBySlug(slug string, excludeID uint) (int64, error)
	Stats() (*PostStats, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// postUpdateColumns 更新时写入的列，显式列出以便 false/空值也能落库
var postUpdateColumns = []string{
	"title", "slug", "excerpt", "content", "author", "read_time",
	"featured", "published", "cover_image", "publish_date", "scheduled_at",
	"updated_at",
}

// withPostRelations 预加载关联行，供 Denormalize 展开
func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("PostCategories.Category").Preload("PostTags.Tag")
}

// ListPublished 已发布文章列表
func (r *GormPostRepository) ListPublished(filter PostListFilter) ([]models.Post, int64, error) {
	filter.OnlyPublished = true
	filter.Status = ""
	return r.list(filter)
}

// ListAll 后台文章列表（含草稿）
func (r *GormPostRepository) ListAll(filter PostListFilter) ([]models.Post, int64, error) {
	filter.OnlyPublished = false
	return r.list(filter)
}

func (r *GormPostRepository) list(filter PostListFilter) ([]models.Post, int64, error) {
	var posts []models.Post
	query := r.db.Model(&models.Post{})

	if filter.OnlyPublished {
		query = query.Where("blog_posts.published = ?", true)
	}
	switch strings.ToLower(strings.TrimSpace(filter.Status)) {
	case "published":
		query = query.Where("blog_posts.published = ?", true)
	case "draft":
		query = query.Where("blog_posts.published = ?", false)
	}
	if filter.Featured != nil {
		query = query.Where("blog_posts.featured = ?", *filter.Featured)
	}
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		sub := r.db.Model(&models.PostCategory{}).
			Select("blog_post_categories.post_id").
			Joins("JOIN blog_categories ON blog_categories.id = blog_post_categories.category_id").
			Where("blog_categories.slug = ?", slug)
		query = query.Where("blog_posts.id IN (?)", sub)
	}
	if slug := strings.TrimSpace(filter.TagSlug); slug != "" {
		sub := r.db.Model(&models.PostTag{}).
			Select("blog_post_tags.post_id").
			Joins("JOIN blog_tags ON blog_tags.id = blog_post_tags.tag_id").
			Where("blog_tags.slug = ?", slug)
		query = query.Where("blog_posts.id IN (?)", sub)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"blog_posts.title", "blog_posts.excerpt", "blog_posts.slug"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyLimitOffset(query, filter.Limit, filter.Offset)
	if err := query.Scopes(withPostRelations).
		Order("blog_posts.publish_date DESC").
		Order("blog_posts.id DESC").
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return models.DenormalizePosts(posts), total, nil
}

// GetBySlug 根据 slug 获取已发布文章
func (r *GormPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.Scopes(withPostRelations).
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return post.Denormalize(), nil
}

// GetByID 根据 ID 获取文章（不区分发布状态）
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	if id == 0 {
		return nil, nil
	}
	var post models.Post
	if err := r.db.Scopes(withPostRelations).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return post.Denormalize(), nil
}

// Search 在标题、摘要、正文中模糊搜索已发布文章
func (r *GormPostRepository) Search(term string) ([]models.Post, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Post{}, nil
	}
	like := "%" + term + "%"
	condition, argCount := buildLikeCondition(r.db, []string{"title", "excerpt", "content"})

	var posts []models.Post
	err := r.db.Scopes(withPostRelations).
		Where("published = ?", true).
		Where(condition, repeatLikeArgs(like, argCount)...).
		Order("publish_date DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return models.DenormalizePosts(posts), nil
}

// Create 创建文章并写入分类/标签关联（同一事务）
func (r *GormPostRepository) Create(post *models.Post, categoryIDs, tagIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return translateDuplicate(err)
		}
		return replacePostRelations(tx, post.ID, categoryIDs, tagIDs)
	})
}

// Update 更新文章并整体替换分类/标签关联（同一事务）
func (r *GormPostRepository) Update(post *models.Post, categoryIDs, tagIDs []uint) error {
	if post == nil || post.ID == 0 {
		return gorm.ErrMissingWhereClause
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{ID: post.ID}).
			Select(postUpdateColumns).
			Omit(clause.Associations).
			Updates(post).Error; err != nil {
			return translateDuplicate(err)
		}
		return replacePostRelations(tx, post.ID, categoryIDs, tagIDs)
	})
}

// Delete 删除文章及其关联行
func (r *GormPostRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := clearPostRelations(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// SetPublished 仅更新发布状态
func (r *GormPostRepository) SetPublished(id uint, published bool) (int64, error) {
	result := r.db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("published", published)
	return result.RowsAffected, result.Error
}

// SetScheduledAt 记录或清除定时发布时间
func (r *GormPostRepository) SetScheduledAt(id uint, at *time.Time) (int64, error) {
	result := r.db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("scheduled_at", at)
	return result.RowsAffected, result.Error
}

// MarkScheduledPublished 定时任务到期：发布文章并清除计划时间
func (r *GormPostRepository) MarkScheduledPublished(id uint, publishDate time.Time) (int64, error) {
	result := r.db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"published":    true,
			"publish_date": publishDate,
			"scheduled_at": nil,
		})
	return result.RowsAffected, result.Error
}

// ListDueScheduled 已到期但尚未发布的定时文章
func (r *GormPostRepository) ListDueScheduled(now time.Time, limit int) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	query := r.db.Where("published = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", false, now).
		Order("scheduled_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountBySlug 统计 slug 数量
func (r *GormPostRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Post{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Stats 后台仪表盘统计
func (r *GormPostRepository) Stats() (*PostStats, error) {
	stats := &PostStats{}
	counters := []struct {
		target *int64
		scope  func(*gorm.DB) *gorm.DB
	}{
		{&stats.Total, func(db *gorm.DB) *gorm.DB { return db }},
		{&stats.Published, func(db *gorm.DB) *gorm.DB { return db.Where("published = ?", true) }},
		{&stats.Drafts, func(db *gorm.DB) *gorm.DB { return db.Where("published = ?", false) }},
		{&stats.Featured, func(db *gorm.DB) *gorm.DB { return db.Where("featured = ?", true) }},
	}
	for _, counter := range counters {
		if err := r.db.Model(&models.Post{}).Scopes(counter.scope).Count(counter.target).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}
