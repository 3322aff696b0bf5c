package repository

import (
	"errors"

	"github.com/inkfolio/internal/models"

	"gorm.io/gorm"
)

// TaxonomyRepository 分类/标签数据访问接口
type TaxonomyRepository interface {
	ListCategories() ([]models.Category, error)
	ListTags() ([]models.Tag, error)
	GetCategoryBySlug(slug string) (*models.Category, error)
	GetTagBySlug(slug string) (*models.Tag, error)
	CountCategoriesByIDs(ids []uint) (int64, error)
	CountTagsByIDs(ids []uint) (int64, error)
	CreateCategory(category *models.Category) error
	CreateTag(tag *models.Tag) error
	CountCategoryBySlug(slug string) (int64, error)
	CountTagBySlug(slug string) (int64, error)
}

// GormTaxonomyRepository GORM 实现
type GormTaxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository 创建分类/标签仓库
func NewTaxonomyRepository(db *gorm.DB) *GormTaxonomyRepository {
	return &GormTaxonomyRepository{db: db}
}

// ListCategories 分类列表（按名称排序）
func (r *GormTaxonomyRepository) ListCategories() ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := r.db.Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListTags 标签列表（按名称排序）
func (r *GormTaxonomyRepository) ListTags() ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	if err := r.db.Order("name ASC, id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetCategoryBySlug 根据 slug 获取分类
func (r *GormTaxonomyRepository) GetCategoryBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetTagBySlug 根据 slug 获取标签
func (r *GormTaxonomyRepository) GetTagBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// CountCategoriesByIDs 统计存在的分类数量
func (r *GormTaxonomyRepository) CountCategoriesByIDs(ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.Model(&models.Category{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountTagsByIDs 统计存在的标签数量
func (r *GormTaxonomyRepository) CountTagsByIDs(ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.Model(&models.Tag{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateCategory 创建分类
func (r *GormTaxonomyRepository) CreateCategory(category *models.Category) error {
	return translateDuplicate(r.db.Create(category).Error)
}

// CreateTag 创建标签
func (r *GormTaxonomyRepository) CreateTag(tag *models.Tag) error {
	return translateDuplicate(r.db.Create(tag).Error)
}

// CountCategoryBySlug 统计分类 slug 数量
func (r *GormTaxonomyRepository) CountCategoryBySlug(slug string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Category{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountTagBySlug 统计标签 slug 数量
func (r *GormTaxonomyRepository) CountTagBySlug(slug string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Tag{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
