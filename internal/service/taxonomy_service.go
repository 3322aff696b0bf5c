package service

import (
	"context"
	"errors"
	"strings"

	"github.com/inkfolio/internal/editor"
	"github.com/inkfolio/internal/logger"
	"github.com/inkfolio/internal/models"
	"github.com/inkfolio/internal/repository"
)

// TaxonomyService 分类/标签业务服务
type TaxonomyService struct {
	repo repository.TaxonomyRepository
}

// NewTaxonomyService 创建分类/标签服务
func NewTaxonomyService(repo repository.TaxonomyRepository) *TaxonomyService {
	return &TaxonomyService{repo: repo}
}

// TaxonomyInput 创建分类/标签输入
type TaxonomyInput struct {
	Name  string
	Slug  string
	Color string
}

// ListCategories 按名称排序的分类
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repo.ListCategories()
}

// ListTags 按名称排序的标签
func (s *TaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repo.ListTags()
}

// Catalog 编辑器使用的分类与标签
func (s *TaxonomyService) Catalog(ctx context.Context) (*editor.Catalog, error) {
	catalog, err := editor.LoadCatalog(ctx, s)
	if err != nil {
		logger.Errorw("taxonomy_catalog_load_failed", "error", err)
		return nil, err
	}
	return catalog, nil
}

// CreateCategory 创建分类
func (s *TaxonomyService) CreateCategory(input TaxonomyInput) (*models.Category, error) {
	name, slug, err := normalizeTaxonomyInput(input)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountCategoryBySlug(slug)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategorySlugExists
	}
	category := &models.Category{Name: name, Slug: slug, Color: strings.TrimSpace(input.Color)}
	if err := s.repo.CreateCategory(category); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrCategorySlugExists
		}
		logger.Errorw("category_create_failed", "slug", slug, "error", err)
		return nil, err
	}
	return category, nil
}

// CreateTag 创建标签
func (s *TaxonomyService) CreateTag(input TaxonomyInput) (*models.Tag, error) {
	name, slug, err := normalizeTaxonomyInput(input)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountTagBySlug(slug)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTagSlugExists
	}
	tag := &models.Tag{Name: name, Slug: slug}
	if err := s.repo.CreateTag(tag); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrTagSlugExists
		}
		logger.Errorw("tag_create_failed", "slug", slug, "error", err)
		return nil, err
	}
	return tag, nil
}

// normalizeTaxonomyInput slug 为空时由名称生成
func normalizeTaxonomyInput(input TaxonomyInput) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", "", ErrTaxonomyInvalid
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = editor.Slugify(name)
	}
	if !editor.ValidSlug(slug) {
		return "", "", ErrTaxonomyInvalid
	}
	return name, slug, nil
}
