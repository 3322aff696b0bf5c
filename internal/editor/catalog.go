package editor

import (
	"context"

	"github.com/inkfolio/internal/models"

	"golang.org/x/sync/errgroup"
)

// CatalogSource 分类/标签只读来源
type CatalogSource interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}

// Catalog 编辑器可选的分类与标签
type Catalog struct {
	Categories []models.Category `json:"categories"`
	Tags       []models.Tag      `json:"tags"`
}

// LoadCatalog 并发加载分类与标签，任一失败即取消另一个并返回该错误
func LoadCatalog(ctx context.Context, source CatalogSource) (*Catalog, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	catalog := &Catalog{}
	group.Go(func() error {
		categories, err := source.ListCategories(groupCtx)
		if err != nil {
			return err
		}
		catalog.Categories = categories
		return nil
	})
	group.Go(func() error {
		tags, err := source.ListTags(groupCtx)
		if err != nil {
			return err
		}
		catalog.Tags = tags
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if catalog.Categories == nil {
		catalog.Categories = []models.Category{}
	}
	if catalog.Tags == nil {
		catalog.Tags = []models.Tag{}
	}
	return catalog, nil
}
