package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateSlug 写入时违反 slug 唯一索引
var ErrDuplicateSlug = errors.New("slug violates unique index")

// translateDuplicate 将唯一索引冲突统一为 ErrDuplicateSlug
// 方言未翻译错误时按驱动报错文本兜底（sqlite: UNIQUE constraint failed，postgres: violates unique constraint）
func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
		return ErrDuplicateSlug
	}
	return err
}

// PostListFilter 查询文章列表的过滤条件
// 分类/标签过滤在 SQL 中先于 limit/offset 生效
type PostListFilter struct {
	Limit         int
	Offset        int
	CategorySlug  string
	TagSlug       string
	Featured      *bool
	OnlyPublished bool
	Status        string // published / draft，仅后台列表使用
	Search        string
}

// PostStats 文章统计
type PostStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Drafts    int64 `json:"drafts"`
	Featured  int64 `json:"featured"`
}
