package repository

import "gorm.io/gorm"

// applyLimitOffset 应用 limit/offset，统一处理非法取值。
func applyLimitOffset(query *gorm.DB, limit, offset int) *gorm.DB {
	if query == nil || limit <= 0 {
		return query
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

// MaxPage 页码上限，超出部分按上限处理，保证 offset 不溢出
const MaxPage = 100000

// PageToOffset 将页码换算为 offset。
func PageToOffset(page, pageSize int) int {
	if page < 1 || pageSize <= 0 {
		return 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	return (page - 1) * pageSize
}
