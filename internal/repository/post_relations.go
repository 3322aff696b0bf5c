package repository

import (
	"github.com/inkfolio/internal/models"

	"gorm.io/gorm"
)

// replacePostRelations 先删除文章全部分类/标签关联，再写入新集合。
// 必须在调用方事务内执行，删除与写入要么同时成功要么同时回滚。
func replacePostRelations(tx *gorm.DB, postID uint, categoryIDs, tagIDs []uint) error {
	if err := clearPostRelations(tx, postID); err != nil {
		return err
	}

	categoryLinks := make([]models.PostCategory, 0, len(categoryIDs))
	for _, id := range uniqueIDs(categoryIDs) {
		categoryLinks = append(categoryLinks, models.PostCategory{PostID: postID, CategoryID: id})
	}
	if len(categoryLinks) > 0 {
		if err := tx.Omit("Category").Create(&categoryLinks).Error; err != nil {
			return err
		}
	}

	tagLinks := make([]models.PostTag, 0, len(tagIDs))
	for _, id := range uniqueIDs(tagIDs) {
		tagLinks = append(tagLinks, models.PostTag{PostID: postID, TagID: id})
	}
	if len(tagLinks) > 0 {
		if err := tx.Omit("Tag").Create(&tagLinks).Error; err != nil {
			return err
		}
	}
	return nil
}

func clearPostRelations(tx *gorm.DB, postID uint) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostCategory{}).Error; err != nil {
		return err
	}
	return tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error
}

// uniqueIDs 去重并过滤 0，保持原有顺序
func uniqueIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
