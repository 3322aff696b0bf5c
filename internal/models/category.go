package models

import "time"

// Category 博客分类表（固定目录，文章编辑时只读）
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name      string    `gorm:"type:varchar(100);not null;index" json:"name"`       // 名称
	Slug      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"` // 唯一标识
	Color     string    `gorm:"type:varchar(32)" json:"color"`                      // 徽章颜色
	CreatedAt time.Time `json:"created_at"`                                         // 创建时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "blog_categories"
}

// Tag 博客标签表
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name      string    `gorm:"type:varchar(100);not null;index" json:"name"`       // 名称
	Slug      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"` // 唯一标识
	CreatedAt time.Time `json:"created_at"`                                         // 创建时间
}

// TableName 指定表名
func (Tag) TableName() string {
	return "blog_tags"
}

// PostCategory 文章-分类关联表
type PostCategory struct {
	PostID     uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	CategoryID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
}

// TableName 指定表名
func (PostCategory) TableName() string {
	return "blog_post_categories"
}

// PostTag 文章-标签关联表
type PostTag struct {
	PostID uint `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
	Tag    *Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"tag,omitempty"`
}

// TableName 指定表名
func (PostTag) TableName() string {
	return "blog_post_tags"
}
