package models

import (
	"sort"
	"time"
)

// Post 博客文章表
type Post struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                // 主键
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`             // 标题
	Slug        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`  // 唯一标识（由标题生成）
	Excerpt     string     `gorm:"type:text" json:"excerpt"`                            // 摘要
	Content     string     `gorm:"type:text;not null" json:"content"`                   // Markdown 正文
	Author      string     `gorm:"type:varchar(120)" json:"author"`                     // 作者
	ReadTime    int        `gorm:"not null;default:1" json:"read_time"`                 // 预计阅读分钟数
	Featured    bool       `gorm:"not null;default:false;index" json:"featured"`        // 是否精选
	Published   bool       `gorm:"not null;default:false;index" json:"published"`       // 是否发布
	CoverImage  string     `gorm:"type:varchar(500)" json:"cover_image"`                // 封面图
	PublishDate time.Time  `gorm:"index" json:"publish_date"`                           // 发布时间
	ScheduledAt *time.Time `gorm:"index" json:"scheduled_at,omitempty"`                 // 定时发布时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                                          // 更新时间

	// 关联行（读取时预加载，输出前由 Denormalize 展开）
	PostCategories []PostCategory `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	PostTags       []PostTag      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`

	Categories []Category `gorm:"-" json:"categories"` // 展开后的分类
	Tags       []Tag      `gorm:"-" json:"tags"`       // 展开后的标签
}

// TableName 指定表名
func (Post) TableName() string {
	return "blog_posts"
}

// Denormalize 将关联行展开为分类/标签数组，结果永不为 nil
func (p *Post) Denormalize() *Post {
	if p == nil {
		return nil
	}
	categories := make([]Category, 0, len(p.PostCategories))
	for _, link := range p.PostCategories {
		if link.Category == nil {
			continue
		}
		categories = append(categories, *link.Category)
	}
	tags := make([]Tag, 0, len(p.PostTags))
	for _, link := range p.PostTags {
		if link.Tag == nil {
			continue
		}
		tags = append(tags, *link.Tag)
	}
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	p.Categories = categories
	p.Tags = tags
	return p
}

// DenormalizePosts 批量展开文章关联
func DenormalizePosts(posts []Post) []Post {
	if posts == nil {
		return []Post{}
	}
	for i := range posts {
		posts[i].Denormalize()
	}
	return posts
}

// CategoryIDs 返回文章已展开分类的 ID 列表
func (p *Post) CategoryIDs() []uint {
	if p == nil {
		return nil
	}
	ids := make([]uint, 0, len(p.Categories))
	for _, category := range p.Categories {
		ids = append(ids, category.ID)
	}
	return ids
}

// TagIDs 返回文章已展开标签的 ID 列表
func (p *Post) TagIDs() []uint {
	if p == nil {
		return nil
	}
	ids := make([]uint, 0, len(p.Tags))
	for _, tag := range p.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}
