package editor

import (
	"strings"

	"github.com/inkfolio/internal/models"
)

// Form 编辑器表单
type Form struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	ReadTime    int    `json:"read_time"`
	Featured    bool   `json:"featured"`
	Published   bool   `json:"published"`
	CoverImage  string `json:"cover_image"`
	CategoryIDs []uint `json:"category_ids"`
	TagIDs      []uint `json:"tag_ids"`
}

// Patch 局部修改，nil 字段保持不变
type Patch struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Excerpt     *string `json:"excerpt"`
	Content     *string `json:"content"`
	Author      *string `json:"author"`
	ReadTime    *int    `json:"read_time"`
	Featured    *bool   `json:"featured"`
	Published   *bool   `json:"published"`
	CoverImage  *string `json:"cover_image"`
	CategoryIDs *[]uint `json:"category_ids"`
	TagIDs      *[]uint `json:"tag_ids"`
}

// formFromPost 使用已有文章预填表单
func formFromPost(post *models.Post, opts Options) Form {
	author := post.Author
	if strings.TrimSpace(author) == "" {
		author = opts.DefaultAuthor
	}
	readTime := post.ReadTime
	if readTime < 1 {
		readTime = opts.DefaultReadTime
	}
	return Form{
		Title:       post.Title,
		Slug:        post.Slug,
		Excerpt:     post.Excerpt,
		Content:     post.Content,
		Author:      author,
		ReadTime:    readTime,
		Featured:    post.Featured,
		Published:   post.Published,
		CoverImage:  post.CoverImage,
		CategoryIDs: post.CategoryIDs(),
		TagIDs:      post.TagIDs(),
	}
}

func (f Form) clone() Form {
	f.CategoryIDs = append([]uint(nil), f.CategoryIDs...)
	f.TagIDs = append([]uint(nil), f.TagIDs...)
	return f
}

// toggleID 已选则移除，未选则追加
func toggleID(ids []uint, id uint) []uint {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}
