package admin

import (
	"strings"
	"time"

	"github.com/inkfolio/internal/constants"
	"github.com/inkfolio/internal/http/handlers/shared"
	"github.com/inkfolio/internal/http/response"
	"github.com/inkfolio/internal/i18n"
	"github.com/inkfolio/internal/service"

	"github.com/gin-gonic/gin"
)

// PostRequest 创建/更新文章请求
type PostRequest struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	ReadTime    int        `json:"read_time"`
	Featured    bool       `json:"featured"`
	Published   bool       `json:"published"`
	CoverImage  string     `json:"cover_image"`
	PublishDate *time.Time `json:"publish_date"`
	CategoryIDs []uint     `json:"category_ids"`
	TagIDs      []uint     `json:"tag_ids"`
}

func (r PostRequest) toInput() service.PostInput {
	return service.PostInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Excerpt:     r.Excerpt,
		Content:     r.Content,
		Author:      r.Author,
		ReadTime:    r.ReadTime,
		Featured:    r.Featured,
		Published:   r.Published,
		CoverImage:  r.CoverImage,
		PublishDate: r.PublishDate,
		CategoryIDs: r.CategoryIDs,
		TagIDs:      r.TagIDs,
	}
}

// PublishedRequest 发布状态切换请求
type PublishedRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// ScheduleRequest 定时发布请求
type ScheduleRequest struct {
	PublishAt time.Time `json:"publish_at" binding:"required"`
}

// GetAdminPosts 获取文章列表 (Admin)，status 取 published/draft
func (h *Handler) GetAdminPosts(c *gin.Context) {
	page, pageSize := shared.ReadPagination(c, h.Config.Blog.PageSize, h.Config.Blog.MaxPageSize)
	status := strings.TrimSpace(c.Query("status"))
	if status != "" && status != constants.PostStatusPublished && status != constants.PostStatusDraft {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	posts, total, err := h.PostService.ListAdmin(service.AdminListQuery{
		Status:   status,
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, posts, shared.BuildPagination(page, pageSize, total))
}

// GetAdminPostStats 仪表盘统计
func (h *Handler) GetAdminPostStats(c *gin.Context) {
	stats, err := h.PostService.Stats()
	if err != nil {
		respondError(c, response.CodeInternal, "error.stats_failed", err)
		return
	}
	response.Success(c, stats)
}

// GetAdminPost 获取文章详情 (Admin)
func (h *Handler) GetAdminPost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	post, err := h.PostService.GetAdminByID(id)
	if err != nil {
		respondPostError(c, err, "error.post_fetch_failed")
		return
	}
	response.Success(c, post)
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	post, err := h.PostService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondPostError(c, err, "error.post_save_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.post_created"), post)
}

// UpdatePost 更新文章，分类/标签整体替换
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	post, err := h.PostService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondPostError(c, err, "error.post_save_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.post_updated"), post)
}

// DeletePost 删除文章
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PostService.Delete(c.Request.Context(), id); err != nil {
		respondPostError(c, err, "error.post_delete_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.post_deleted"), nil)
}

// SetPostPublished 切换发布状态
func (h *Handler) SetPostPublished(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req PublishedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	post, err := h.PostService.SetPublished(c.Request.Context(), id, *req.Published)
	if err != nil {
		respondPostError(c, err, "error.post_save_failed")
		return
	}
	response.Success(c, post)
}

// SchedulePost 定时发布草稿
func (h *Handler) SchedulePost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	post, err := h.PostService.SchedulePublish(c.Request.Context(), id, req.PublishAt)
	if err != nil {
		respondPostError(c, err, "error.post_save_failed")
		return
	}
	response.Success(c, post)
}
