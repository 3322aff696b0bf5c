package public

import (
	"strconv"
	"strings"

	"github.com/inkfolio/internal/http/handlers/shared"
	"github.com/inkfolio/internal/http/response"
	"github.com/inkfolio/internal/models"
	"github.com/inkfolio/internal/service"

	"github.com/gin-gonic/gin"
)

var postReadErrorRules = []shared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.post_not_found"},
}

// GetPosts 获取已发布文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	page, pageSize := shared.ReadPagination(c, h.Config.Blog.PageSize, h.Config.Blog.MaxPageSize)

	var featured *bool
	if raw := strings.TrimSpace(c.Query("featured")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		featured = &value
	}

	posts, total, err := h.PostService.ListPublic(c.Request.Context(), service.PublicListQuery{
		CategorySlug: strings.TrimSpace(c.Query("category")),
		TagSlug:      strings.TrimSpace(c.Query("tag")),
		Featured:     featured,
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, posts, shared.BuildPagination(page, pageSize, total))
}

// SearchPosts 搜索已发布文章，空关键词返回空列表
func (h *Handler) SearchPosts(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		response.Success(c, []models.Post{})
		return
	}
	posts, err := h.PostService.Search(term)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	response.Success(c, posts)
}

// GetPostBySlug 根据 slug 获取文章详情
func (h *Handler) GetPostBySlug(c *gin.Context) {
	post, err := h.PostService.GetPublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		shared.RespondMappedError(c, err, postReadErrorRules, response.CodeInternal, "error.post_fetch_failed")
		return
	}
	response.Success(c, post)
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.TaxonomyService.ListCategories(c.Request.Context())
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.taxonomy_fetch_failed", err)
		return
	}
	response.Success(c, categories)
}

// GetTags 获取标签列表
func (h *Handler) GetTags(c *gin.Context) {
	tags, err := h.TaxonomyService.ListTags(c.Request.Context())
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.taxonomy_fetch_failed", err)
		return
	}
	response.Success(c, tags)
}
