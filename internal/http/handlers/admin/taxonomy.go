package admin

import (
	"github.com/inkfolio/internal/http/handlers/shared"
	"github.com/inkfolio/internal/http/response"
	"github.com/inkfolio/internal/service"

	"github.com/gin-gonic/gin"
)

// TaxonomyRequest 创建分类/标签请求
type TaxonomyRequest struct {
	Name  string `json:"name" binding:"required"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

func (r TaxonomyRequest) toInput() service.TaxonomyInput {
	return service.TaxonomyInput{Name: r.Name, Slug: r.Slug, Color: r.Color}
}

// GetCatalog 编辑器可选的分类与标签
func (h *Handler) GetCatalog(c *gin.Context) {
	catalog, err := h.TaxonomyService.Catalog(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.taxonomy_fetch_failed", err)
		return
	}
	response.Success(c, catalog)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.TaxonomyService.CreateCategory(req.toInput())
	if err != nil {
		shared.RespondMappedError(c, err, taxonomyErrorRules, response.CodeInternal, "error.taxonomy_save_failed")
		return
	}
	response.Success(c, category)
}

// CreateTag 创建标签
func (h *Handler) CreateTag(c *gin.Context) {
	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	tag, err := h.TaxonomyService.CreateTag(req.toInput())
	if err != nil {
		shared.RespondMappedError(c, err, taxonomyErrorRules, response.CodeInternal, "error.taxonomy_save_failed")
		return
	}
	response.Success(c, tag)
}
