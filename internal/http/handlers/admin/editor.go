package admin

import (
	"errors"
	"strings"

	"github.com/inkfolio/internal/editor"
	"github.com/inkfolio/internal/http/handlers/shared"
	"github.com/inkfolio/internal/http/response"
	"github.com/inkfolio/internal/service"

	"github.com/gin-gonic/gin"
)

// OpenEditorRequest 打开编辑会话请求，post_id 为空时新建
type OpenEditorRequest struct {
	PostID uint `json:"post_id"`
}

// GoToStepRequest 跳转步骤请求
type GoToStepRequest struct {
	Step int `json:"step" binding:"required"`
}

type editorAction func(adminID uint, sessionID string) (*service.EditorSnapshot, error)

// OpenEditorSession 打开编辑会话
func (h *Handler) OpenEditorSession(c *gin.Context) {
	identity, ok := getAdmin(c)
	if !ok {
		return
	}
	var req OpenEditorRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	snapshot, err := h.EditorService.Open(c.Request.Context(), identity.ID, req.PostID)
	if err != nil {
		respondEditorError(c, nil, err)
		return
	}
	response.Success(c, snapshot)
}

// GetEditorSession 获取编辑会话
func (h *Handler) GetEditorSession(c *gin.Context) {
	h.runEditorAction(c, func(adminID uint, sessionID string) (*service.EditorSnapshot, error) {
		return h.EditorService.Get(c.Request.Context(), adminID, sessionID)
	})
}

// PatchEditorSession 修改表单字段
func (h *Handler) PatchEditorSession(c *gin.Context) {
	var patch editor.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	h.runEditorAction(c, func(adminID uint, sessionID string) (*service.EditorSnapshot, error) {
		return h.EditorService.Apply(c.Request.Context(), adminID, sessionID, patch)
	})
}

// NextEditorStep 前进一步
func (h *Handler) NextEditorStep(c *gin.Context) {
	h.runEditorAction(c, func(adminID uint, sessionID string) (*service.EditorSnapshot, error) {
		return h.EditorService.Next(c.Request.Context(), adminID, sessionID)
	})
}

// PreviousEditorStep 后退一步
func (h *Handler) PreviousEditorStep(c *gin.Context) {
	h.runEditorAction(c, func(adminID uint, sessionID string) (*service.EditorSnapshot, error) {
		return h.EditorService.Previous(c.Request.Context(), adminID, sessionID)
	})
}

// GoToEditorStep 跳转到指定步骤
func (h *Handler) GoToEditorStep(c *gin.Context) {
	var req GoToStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	h.runEditorAction(c, func(adminID uint, sessionID string) (*service.EditorSnapshot, error) {
		return h.EditorService.GoToStep(c.Request.Context(), adminID, sessionID, req.Step)
	})
}

// SubmitEditorSession 保存文章并关闭会话
func (h *Handler) SubmitEditorSession(c *gin.Context) {
	h.runEditorAction(c, func(adminID uint, sessionID string) (*service.EditorSnapshot, error) {
		return h.EditorService.Submit(c.Request.Context(), adminID, sessionID)
	})
}

// CancelEditorSession 放弃编辑
func (h *Handler) CancelEditorSession(c *gin.Context) {
	identity, ok := getAdmin(c)
	if !ok {
		return
	}
	if err := h.EditorService.Cancel(c.Request.Context(), identity.ID, strings.TrimSpace(c.Param("sid"))); err != nil {
		respondEditorError(c, nil, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) runEditorAction(c *gin.Context, action editorAction) {
	identity, ok := getAdmin(c)
	if !ok {
		return
	}
	snapshot, err := action(identity.ID, strings.TrimSpace(c.Param("sid")))
	if err != nil {
		respondEditorError(c, snapshot, err)
		return
	}
	response.Success(c, snapshot)
}

// respondEditorError 校验失败时附带会话快照，便于前端回显错误与提示
func respondEditorError(c *gin.Context, snapshot *service.EditorSnapshot, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		shared.RespondErrorWithData(c, response.CodeBadRequest, "error.post_invalid", gin.H{
			"errors":  verr.Fields,
			"step":    verr.Step,
			"session": snapshot,
		}, nil)
		return
	}
	shared.RespondMappedError(c, err, editorErrorRules, response.CodeInternal, "error.post_save_failed")
}
