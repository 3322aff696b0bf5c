package admin

import (
	"time"

	"github.com/inkfolio/internal/authz"
	"github.com/inkfolio/internal/constants"
	"github.com/inkfolio/internal/http/handlers/shared"
	"github.com/inkfolio/internal/http/response"
	"github.com/inkfolio/internal/i18n"
	"github.com/inkfolio/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username       string                       `json:"username" binding:"required"`
	Password       string                       `json:"password" binding:"required"`
	CaptchaPayload service.CaptchaVerifyPayload `json:"captcha_payload"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

var authErrorRules = []shared.MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
}

var captchaErrorRules = []shared.MappedError{
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeInternal, Key: "error.captcha_config_invalid"},
}

// GetLoginCaptcha 获取登录验证码
func (h *Handler) GetLoginCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.Challenge(constants.CaptchaSceneLogin)
	if err != nil {
		shared.RespondMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.captcha_unavailable")
		return
	}
	response.Success(c, challenge)
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.CaptchaService.Verify(c.Request.Context(), constants.CaptchaSceneLogin, req.CaptchaPayload, c.ClientIP()); err != nil {
		shared.RespondMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.captcha_verify_failed")
		return
	}

	admin, token, expiresAt, err := h.AuthService.SignIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		shared.RespondMappedError(c, err, authErrorRules, response.CodeInternal, "error.login_failed")
		return
	}
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":           admin.ID,
			"username":     admin.Username,
			"display_name": admin.DisplayName,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// AdminLogout 退出登录，使当前管理员全部 Token 失效
func (h *Handler) AdminLogout(c *gin.Context) {
	identity, ok := getAdmin(c)
	if !ok {
		return
	}
	if err := h.AuthService.SignOut(c.Request.Context(), identity.ID); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.logout"), nil)
}

// GetAdminMe 当前管理员信息
func (h *Handler) GetAdminMe(c *gin.Context) {
	identity, ok := getAdmin(c)
	if !ok {
		return
	}
	admin, err := h.AuthService.CurrentAdmin(identity.ID)
	if err != nil {
		shared.RespondMappedError(c, err, []shared.MappedError{
			{Target: service.ErrNotFound, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
		}, response.CodeInternal, "error.internal")
		return
	}
	roles := []string{}
	permissions := []authz.Policy{}
	if h.AuthzService != nil && !admin.IsSuper {
		assigned, err := h.AuthzService.GetAdminRoles(admin.ID)
		if err != nil {
			shared.RequestLog(c).Warnw("admin_roles_fetch_failed", "admin_id", admin.ID, "error", err)
		} else {
			roles = assigned
		}
		// 前端据此隐藏无权限的按钮
		effective, err := h.AuthzService.AdminPolicies(admin.ID)
		if err != nil {
			shared.RequestLog(c).Warnw("admin_policies_fetch_failed", "admin_id", admin.ID, "error", err)
		} else {
			permissions = effective
		}
	}
	response.Success(c, gin.H{
		"admin":       admin,
		"roles":       roles,
		"permissions": permissions,
	})
}
