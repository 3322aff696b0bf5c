package shared

import (
	"github.com/inkfolio/internal/constants"
	"github.com/inkfolio/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminIdentity 由鉴权中间件注入的当前管理员
type AdminIdentity struct {
	ID       uint
	Username string
	IsSuper  bool
}

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// GetAdminIdentity 读取当前管理员，缺失时返回 401。
func GetAdminIdentity(c *gin.Context) (AdminIdentity, bool) {
	id, ok := GetContextUintWithKeys(c, constants.ContextKeyAdminID, "error.unauthorized", "error.internal")
	if !ok {
		return AdminIdentity{}, false
	}
	if id == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return AdminIdentity{}, false
	}
	return AdminIdentity{
		ID:       id,
		Username: c.GetString(constants.ContextKeyAdminName),
		IsSuper:  c.GetBool(constants.ContextKeyAdminIsSuper),
	}, true
}
