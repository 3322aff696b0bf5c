package admin

import (
	"strconv"
	"strings"

	"github.com/inkfolio/internal/http/handlers/shared"
	"github.com/inkfolio/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getAdmin(c *gin.Context) (shared.AdminIdentity, bool) {
	return shared.GetAdminIdentity(c)
}

// parseIDParam 解析路径中的正整数 ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
