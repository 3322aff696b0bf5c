package admin

import (
	"errors"

	"github.com/inkfolio/internal/http/handlers/shared"
	"github.com/inkfolio/internal/http/response"
	"github.com/inkfolio/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	shared.RespondError(c, code, key, err)
}

var postErrorRules = []shared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.post_not_found"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeBadRequest, Key: "error.category_not_found"},
	{Target: service.ErrTagNotFound, Code: response.CodeBadRequest, Key: "error.tag_not_found"},
	{Target: service.ErrScheduleInvalid, Code: response.CodeBadRequest, Key: "error.schedule_invalid"},
	{Target: service.ErrScheduleUnavailable, Code: response.CodeUnavailable, Key: "error.schedule_unavailable"},
	{Target: service.ErrPostLocked, Code: response.CodeLocked, Key: "error.post_locked"},
}

var editorErrorRules = append([]shared.MappedError{
	{Target: service.ErrEditorSessionNotFound, Code: response.CodeNotFound, Key: "error.editor_session_not_found"},
	{Target: service.ErrEditorStepInvalid, Code: response.CodeBadRequest, Key: "error.editor_step_invalid"},
}, postErrorRules...)

var taxonomyErrorRules = []shared.MappedError{
	{Target: service.ErrCategorySlugExists, Code: response.CodeConflict, Key: "error.category_slug_exists"},
	{Target: service.ErrTagSlugExists, Code: response.CodeConflict, Key: "error.tag_slug_exists"},
	{Target: service.ErrTaxonomyInvalid, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// respondPostError 校验失败时回传字段错误与所在步骤
func respondPostError(c *gin.Context, err error, fallbackKey string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		shared.RespondErrorWithData(c, response.CodeBadRequest, "error.post_invalid", gin.H{
			"errors": verr.Fields,
			"step":   verr.Step,
		}, nil)
		return
	}
	shared.RespondMappedError(c, err, postErrorRules, response.CodeInternal, fallbackKey)
}
