package service

import (
	"fmt"
	"strings"

	"github.com/inkfolio/internal/editor"
)

// ValidationError 文章校验失败，Fields 为字段 -> 文案，Step 为应展示错误的编辑步骤
type ValidationError struct {
	Fields map[string]string `json:"errors"`
	Step   int               `json:"step"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("post validation failed: %s", strings.Join(editor.FieldErrors(e.Fields).Keys(), ","))
}

// Unwrap 匹配 ErrPostInvalid，缺少分类时同时匹配 ErrCategoryRequired
func (e *ValidationError) Unwrap() []error {
	errs := []error{ErrPostInvalid}
	if _, ok := e.Fields[editor.FieldCategories]; ok {
		errs = append(errs, ErrCategoryRequired)
	}
	return errs
}

func newValidationError(fields editor.FieldErrors) *ValidationError {
	copied := make(map[string]string, len(fields))
	for key, msg := range fields {
		copied[key] = msg
	}
	return &ValidationError{Fields: copied, Step: int(editor.StepForErrors(fields))}
}

// fromEditorValidation 转换编辑器校验错误
func fromEditorValidation(err *editor.ValidationError) *ValidationError {
	if err == nil {
		return nil
	}
	verr := newValidationError(err.Fields)
	verr.Step = int(err.Step)
	return verr
}

// uniqueUintIDs 去重并过滤 0
func uniqueUintIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
