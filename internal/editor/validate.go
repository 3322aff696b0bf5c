package editor

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinContentLength 正文最少字符数（去除首尾空白后）
const MinContentLength = 100

// 表单字段名
const (
	FieldTitle      = "title"
	FieldSlug       = "slug"
	FieldContent    = "content"
	FieldCategories = "categories"
)

// 字段错误文案
const (
	MsgTitleRequired    = "Title is required"
	MsgSlugRequired     = "Slug is required"
	MsgSlugInvalid      = "Slug may only contain lowercase letters, numbers and single dashes"
	MsgContentRequired  = "Content is required"
	MsgContentTooShort  = "Content should be at least 100 characters"
	MsgCategoryRequired = "Please select at least one category"
)

// FieldErrors 字段 -> 错误信息
type FieldErrors map[string]string

// Keys 返回排序后的出错字段
func (e FieldErrors) Keys() []string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ValidationError 提交校验失败
type ValidationError struct {
	Fields FieldErrors
	Step   Step
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("post form invalid at step %d: %s", e.Step, strings.Join(e.Fields.Keys(), ","))
}

// Validate 完整表单校验
func Validate(form Form) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(form.Title) == "" {
		errs[FieldTitle] = MsgTitleRequired
	}
	slug := strings.TrimSpace(form.Slug)
	switch {
	case slug == "":
		errs[FieldSlug] = MsgSlugRequired
	case !ValidSlug(slug):
		errs[FieldSlug] = MsgSlugInvalid
	}
	content := strings.TrimSpace(form.Content)
	switch {
	case content == "":
		errs[FieldContent] = MsgContentRequired
	case utf8.RuneCountInString(content) < MinContentLength:
		errs[FieldContent] = MsgContentTooShort
	}
	if len(form.CategoryIDs) == 0 {
		errs[FieldCategories] = MsgCategoryRequired
	}
	return errs
}

// validateContentStep 第一步前进时只报告第一个缺失字段
func validateContentStep(form Form) FieldErrors {
	if strings.TrimSpace(form.Title) == "" {
		return FieldErrors{FieldTitle: MsgTitleRequired}
	}
	if strings.TrimSpace(form.Content) == "" {
		return FieldErrors{FieldContent: MsgContentRequired}
	}
	return nil
}

// StepForErrors 返回应展示错误的步骤：标题/slug/正文在第一步，分类在第二步
func StepForErrors(errs FieldErrors) Step {
	for _, field := range []string{FieldTitle, FieldSlug, FieldContent} {
		if _, ok := errs[field]; ok {
			return StepContent
		}
	}
	if _, ok := errs[FieldCategories]; ok {
		return StepSettings
	}
	return StepContent
}
