package service

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrSlugExists            = errors.New("slug already exists")
	ErrPostInvalid           = errors.New("post is invalid")
	ErrCategoryRequired      = errors.New("at least one category is required")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrTagNotFound           = errors.New("tag not found")
	ErrCategorySlugExists    = errors.New("category slug already exists")
	ErrTagSlugExists         = errors.New("tag slug already exists")
	ErrTaxonomyInvalid       = errors.New("category or tag is invalid")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAdminExists           = errors.New("admin username already exists")
	ErrWeakPassword          = errors.New("password does not meet policy")
	ErrEditorSessionNotFound = errors.New("editor session not found")
	ErrEditorStepInvalid     = errors.New("editor step out of range")
	ErrPostLocked            = errors.New("post is being edited in another session")
	ErrScheduleInvalid       = errors.New("schedule time is invalid")
	ErrScheduleUnavailable   = errors.New("scheduled publishing is disabled")
	ErrCaptchaRequired       = errors.New("captcha required")
	ErrCaptchaInvalid        = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid  = errors.New("captcha config invalid")
	ErrCaptchaVerifyFailed   = errors.New("captcha verify failed")
)
