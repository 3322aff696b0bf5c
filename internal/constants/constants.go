package constants

// 管理员角色（casbin 角色名）
const (
	RoleEditor = "editor" // 可写文章、分类、标签
	RoleViewer = "viewer" // 只读后台
)

// 后台文章状态过滤值
const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

// gin 上下文键
const (
	ContextKeyRequestID    = "request_id"
	ContextKeyAdminID      = "admin_id"
	ContextKeyAdminName    = "admin_username"
	ContextKeyAdminIsSuper = "admin_is_super"
)

// 支持的语言
const (
	LocaleEnUS    = "en-US"
	LocaleZhCN    = "zh-CN"
	DefaultLocale = LocaleEnUS
)

// 异步队列
const (
	QueueDefault    = "default"
	TaskPostPublish = "blog:post:publish" // 定时发布文章
)

// 验证码
const (
	CaptchaProviderNone      = "none"
	CaptchaProviderImage     = "image"
	CaptchaProviderTurnstile = "turnstile"

	CaptchaSceneLogin = "login"
)
