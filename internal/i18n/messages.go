package i18n

import "github.com/inkfolio/internal/constants"

var catalog = map[string]map[string]string{
	constants.LocaleEnUS: {
		"error.bad_request":              "Invalid request parameters",
		"error.unauthorized":             "Unauthorized",
		"error.forbidden":                "Forbidden",
		"error.not_found":                "Resource not found",
		"error.internal":                 "Something went wrong, please try again",
		"error.jwt_secret_missing":       "Server authentication is not configured",
		"error.token_invalid":            "Invalid or expired token",
		"error.token_revoked":            "Token has been revoked, please sign in again",
		"error.auth_header_missing":      "Authorization header is missing",
		"error.auth_header_invalid":      "Authorization header must be Bearer token",
		"error.invalid_credentials":      "Invalid username or password",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a number",
		"error.password_require_special": "Password must contain a special character",
		"error.login_failed":             "Sign in failed, please try again",
		"error.rate_limit_unavailable":   "Rate limiter is unavailable, please try again later",
		"error.login_rate_limited":       "Too many attempts, please retry in %d seconds",
		"error.captcha_required":         "Please complete the captcha",
		"error.captcha_invalid":          "Captcha is incorrect or expired",
		"error.captcha_config_invalid":   "Captcha is misconfigured",
		"error.captcha_verify_failed":    "Captcha verification failed, please retry",
		"error.captcha_unavailable":      "Captcha is not available",
		"error.post_not_found":           "Post not found",
		"error.post_invalid":             "Please fix the errors before saving",
		"error.post_save_failed":         "Error saving post. Please try again.",
		"error.post_fetch_failed":        "Failed to load posts",
		"error.post_delete_failed":       "Failed to delete post",
		"error.post_locked":              "This post is being edited by someone else",
		"error.slug_exists":              "Slug is already in use",
		"error.category_not_found":       "Category not found",
		"error.tag_not_found":            "Tag not found",
		"error.category_slug_exists":     "Category slug is already in use",
		"error.tag_slug_exists":          "Tag slug is already in use",
		"error.taxonomy_fetch_failed":    "Failed to load categories and tags",
		"error.taxonomy_save_failed":     "Failed to save category or tag",
		"error.schedule_invalid":         "Scheduled time must be in the future",
		"error.schedule_unavailable":     "Scheduled publishing is not enabled",
		"error.editor_session_not_found": "Editor session not found or expired",
		"error.editor_step_invalid":      "Step must be between 1 and 3",
		"error.stats_failed":             "Failed to load dashboard stats",
		"success.post_created":           "Post created successfully!",
		"success.post_updated":           "Post updated successfully!",
		"success.post_deleted":           "Post deleted",
		"success.logout":                 "Signed out",
	},
	constants.LocaleZhCN: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "未登录",
		"error.forbidden":                "无权限",
		"error.not_found":                "资源不存在",
		"error.internal":                 "服务异常，请稍后重试",
		"error.jwt_secret_missing":       "服务端未配置认证密钥",
		"error.token_invalid":            "Token 无效或已过期",
		"error.token_revoked":            "Token 已失效，请重新登录",
		"error.auth_header_missing":      "缺少 Authorization 请求头",
		"error.auth_header_invalid":      "Authorization 格式应为 Bearer Token",
		"error.invalid_credentials":      "用户名或密码错误",
		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",
		"error.login_failed":             "登录失败，请重试",
		"error.rate_limit_unavailable":   "限流服务不可用，请稍后重试",
		"error.login_rate_limited":       "尝试次数过多，请 %d 秒后重试",
		"error.captcha_required":         "请先完成验证码",
		"error.captcha_invalid":          "验证码错误或已过期",
		"error.captcha_config_invalid":   "验证码配置错误",
		"error.captcha_verify_failed":    "验证码校验失败，请重试",
		"error.captcha_unavailable":      "验证码不可用",
		"error.post_not_found":           "文章不存在",
		"error.post_invalid":             "请先修正表单错误再保存",
		"error.post_save_failed":         "保存文章失败，请重试",
		"error.post_fetch_failed":        "获取文章失败",
		"error.post_delete_failed":       "删除文章失败",
		"error.post_locked":              "该文章正在被其他人编辑",
		"error.slug_exists":              "slug 已被占用",
		"error.category_not_found":       "分类不存在",
		"error.tag_not_found":            "标签不存在",
		"error.category_slug_exists":     "分类 slug 已被占用",
		"error.tag_slug_exists":          "标签 slug 已被占用",
		"error.taxonomy_fetch_failed":    "获取分类和标签失败",
		"error.taxonomy_save_failed":     "保存分类或标签失败",
		"error.schedule_invalid":         "定时发布时间必须晚于当前时间",
		"error.schedule_unavailable":     "未启用定时发布",
		"error.editor_session_not_found": "编辑会话不存在或已过期",
		"error.editor_step_invalid":      "步骤必须在 1 到 3 之间",
		"error.stats_failed":             "获取统计数据失败",
		"success.post_created":           "文章创建成功",
		"success.post_updated":           "文章更新成功",
		"success.post_deleted":           "文章已删除",
		"success.logout":                 "已退出登录",
	},
}
