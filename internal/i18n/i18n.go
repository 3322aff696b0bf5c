package i18n

import (
	"fmt"
	"strings"

	"github.com/inkfolio/internal/constants"

	"github.com/gin-gonic/gin"
)

// T 按语言取文案，缺失时依次回退到默认语言与 key 本身
func T(locale, key string) string {
	if table, ok := catalog[normalizeLocale(locale)]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[constants.DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 取文案并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale 依次读取 ?lang= 与 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return constants.DefaultLocale
	}
	if locale := normalizeLocale(c.Query("lang")); locale != "" {
		return locale
	}
	return ParseAcceptLanguage(c.GetHeader("Accept-Language"))
}

// ParseAcceptLanguage 选出第一个受支持的语言
func ParseAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if locale := normalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return constants.DefaultLocale
}

func normalizeLocale(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(lower, "zh"):
		return constants.LocaleZhCN
	case strings.HasPrefix(lower, "en"):
		return constants.LocaleEnUS
	default:
		return ""
	}
}
