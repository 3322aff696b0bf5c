package editor

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxSlugLength slug 最大长度
const MaxSlugLength = 100

// WordsPerMinute 阅读速度
const WordsPerMinute = 200

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9 -]`)
	slugSpaces       = regexp.MustCompile(`\s+`)
	slugDashes       = regexp.MustCompile(`-+`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Slugify 由标题生成 slug，结果为空或满足 ^[a-z0-9]+(-[a-z0-9]+)*$ 且不超过 100 字符
func Slugify(title string) string {
	slug := strings.TrimSpace(strings.ToLower(title))
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLength {
		// 只剩 ASCII，可按字节截断
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

// ValidSlug 判断 slug 是否满足格式与长度约束
func ValidSlug(slug string) bool {
	return len(slug) <= MaxSlugLength && slugPattern.MatchString(slug)
}

// WordCount 按空白切分统计词数
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// CharCount 统计字符数（按 rune）
func CharCount(content string) int {
	return utf8.RuneCountInString(content)
}

// ReadTime 预计阅读分钟数 = max(1, ceil(词数/200))
func ReadTime(content string) int {
	minutes := int(math.Ceil(float64(WordCount(content)) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
