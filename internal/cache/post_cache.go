package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// 公开文章缓存使用代数键：写操作递增代数，旧键随 TTL 自然过期
const publicPostGenerationKey = "blog:public:gen"

func publicPostGeneration(ctx context.Context) (int64, error) {
	gen, err := redisClient.Get(ctx, buildKey(publicPostGenerationKey)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// PublicPostKey 生成带代数的公开缓存键，parts 为查询维度；未启用时返回空串
// 读取与回填需使用同一次生成的键，失效后旧代数的回填不会再被读到
func PublicPostKey(ctx context.Context, parts ...string) (string, error) {
	if !Enabled() {
		return "", nil
	}
	gen, err := publicPostGeneration(ctx)
	if err != nil {
		return "", err
	}
	return publicPostKeyFor(gen, parts...), nil
}

func publicPostKeyFor(gen int64, parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		cleaned = append(cleaned, strings.ReplaceAll(strings.TrimSpace(part), ":", "_"))
	}
	return fmt.Sprintf("blog:public:v%d:%s", gen, strings.Join(cleaned, ":"))
}

// InvalidatePublicPosts 使全部公开文章缓存失效
func InvalidatePublicPosts(ctx context.Context) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Incr(ctx, buildKey(publicPostGenerationKey)).Err()
}
