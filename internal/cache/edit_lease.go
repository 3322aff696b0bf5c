package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLeaseHeld 文章正被其他会话编辑
var ErrLeaseHeld = errors.New("edit lease held by another session")

const defaultEditLeaseTTL = 2 * time.Minute

// 仅持有者可续期/释放
var (
	releaseLeaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)
	refreshLeaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)
)

// EditLease 文章编辑租约
type EditLease struct {
	postID uint
	token  string
	ttl    time.Duration
}

// NewEditLease 创建文章编辑租约
func NewEditLease(postID uint, ttl time.Duration) *EditLease {
	if ttl <= 0 {
		ttl = defaultEditLeaseTTL
	}
	return &EditLease{postID: postID, token: uuid.NewString(), ttl: ttl}
}

func (l *EditLease) key() string {
	return buildKey(fmt.Sprintf("blog:edit_lease:%d", l.postID))
}

// Token 租约持有者标识
func (l *EditLease) Token() string {
	return l.token
}

// Acquire 获取租约
func (l *EditLease) Acquire(ctx context.Context) error {
	if !Enabled() || l.postID == 0 {
		return nil
	}
	ok, err := redisClient.SetNX(ctx, l.key(), l.token, l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrLeaseHeld
	}
	return nil
}

// Refresh 续期租约
func (l *EditLease) Refresh(ctx context.Context) error {
	if !Enabled() || l.postID == 0 {
		return nil
	}
	renewed, err := refreshLeaseScript.Run(ctx, redisClient, []string{l.key()}, l.token, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return err
	}
	if renewed == 0 {
		return ErrLeaseHeld
	}
	return nil
}

// Release 释放租约
func (l *EditLease) Release(ctx context.Context) error {
	if !Enabled() || l.postID == 0 {
		return nil
	}
	return releaseLeaseScript.Run(ctx, redisClient, []string{l.key()}, l.token).Err()
}
