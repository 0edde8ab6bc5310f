package redis

import (
	"context"
	"fmt"
	"time"

	"aure-self/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// settleLockScript 仅当持有者匹配时释放锁，避免误删他人的锁
var settleLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 基于 SETNX 的轻量互斥锁
type Lock struct {
	client *Client
	key    string
	token  string
	ttl    time.Duration
}

// NewLock 创建互斥锁(未加锁状态)
func (c *Client) NewLock(key, token string, ttl time.Duration) *Lock {
	return &Lock{
		client: c,
		key:    key,
		token:  token,
		ttl:    ttl,
	}
}

// TryAcquire 尝试加锁，锁已被占用时返回 false
func (l *Lock) TryAcquire(ctx context.Context) (bool, error) {
	start := time.Now()
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	duration := time.Since(start)

	metrics.DefaultResourceMetrics.RecordRedisOperation("SETNX", err == nil, duration, l.client.service)
	if err != nil {
		metrics.DefaultResourceMetrics.RecordRedisError("operation_error", l.client.service)
		return false, fmt.Errorf("获取锁失败: %w", err)
	}
	return ok, nil
}

// Release 释放锁，仅删除自己持有的锁
func (l *Lock) Release(ctx context.Context) error {
	start := time.Now()
	err := settleLockScript.Run(ctx, l.client.Client, []string{l.key}, l.token).Err()
	duration := time.Since(start)

	metrics.DefaultResourceMetrics.RecordRedisOperation("EVAL", releaseSucceeded(err), duration, l.client.service)
	if !releaseSucceeded(err) {
		metrics.DefaultResourceMetrics.RecordRedisError("operation_error", l.client.service)
		return err
	}
	return nil
}

// releaseSucceeded redis.Nil 说明锁已过期或不属于自己，按成功处理
func releaseSucceeded(err error) bool {
	return err == nil || err == redis.Nil
}
