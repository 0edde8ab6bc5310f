package redis

import (
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestReleaseSucceeded(t *testing.T) {
	t.Run("无错误视为成功", func(t *testing.T) {
		assert.True(t, releaseSucceeded(nil))
	})

	t.Run("键不存在视为成功", func(t *testing.T) {
		// 锁已过期或不属于自己，释放没有副作用
		assert.True(t, releaseSucceeded(redis.Nil))
	})

	t.Run("其它错误视为失败", func(t *testing.T) {
		assert.False(t, releaseSucceeded(errors.New("connection refused")))
	})
}
