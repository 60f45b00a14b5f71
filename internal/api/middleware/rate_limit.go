package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"mixmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 以客戶端為單位的令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity float64
	rate     float64 // 每秒補充的令牌數
	window   time.Duration
	now      func() time.Time
}

type bucket struct {
	tokens   float64
	lastTime time.Time
}

// NewRateLimiter 創建新的限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets:  make(map[string]*bucket),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		window:   window,
		now:      time.Now,
	}
}

// Allow 檢查 key 是否允許請求
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.capacity, lastTime: now}
		rl.buckets[key] = b
	}

	// 添加新令牌
	elapsed := now.Sub(b.lastTime).Seconds()
	b.tokens = math.Min(rl.capacity, b.tokens+elapsed*rl.rate)
	b.lastTime = now

	// 檢查是否有可用令牌
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// prune 移除已補滿的桶
func (rl *RateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastTime) >= rl.window {
			delete(rl.buckets, key)
		}
	}
}

// Middleware 限流中間件，同一使用者或 IP 共用額度
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	var calls uint64
	return func(c *gin.Context) {
		key := c.GetHeader(UserIDHeader)
		if key == "" {
			key = c.ClientIP()
		}

		if !rl.Allow(key) {
			common.LogInfo("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(rl.window.Seconds()))))
			common.WriteError(c, common.ErrTooManyRequests)
			return
		}

		// 每 1000 次請求清理一次閒置的桶
		rl.mu.Lock()
		calls++
		n := calls
		rl.mu.Unlock()
		if n%1000 == 0 {
			rl.prune()
		}

		c.Next()
	}
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return NewRateLimiter(requests, window).Middleware()
}
