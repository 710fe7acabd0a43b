package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type attempts struct {
	mu     sync.Mutex
	window time.Duration
	byIP   map[string][]time.Time
}

// prune 丢弃窗口外的记录，返回剩余条数
func (a *attempts) prune(ip string, now time.Time) int {
	cutoff := now.Add(-a.window)
	kept := a.byIP[ip][:0]
	for _, t := range a.byIP[ip] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(a.byIP, ip)
		return 0
	}
	a.byIP[ip] = kept
	return len(kept)
}

func (a *attempts) sweep(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for ip := range a.byIP {
		a.prune(ip, now)
	}
}

// allow 窗口内不足 limit 次时记录本次并放行
func (a *attempts) allow(ip string, limit int, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.prune(ip, now) >= limit {
		return false
	}
	a.byIP[ip] = append(a.byIP[ip], now)
	return true
}

// LoginRateLimit 登录接口限流中间件
// 每个 IP 在 window 内最多 maxAttempts 次，超过返回 429
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	store := &attempts{window: window, byIP: make(map[string][]time.Time)}

	// 定期清理过期数据
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			store.sweep(now)
		}
	}()

	return func(c *gin.Context) {
		if !store.allow(c.ClientIP(), maxAttempts, time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "too many login attempts, try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
