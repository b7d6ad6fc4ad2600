package middleware

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Mrkivi24/onlycats/internal/platform/redisx"
	"github.com/Mrkivi24/onlycats/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen atomicTime
}

// atomicTime lastSeen 会被并发请求更新
type atomicTime struct {
	mu sync.Mutex
	t  time.Time
}

func (a *atomicTime) Store(t time.Time) {
	a.mu.Lock()
	a.t = t
	a.mu.Unlock()
}

func (a *atomicTime) Load() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.t
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen.Store(time.Now())
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen.Store(time.Now())
		return c.limiter
	}

	c := &client{limiter: rate.NewLimiter(i.r, i.b)}
	c.lastSeen.Store(time.Now())
	i.ips.Store(ip, c)

	return c.limiter
}

// Allow 判断该 IP 是否还有可用令牌。
func (i *IPRateLimiter) Allow(ip string) bool {
	return i.getLimiter(ip).Allow()
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.ips.Range(func(key, value any) bool {
			client := value.(*client)
			if time.Since(client.lastSeen.Load()) > 3*time.Minute {
				i.ips.Delete(key)
			}
			return true
		})
	}
}

// RateLimitOptions 单个路由组的限流参数。
type RateLimitOptions struct {
	// Scope 区分不同路由组的计数，例如 like、upload
	Scope string
	RPS   float64
	Burst int
	// Redis 非空时多实例共享计数，出错时回退到内存令牌桶
	Redis     *redis.Client
	KeyPrefix string
}

// errNoRedisWindow 参数无法换算成固定窗口（不补充令牌或突发为 0），只能交给内存令牌桶。
var errNoRedisWindow = errors.New("rate limit parameters have no fixed window")

// RateLimitMiddleware 按客户端 IP 限流。
// rps 非正时令牌不补充，两种实现都按"总共 burst 次"处理，统一由内存令牌桶负责。
func RateLimitMiddleware(opts RateLimitOptions) gin.HandlerFunc {
	limiter := NewIPRateLimiter(rate.Limit(opts.RPS), opts.Burst)
	useRedis := opts.Redis != nil && opts.RPS > 0 && opts.Burst > 0

	return func(c *gin.Context) {
		ip := utils.NormalizeClientIdentity(c.ClientIP())

		allowed := true
		handled := false
		if useRedis {
			key := redisx.Key(opts.KeyPrefix, "rate", opts.Scope, ip)
			ok, err := allowByRedisRateLimit(c.Request.Context(), opts.Redis, key, opts.RPS, opts.Burst)
			if err != nil {
				log.Warn().Err(err).Str("scope", opts.Scope).Msg("Redis 限流失败，回退到内存限流")
			} else {
				allowed, handled = ok, true
			}
		}
		if !handled {
			allowed = limiter.Allow(ip)
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "请求过于频繁，请稍后再试"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// allowByRedisRateLimit 固定窗口计数：窗口长度为 burst/rps，窗口内最多 burst 次。
// rps 或 burst 非正时返回 errNoRedisWindow。
func allowByRedisRateLimit(ctx context.Context, client *redis.Client, key string, rps float64, burst int) (bool, error) {
	if rps <= 0 || burst <= 0 {
		return false, errNoRedisWindow
	}
	window := time.Duration(math.Ceil(float64(burst) / rps * float64(time.Second)))
	if window < time.Millisecond {
		window = time.Millisecond
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	key = key + ":" + strconv.FormatInt(time.Now().UnixNano()/int64(window), 10)
	pipe := client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.PExpire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(burst), nil
}
