package routes

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mailbox-locator/app/responses"
	"github.com/mailbox-locator/helpers/utils"
	"golang.org/x/time/rate"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"

	maxTrackedClients = 10000
	limiterIdleTTL    = 10 * time.Minute
)

// RequestID gắn request id (giữ lại id client gửi lên nếu là UUID hợp lệ)
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !utils.IsUUID(id) {
			id = utils.GenerateUUID()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// clientLimiters token bucket riêng cho từng client IP.
// IP không gửi request quá idleTTL hoặc vượt quá size thì bị loại.
type clientLimiters struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

func newClientLimiters(rps rate.Limit, burst, size int, idleTTL time.Duration) *clientLimiters {
	return &clientLimiters{
		limiters: expirable.NewLRU[string, *rate.Limiter](size, nil, idleTTL),
		rps:      rps,
		burst:    burst,
	}
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	l, ok := cl.limiters.Get(ip)
	if !ok {
		l = rate.NewLimiter(cl.rps, cl.burst)
	}
	// Add lại để gia hạn TTL
	cl.limiters.Add(ip, l)
	return l
}

// RateLimit giới hạn số request theo client IP; rps <= 0 là tắt giới hạn
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	cl := newClientLimiters(rate.Limit(rps), burst, maxTrackedClients, limiterIdleTTL)

	return func(c *gin.Context) {
		if !cl.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, responses.ErrorResponse{
				Error:     "RATE_LIMITED",
				Message:   "Quá nhiều request, vui lòng thử lại sau",
				Timestamp: time.Now().Format(time.RFC3339),
				RequestID: c.GetString(requestIDKey),
			})
			return
		}
		c.Next()
	}
}
