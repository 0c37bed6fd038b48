package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流维度（不含前缀），返回空串时退化为客户端 IP
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

func (r RateLimitRule) active() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(dimension string) string {
	if r.Prefix == "" {
		return dimension
	}
	return r.Prefix + ":" + dimension
}

// 计数与过期在同一脚本内完成，首个请求开启窗口
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("TTL", KEYS[1])}
`)

var errRateLimitReply = errors.New("unexpected rate limit script reply")

// windowUsage 当前窗口内的请求计数与剩余秒数
type windowUsage struct {
	count      int64
	ttlSeconds int64
}

func hitWindow(ctx context.Context, client *redis.Client, key string, windowSeconds int) (windowUsage, error) {
	reply, err := fixedWindowScript.Run(ctx, client, []string{key}, windowSeconds).Int64Slice()
	if err != nil {
		return windowUsage{}, err
	}
	if len(reply) < 2 {
		return windowUsage{}, errRateLimitReply
	}
	return windowUsage{count: reply[0], ttlSeconds: reply[1]}, nil
}

// RateLimitMiddleware Redis 固定窗口限流；未配置 Redis 时放行，Redis 故障时返回 503
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	messageKey := strings.TrimSpace(rule.MessageKey)
	if messageKey == "" {
		messageKey = "error.too_many_requests"
	}
	return func(c *gin.Context) {
		if client == nil || !rule.active() {
			c.Next()
			return
		}

		dimension := ""
		if keyFunc != nil {
			dimension = strings.TrimSpace(keyFunc(c))
		}
		if dimension == "" {
			dimension = c.ClientIP()
		}

		usage, err := hitWindow(c.Request.Context(), client, rule.key(dimension), rule.WindowSeconds)
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "prefix", rule.Prefix, "error", err)
			abortWithError(c, response.CodeUnavailable, "error.rate_limit_unavailable")
			return
		}

		remaining := int64(rule.MaxRequests) - usage.count
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(remaining, 0), 10))
		if remaining >= 0 {
			c.Next()
			return
		}

		retryAfter := usage.ttlSeconds
		if retryAfter < 1 {
			retryAfter = int64(max(rule.WindowSeconds, 1))
		}
		c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		msg := fmt.Sprintf("%s (retry after %ds)", handlershared.Message(messageKey), retryAfter)
		response.Error(c, response.CodeTooManyRequests, msg)
		c.Abort()
	}
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndParam 按路径参数（如购物车 ID）+ IP 限流
func KeyByIPAndParam(name string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		return joinDimension(c.Param(name), c.ClientIP())
	}
}

// KeyByIPAndJSONField 按请求体 JSON 字段（如邮箱）+ IP 限流，读取后恢复请求体
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		return joinDimension(peekJSONString(c, field), c.ClientIP())
	}
}

func joinDimension(value, ip string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ip
	}
	return value + "|" + ip
}

func peekJSONString(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload[field], &text); err != nil {
		return ""
	}
	return text
}
