package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyByIPAndJSONFieldRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":" Shopper@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	assert.Equal(t, "shopper@example.com|1.2.3.4", KeyByIPAndJSONField("email")(c))

	body, err := io.ReadAll(c.Request.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Shopper@Example.com")
}

func TestKeyByIPAndParamUsesCartID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var keys []string
	r := gin.New()
	r.POST("/carts/:id/items", func(c *gin.Context) {
		keys = append(keys, KeyByIPAndParam("id")(c))
	})
	r.POST("/carts", func(c *gin.Context) {
		keys = append(keys, KeyByIPAndParam("id")(c))
	})

	for _, path := range []string{"/carts/ABC-123/items", "/carts"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.7:4000"
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, []string{"abc-123|10.0.0.7", "10.0.0.7"}, keys)
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":true`)
	}
}

func TestRateLimitMiddlewareRedisUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	called := false
	r := gin.New()
	r.Use(RateLimitMiddleware(client, RateLimitRule{Prefix: "test", WindowSeconds: 60, MaxRequests: 5}, KeyByIP))
	r.POST("/carts", func(c *gin.Context) {
		called = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/carts", nil))
	assert.False(t, called)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeUnavailable, body.StatusCode)
}

func TestRateLimitRuleKey(t *testing.T) {
	assert.False(t, RateLimitRule{WindowSeconds: 60}.active())
	assert.True(t, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}.active())
	assert.Equal(t, "sf:rate:cart:abc|1.2.3.4", RateLimitRule{Prefix: "sf:rate:cart"}.key("abc|1.2.3.4"))
	assert.Equal(t, "1.2.3.4", RateLimitRule{}.key("1.2.3.4"))

	assert.Equal(t, "1.2.3.4", joinDimension("  ", "1.2.3.4"))
	assert.Equal(t, "abc|1.2.3.4", joinDimension(" ABC ", "1.2.3.4"))
}

func TestKeyByIPAndJSONFieldIgnoresNonString(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, body := range []string{`{"email":42}`, `not json`, ``} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		c.Request.RemoteAddr = "1.2.3.4:5678"
		assert.Equal(t, "1.2.3.4", KeyByIPAndJSONField("email")(c), body)
	}
}
