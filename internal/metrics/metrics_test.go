package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreMetricsCounters(t *testing.T) {
	m := New()
	m.Store.IncOrdersPlaced()
	m.Store.IncOrdersPlaced()
	m.Store.AddCartsPurged(3)
	m.Store.AddCartsPurged(0)
	m.Store.IncOrderTransition("C")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Store.ordersPlaced))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Store.cartsPurged))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Store.orderTransitions.WithLabelValues("C")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var store *StoreMetrics
	var jobs *JobMetrics
	assert.NotPanics(t, func() {
		store.IncOrdersPlaced()
		store.AddCartsPurged(1)
		jobs.Observe("purge", time.Now(), errors.New("boom"))
	})
	empty := NewStoreMetrics(nil)
	assert.NotPanics(t, func() { empty.IncOrderTransition("F") })
}

func TestJobMetricsObserve(t *testing.T) {
	m := New()
	m.Jobs.Observe("cart_purge", time.Now(), nil)
	m.Jobs.Observe("cart_purge", time.Now(), errors.New("db down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Jobs.success.WithLabelValues("cart_purge")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Jobs.failure.WithLabelValues("cart_purge")))
}

func TestHTTPMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.HTTP.Middleware())
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/42", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTP.requests.WithLabelValues("GET", "/products/:id", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "storefront_http_requests_total"))
	assert.True(t, strings.Contains(body, "storefront_orders_placed_total"))
}
