package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics 汇总应用全部指标
type Metrics struct {
	Registry *prometheus.Registry
	HTTP     *HTTPMetrics
	Store    *StoreMetrics
	Jobs     *JobMetrics
}

// New 创建独立 Registry 并注册全部指标
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Metrics{
		Registry: registry,
		HTTP:     NewHTTPMetrics(registry),
		Store:    NewStoreMetrics(registry),
		Jobs:     NewJobMetrics(registry),
	}
}

// Handler 暴露 Prometheus 文本格式
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.Registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
