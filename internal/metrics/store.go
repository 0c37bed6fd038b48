package metrics

import "github.com/prometheus/client_golang/prometheus"

// StoreMetrics 业务指标
type StoreMetrics struct {
	ordersPlaced      prometheus.Counter
	orderTransitions  *prometheus.CounterVec
	orderPlaceFailure prometheus.Counter
	cartsPurged       prometheus.Counter
}

// NewStoreMetrics 在指定 Registerer 上注册业务指标
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	m := &StoreMetrics{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders created from carts.",
		}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Order payment status transitions by target status.",
		}, []string{"status"}),
		orderPlaceFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_place_failures_total",
			Help:      "Order placements rolled back by a store failure.",
		}),
		cartsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carts_purged_total",
			Help:      "Stale carts removed by the purge loop.",
		}),
	}
	reg.MustRegister(m.ordersPlaced, m.orderTransitions, m.orderPlaceFailure, m.cartsPurged)
	return m
}

// IncOrdersPlaced 下单成功计数
func (m *StoreMetrics) IncOrdersPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// IncOrderPlaceFailure 下单事务失败计数
func (m *StoreMetrics) IncOrderPlaceFailure() {
	if m == nil || m.orderPlaceFailure == nil {
		return
	}
	m.orderPlaceFailure.Inc()
}

// IncOrderTransition 订单状态流转计数
func (m *StoreMetrics) IncOrderTransition(status string) {
	if m == nil || m.orderTransitions == nil {
		return
	}
	m.orderTransitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// AddCartsPurged 累加清理的购物车数量
func (m *StoreMetrics) AddCartsPurged(count int64) {
	if m == nil || m.cartsPurged == nil || count <= 0 {
		return
	}
	m.cartsPurged.Add(float64(count))
}
