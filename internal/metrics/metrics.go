package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics is safe to use through a nil pointer; every recorder then no-ops.
type Metrics struct {
	cartOps      *prometheus.CounterVec
	wishlistOps  *prometheus.CounterVec
	authAttempts *prometheus.CounterVec
	orders       prometheus.Counter
	orderTotal   prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Cart mutations that were persisted, by operation.",
		}, []string{"op"}),
		wishlistOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_wishlist_operations_total",
			Help: "Wishlist mutations that were persisted, by operation.",
		}, []string{"op"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_auth_attempts_total",
			Help: "Auth operations by operation and result.",
		}, []string{"op", "result"}),
		orders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_total",
			Help: "Orders placed.",
		}),
		orderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_order_total",
			Help:    "Order totals including shipping.",
			Buckets: []float64{250, 500, 1000, 2000, 4000, 8000, 16000},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "storefront_http_request_duration_seconds",
			Help: "HTTP request latency, simulated delays included.",
			// auth and checkout wait 0.8s and 2s on purpose
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.cartOps, m.wishlistOps, m.authAttempts, m.orders, m.orderTotal, m.httpRequests, m.httpDuration)
	return m
}

func (m *Metrics) CartOp(op string) {
	if m == nil {
		return
	}
	m.cartOps.WithLabelValues(op).Inc()
}

func (m *Metrics) WishlistOp(op string) {
	if m == nil {
		return
	}
	m.wishlistOps.WithLabelValues(op).Inc()
}

// AuthAttempt records "ok" for a nil err, otherwise the given failure label.
func (m *Metrics) AuthAttempt(op string, err error, failure string) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = failure
	}
	m.authAttempts.WithLabelValues(op, result).Inc()
}

func (m *Metrics) OrderPlaced(total float64) {
	if m == nil {
		return
	}
	m.orders.Inc()
	m.orderTotal.Observe(total)
}
