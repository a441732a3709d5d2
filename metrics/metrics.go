package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the checkout pipeline counters. It is created once in main
// and passed to the services that record into it.
type Metrics struct {
	OrdersCreated      *prometheus.CounterVec
	CouponRejections   *prometheus.CounterVec
	PaymentsInitiated  *prometheus.CounterVec
	PaymentCallbacks   *prometheus.CounterVec
	Notifications      *prometheus.CounterVec
	ExpiredTransaction prometheus.Counter
	CheckoutDuration   prometheus.Histogram
	HTTPRequests       *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store", Subsystem: "checkout", Name: "orders_created_total",
			Help: "Orders created, by payment method.",
		}, []string{"payment_method"}),
		CouponRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store", Subsystem: "checkout", Name: "coupon_rejections_total",
			Help: "Coupon validation failures, by reason.",
		}, []string{"reason"}),
		PaymentsInitiated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store", Subsystem: "payment", Name: "initiated_total",
			Help: "Virtual POS payment attempts, by bank.",
		}, []string{"bank"}),
		PaymentCallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store", Subsystem: "payment", Name: "callbacks_total",
			Help: "Bank callbacks, by result (success, failure, duplicate, double_payment, unknown).",
		}, []string{"result"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store", Subsystem: "notify", Name: "sent_total",
			Help: "Notification attempts, by kind and result.",
		}, []string{"kind", "result"}),
		ExpiredTransaction: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "store", Subsystem: "payment", Name: "expired_transactions_total",
			Help: "Pending transactions marked expired by the sweeper.",
		}),
		CheckoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "store", Subsystem: "checkout", Name: "duration_seconds",
			Help:    "Time spent placing an order.",
			Buckets: prometheus.DefBuckets,
		}),
		HTTPRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "store", Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency, by method, route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.OrdersCreated,
		m.CouponRejections,
		m.PaymentsInitiated,
		m.PaymentCallbacks,
		m.Notifications,
		m.ExpiredTransaction,
		m.CheckoutDuration,
		m.HTTPRequests,
	)
	return m
}

// NewNop returns metrics registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
