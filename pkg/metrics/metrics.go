// Package metrics provides Prometheus collectors and the /metrics endpoint.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/floresya/floresya/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the collector set for one binary.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration prometheus.Histogram

	OrdersTotal       prometheus.Counter
	PaymentsConfirmed prometheus.Counter
	CartUpdates       prometheus.Counter
	NotificationsSent prometheus.Counter
}

// New creates the collector set, namespaced per service.
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floresya",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "floresya",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		OrdersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floresya",
			Subsystem: serviceName,
			Name:      "orders_total",
			Help:      "Total orders created",
		}),
		PaymentsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floresya",
			Subsystem: serviceName,
			Name:      "payments_confirmed_total",
			Help:      "Total payments confirmed",
		}),
		CartUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floresya",
			Subsystem: serviceName,
			Name:      "cart_updates_total",
			Help:      "Total cart mutations",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floresya",
			Subsystem: serviceName,
			Name:      "notifications_sent_total",
			Help:      "Total notifications sent",
		}),
	}
}

// Register registers every collector with the default registry.
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersTotal,
		m.PaymentsConfirmed,
		m.CartUpdates,
		m.NotificationsSent,
	}

	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}
	return nil
}

// Serve starts the Prometheus HTTP endpoint in a goroutine.
func Serve(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", port)
		logger.Info(context.Background(), "Metrics endpoint started", "addr", addr, "path", path)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error(context.Background(), "Metrics endpoint failed", "error", err)
		}
	}()
}
