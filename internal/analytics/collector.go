package analytics

import (
	"net/http"

	"foody/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recommendation outcomes
const (
	OutcomeRanked   = "ranked"
	OutcomeFallback = "fallback"
	OutcomeEmpty    = "empty"
)

// Collector owns the service's Prometheus registry
type Collector struct {
	registry        *prometheus.Registry
	orders          *prometheus.CounterVec
	orderValue      prometheus.Histogram
	recommendations *prometheus.CounterVec
	serviceRequests *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foody_orders_total",
				Help: "Orders placed, by order type",
			},
			[]string{"type"},
		),
		orderValue: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "foody_order_value",
				Help:    "Order totals including tax",
				Buckets: prometheus.LinearBuckets(100, 150, 10),
			},
		),
		recommendations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foody_recommendations_total",
				Help: "Suggestion requests, by outcome",
			},
			[]string{"outcome"},
		),
		serviceRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foody_service_requests_total",
				Help: "Table service requests, by type",
			},
			[]string{"type"},
		),
	}

	registry.MustRegister(c.orders, c.orderValue, c.recommendations, c.serviceRequests)
	return c
}

// ObserveOrder records a placed order
func (c *Collector) ObserveOrder(order models.Order) {
	c.orders.WithLabelValues(string(order.Type)).Inc()
	c.orderValue.Observe(order.Total)
}

// ObserveRecommendation records how a suggestion request was answered
func (c *Collector) ObserveRecommendation(outcome string) {
	c.recommendations.WithLabelValues(outcome).Inc()
}

// ObserveServiceRequest records a table request
func (c *Collector) ObserveServiceRequest(t models.ServiceRequestType) {
	c.serviceRequests.WithLabelValues(string(t)).Inc()
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
