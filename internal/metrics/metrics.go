package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_items_added_total",
		Help: "Total number of units added to carts",
	})

	CartAddRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_add_rejected_total",
		Help: "Total number of rejected add-to-cart attempts",
	}, []string{"reason"})

	CatalogLoadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_load_failures_total",
		Help: "Total number of failed product list loads",
	})

	CatalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_catalog_products",
		Help: "Number of products in the loaded catalog",
	})

	CheckoutsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_checkouts_completed_total",
		Help: "Total number of completed checkouts",
	})

	CheckoutRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_rejected_total",
		Help: "Total number of checkout attempts blocked by a precondition",
	}, []string{"reason"})

	PaymentFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_payment_failures_total",
		Help: "Total number of simulated payment failures",
	}, []string{"method"})

	OrderRevenue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_order_revenue_total",
		Help: "Sum of completed order totals",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
)
