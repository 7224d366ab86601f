package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the business counters the cart and order services emit.
type Metrics struct {
	OrdersCreated    prometheus.Counter
	StockConflicts   prometheus.Counter
	CartsMigrated    prometheus.Counter
	CartLinesCleaned prometheus.Counter
}

// New registers the counters against reg. Tests pass a fresh
// prometheus.NewRegistry so packages can register independently.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopapi",
			Name:      "orders_created_total",
			Help:      "Total number of orders successfully created from carts.",
		}),
		StockConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopapi",
			Name:      "checkout_stock_conflicts_total",
			Help:      "Total number of checkouts aborted by a failed stock reservation.",
		}),
		CartsMigrated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopapi",
			Name:      "cart_lines_migrated_total",
			Help:      "Total number of cart lines moved from anonymous sessions to users.",
		}),
		CartLinesCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopapi",
			Name:      "cart_lines_cleaned_total",
			Help:      "Total number of abandoned session cart lines removed by cleanup.",
		}),
	}
	reg.MustRegister(m.OrdersCreated, m.StockConflicts, m.CartsMigrated, m.CartLinesCleaned)
	return m
}

// Handler exposes the default gatherer for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
