// Package metrics defines and registers all custom Prometheus metrics
// for the car admin portal. It is the single source of truth for metric
// names, labels, and help strings. Metrics register themselves with the
// default registry at init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carportal"

// ── Backend call metrics ─────────────────────────────────────────────────────

// BackendRequestsTotal counts calls to the inventory backend API.
// Labels:
//   - op: the logical operation (e.g. "list_cars", "upload_image")
//   - status: the HTTP status code, or "transport_error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests issued to the inventory backend.",
	},
	[]string{"op", "status"},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Image refresh metrics ────────────────────────────────────────────────────

// ImageRefreshTotal counts signed-URL refresh outcomes.
// Label:
//   - result: "ok" or "error"
var ImageRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_refresh_total",
		Help:      "Total number of signed image URL refreshes, by result.",
	},
	[]string{"result"},
)

// ── Guard metrics ────────────────────────────────────────────────────────────

// GuardRedirectsTotal counts navigations blocked by a route guard.
// Label:
//   - guard: "auth" or "admin"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of navigations redirected by a route guard.",
	},
	[]string{"guard"},
)
