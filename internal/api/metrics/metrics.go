// Package metrics defines and registers all custom Prometheus metrics for
// the blog API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry
// at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts successful account registrations.
// Label:
//   - role: the role assigned at registration ("user" or "admin")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful user registrations, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts refresh-token exchanges.
// Labels:
//   - result:  "success" or "failure"
//   - trigger: "endpoint" (explicit /refresh-token call) or "middleware"
//     (transparent refresh on an expired access token)
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of access-token refreshes, by result and trigger.",
	},
	[]string{"result", "trigger"},
)

// RoleDeniedTotal counts authorization rejections.
// Label:
//   - role: the role that was denied, or "no_role" when none was resolved
var RoleDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_denied_total",
		Help:      "Total number of requests rejected by the role gate.",
	},
	[]string{"role"},
)

// ── Blog metrics ──────────────────────────────────────────────────────────────

// BlogPostsCreatedTotal counts newly created blog posts.
// Label:
//   - published: "true" or "false"
var BlogPostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of blog posts created, by published state.",
	},
	[]string{"published"},
)
