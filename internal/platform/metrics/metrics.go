package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the registry.
type Metrics struct {
	PassesMinted  prometheus.Counter
	TokensClaimed prometheus.Counter
	PointsAwarded prometheus.Counter
	Withdrawals   prometheus.Counter
	HTTPDuration  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return newWith(prometheus.DefaultRegisterer)
}

// NewForTest registers metrics on a private registry so parallel tests do not
// collide on duplicate registration.
func NewForTest() *Metrics {
	return newWith(prometheus.NewRegistry())
}

func newWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PassesMinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "mintpass_passes_minted_total",
			Help: "Total number of passes minted",
		}),
		TokensClaimed: factory.NewCounter(prometheus.CounterOpts{
			Name: "mintpass_token_claims_total",
			Help: "Total number of successful token grant claims",
		}),
		PointsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "mintpass_points_awarded_total",
			Help: "Total reward points awarded across all passes",
		}),
		Withdrawals: factory.NewCounter(prometheus.CounterOpts{
			Name: "mintpass_withdrawals_total",
			Help: "Total number of custody withdrawals",
		}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mintpass_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncPassesMinted records one successful mint.
func (m *Metrics) IncPassesMinted() {
	if m != nil {
		m.PassesMinted.Inc()
	}
}

// IncTokensClaimed records one successful claim.
func (m *Metrics) IncTokensClaimed() {
	if m != nil {
		m.TokensClaimed.Inc()
	}
}

// AddPointsAwarded records awarded points.
func (m *Metrics) AddPointsAwarded(amount uint64) {
	if m != nil {
		m.PointsAwarded.Add(float64(amount))
	}
}

// IncWithdrawals records one custody withdrawal.
func (m *Metrics) IncWithdrawals() {
	if m != nil {
		m.Withdrawals.Inc()
	}
}
