package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymcore_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	MembersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_members_created_total",
			Help: "Total number of members created",
		},
		[]string{"source"},
	)

	MembershipTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_membership_transitions_total",
			Help: "Membership status transitions by operation",
		},
		[]string{"operation"},
	)

	PlanLimitDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_plan_limit_denials_total",
			Help: "Creations rejected by the plan-limit guard",
		},
		[]string{"resource"},
	)

	InvoicesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_invoices_created_total",
			Help: "Total number of invoices created",
		},
		[]string{"reason"},
	)

	SweepRowsAffected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_sweep_rows_affected_total",
			Help: "Rows changed by the daily sweeps",
		},
		[]string{"job"},
	)

	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_sweep_runs_total",
			Help: "Daily sweep runs by job and outcome",
		},
		[]string{"job", "status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymcore_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymcore_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordMemberCreated(source string) {
	MembersCreatedTotal.WithLabelValues(source).Inc()
}

func RecordTransition(operation string) {
	MembershipTransitionsTotal.WithLabelValues(operation).Inc()
}

func RecordLimitDenial(resource string) {
	PlanLimitDenialsTotal.WithLabelValues(resource).Inc()
}

func RecordInvoice(reason string) {
	InvoicesCreatedTotal.WithLabelValues(reason).Inc()
}

// RecordSweep counts one run of job. affected is ignored when err is set.
func RecordSweep(job string, affected int64, err error) {
	if err != nil {
		SweepRunsTotal.WithLabelValues(job, "error").Inc()
		return
	}
	SweepRunsTotal.WithLabelValues(job, "ok").Inc()
	SweepRowsAffected.WithLabelValues(job).Add(float64(affected))
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}
