package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/members", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/members", "200"))
	assert.Equal(t, float64(1), count)
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/auth/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordMemberCreated(t *testing.T) {
	MembersCreatedTotal.Reset()

	RecordMemberCreated("direct")
	RecordMemberCreated("direct")
	RecordMemberCreated("lead")

	assert.Equal(t, float64(2), testutil.ToFloat64(MembersCreatedTotal.WithLabelValues("direct")))
	assert.Equal(t, float64(1), testutil.ToFloat64(MembersCreatedTotal.WithLabelValues("lead")))
}

func TestRecordTransition(t *testing.T) {
	MembershipTransitionsTotal.Reset()

	RecordTransition("freeze")

	assert.Equal(t, float64(1), testutil.ToFloat64(MembershipTransitionsTotal.WithLabelValues("freeze")))
}

func TestRecordLimitDenial(t *testing.T) {
	PlanLimitDenialsTotal.Reset()

	RecordLimitDenial("members")
	RecordLimitDenial("members")
	RecordLimitDenial("staff")

	assert.Equal(t, float64(2), testutil.ToFloat64(PlanLimitDenialsTotal.WithLabelValues("members")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PlanLimitDenialsTotal.WithLabelValues("staff")))
}

func TestRecordInvoice(t *testing.T) {
	InvoicesCreatedTotal.Reset()

	RecordInvoice("renewal")

	assert.Equal(t, float64(1), testutil.ToFloat64(InvoicesCreatedTotal.WithLabelValues("renewal")))
}

func TestRecordSweep(t *testing.T) {
	SweepRowsAffected.Reset()
	SweepRunsTotal.Reset()

	RecordSweep("locker_release", 3, nil)
	RecordSweep("locker_release", 0, nil)
	RecordSweep("locker_release", 5, errors.New("db down"))

	assert.Equal(t, float64(3), testutil.ToFloat64(SweepRowsAffected.WithLabelValues("locker_release")))
	assert.Equal(t, float64(2), testutil.ToFloat64(SweepRunsTotal.WithLabelValues("locker_release", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SweepRunsTotal.WithLabelValues("locker_release", "error")))
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("renewal_reminder", "queued")
	RecordEmail("renewal_reminder", "failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("renewal_reminder", "queued")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("renewal_reminder", "failed")))
}

func TestEmailQueueLength(t *testing.T) {
	EmailQueueLength.Set(4)
	assert.Equal(t, float64(4), testutil.ToFloat64(EmailQueueLength))

	EmailQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}

func TestRecordWalletTopUp(t *testing.T) {
	before := testutil.ToFloat64(WalletTopUpsTotal)

	RecordWalletTopUp()

	assert.Equal(t, before+1, testutil.ToFloat64(WalletTopUpsTotal))
}
