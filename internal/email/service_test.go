package email

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(rdb *redis.Client, send func(Job) error) *Service {
	s := New(rdb, SMTPConfig{
		From:     "noreply@gymcore.test",
		FromName: "GymCore",
		Host:     "smtp.test.com",
		Port:     "587",
	})
	s.retryDelay = 0
	if send != nil {
		s.send = send
	}
	return s
}

func jobPayload(t *testing.T, job Job) string {
	data, err := json.Marshal(job)
	require.NoError(t, err)
	return string(data)
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db, nil)

	err := svc.Send(context.Background(), "user@example.com", "User", "Hello", "Test body")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetErr(assert.AnError)

	svc := newTestService(db, nil)

	err := svc.Send(context.Background(), "user@example.com", "User", "Hello", "Test body")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendRenewalReminder(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db, nil)

	expiry := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	err := svc.SendRenewalReminder(context.Background(), "ana@example.com", "Ana", expiry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendWelcome(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db, nil)

	err := svc.SendWelcome(context.Background(), "owner@example.com", "Olga", "Downtown")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNextDelivers(t *testing.T) {
	db, mock := redismock.NewClientMock()
	payload := jobPayload(t, Job{Type: TypeRenewalReminder, To: "ana@example.com", Subject: "Renew"})
	mock.ExpectBRPop(2*time.Second, queueKey).SetVal([]string{queueKey, payload})

	var delivered []Job
	svc := newTestService(db, func(job Job) error {
		delivered = append(delivered, job)
		return nil
	})

	svc.processNext(context.Background())

	require.Len(t, delivered, 1)
	assert.Equal(t, "ana@example.com", delivered[0].To)
	assert.Equal(t, 1, delivered[0].Tries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNextRequeuesOnFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	payload := jobPayload(t, Job{Type: TypeGeneric, To: "ana@example.com", Tries: 1})
	mock.ExpectBRPop(2*time.Second, queueKey).SetVal([]string{queueKey, payload})
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db, func(Job) error { return errors.New("connection refused") })

	svc.processNext(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNextMovesToFailedQueue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	payload := jobPayload(t, Job{Type: TypeGeneric, To: "ana@example.com", Tries: maxAttempts - 1})
	mock.ExpectBRPop(2*time.Second, queueKey).SetVal([]string{queueKey, payload})
	mock.Regexp().ExpectLPush(failedKey, `.*`).SetVal(1)

	svc := newTestService(db, func(Job) error { return errors.New("mailbox unavailable") })

	svc.processNext(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNextDropsMalformedJob(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectBRPop(2*time.Second, queueKey).SetVal([]string{queueKey, "{not json"})

	called := false
	svc := newTestService(db, func(Job) error {
		called = true
		return nil
	})

	svc.processNext(context.Background())
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen(queueKey).SetVal(5)

	svc := newTestService(db, nil)

	assert.Equal(t, int64(5), svc.QueueLength(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLengthError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen(queueKey).SetErr(assert.AnError)

	svc := newTestService(db, nil)

	assert.Equal(t, int64(0), svc.QueueLength(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
