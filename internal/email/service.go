// Package email queues outbound mail on a Redis list and delivers it over
// SMTP from a background worker.
package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"gymcore/internal/logger"
	"gymcore/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey    = "emails"
	failedKey   = "emails:failed"
	maxAttempts = 3
)

const (
	TypeRenewalReminder = "renewal_reminder"
	TypeWelcome         = "welcome"
	TypeGeneric         = "generic"
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type SMTPConfig struct {
	From     string
	FromName string
	Host     string
	Port     string
	User     string
	Pass     string
}

type Service struct {
	redis      *redis.Client
	smtp       SMTPConfig
	send       func(Job) error
	retryDelay time.Duration
}

func New(rdb *redis.Client, cfg SMTPConfig) *Service {
	s := &Service{
		redis:      rdb,
		smtp:       cfg,
		retryDelay: 5 * time.Second,
	}
	s.send = s.sendSMTP
	return s
}

// Send queues a generic message.
func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	return s.enqueue(ctx, Job{Type: TypeGeneric, To: to, Name: name, Subject: subject, Body: body})
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		logger.Error("failed to marshal email job", "error", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Error("failed to queue email", "to", job.To, "type", job.Type, "error", err)
		metrics.RecordEmail(job.Type, "queue_error")
		return err
	}

	metrics.RecordEmail(job.Type, "queued")
	logger.Info("email queued", "to", job.To, "type", job.Type)
	return nil
}

// Start runs the delivery loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err)
		return
	}

	job.Tries++
	if err := s.send(job); err != nil {
		logger.Warn("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxAttempts {
			s.retry(ctx, job)
		} else {
			metrics.RecordEmail(job.Type, "failed")
			s.saveFailed(ctx, job, err)
		}
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("email sent", "to", job.To, "type", job.Type, "attempt", job.Tries)
}

func (s *Service) retry(ctx context.Context, job Job) {
	if s.retryDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(s.retryDelay):
		}
	}

	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	// The worker context may already be cancelled; the job must survive
	// shutdown.
	if err := s.redis.LPush(context.Background(), queueKey, data).Err(); err != nil {
		logger.Error("failed to requeue email", "to", job.To, "error", err)
	}
}

func (s *Service) sendSMTP(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.smtp.FromName, s.smtp.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtp.User != "" && s.smtp.Pass != "" {
		auth = smtp.PlainAuth("", s.smtp.User, s.smtp.Pass, s.smtp.Host)
	}

	addr := s.smtp.Host + ":" + s.smtp.Port
	return smtp.SendMail(addr, auth, s.smtp.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if err := s.redis.LPush(context.Background(), failedKey, data).Err(); err != nil {
		logger.Error("failed to record failed email", "to", job.To, "error", err)
		return
	}
	logger.Error("email moved to failed queue", "to", job.To, "attempts", job.Tries)
}

// QueueLength reports the pending jobs and updates the queue gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendRenewalReminder(ctx context.Context, to, name string, expiry time.Time) error {
	body := fmt.Sprintf(`Hi %s,

Your membership expires on %s.

Renew at the front desk or in the app to keep your access and benefits.

- %s`, name, expiry.Format("Jan 2, 2006"), s.smtp.FromName)

	return s.enqueue(ctx, Job{
		Type:    TypeRenewalReminder,
		To:      to,
		Name:    name,
		Subject: "Your membership expires on " + expiry.Format("Jan 2"),
		Body:    body,
	})
}

func (s *Service) SendWelcome(ctx context.Context, to, name, tenantName string) error {
	body := fmt.Sprintf(`Hi %s,

Welcome to %s! Your account is ready.

- %s`, name, tenantName, s.smtp.FromName)

	return s.enqueue(ctx, Job{
		Type:    TypeWelcome,
		To:      to,
		Name:    name,
		Subject: "Welcome to " + tenantName,
		Body:    body,
	})
}
