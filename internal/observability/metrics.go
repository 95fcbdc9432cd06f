// Package observability provides Prometheus collectors for domain events.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsEnqueued counts subscriber notifications handed to the task queue.
	NotificationsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guildboard_notifications_enqueued_total",
		Help: "Total number of subscriber notifications enqueued",
	})

	// NotificationFallbackSends counts notifications sent synchronously because enqueueing failed.
	NotificationFallbackSends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guildboard_notification_fallback_sends_total",
		Help: "Total number of notifications sent synchronously after an enqueue failure",
	})

	// EmailsSent counts outbound emails by kind (post_created, response_accepted, weekly_digest, verification).
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildboard_emails_sent_total",
		Help: "Total number of emails sent by kind",
	}, []string{"kind"})

	// EmailSendErrors counts failed email sends by kind.
	EmailSendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildboard_email_send_errors_total",
		Help: "Total number of failed email sends by kind",
	}, []string{"kind"})

	// DigestRuns counts weekly digest job executions.
	DigestRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guildboard_digest_runs_total",
		Help: "Total number of weekly digest job executions",
	})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildboard_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
