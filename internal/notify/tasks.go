// Package notify fans out post notifications and the weekly digest through
// a Redis-backed task queue, falling back to synchronous delivery when the
// queue is unreachable.
package notify

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"guildboard/internal/mail"
)

const (
	// TypePostCreated delivers one new-post notification email.
	TypePostCreated = "notify:post_created"
	// TypeWeeklyDigest triggers the weekly per-category digest run.
	TypeWeeklyDigest = "digest:weekly"
)

// NewPostCreatedTask builds a task carrying one subscriber's notification.
func NewPostCreatedTask(n mail.PostNotification) (*asynq.Task, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePostCreated, payload), nil
}

// NewWeeklyDigestTask builds the digest trigger task. It carries no payload;
// the handler derives the window from the clock.
func NewWeeklyDigestTask() *asynq.Task {
	return asynq.NewTask(TypeWeeklyDigest, nil)
}
