package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"guildboard/internal/mail"
)

// RedisConnOpt parses the configured Redis address. Plain host:port
// addresses are accepted alongside redis:// URLs, matching the cache layer.
func RedisConnOpt(addr string) (asynq.RedisConnOpt, error) {
	if !strings.Contains(addr, "://") {
		addr = "redis://" + addr
	}
	return asynq.ParseRedisURI(addr)
}

// digestCron fires every Monday at 08:00 server time.
const digestCron = "0 8 * * 1"

// NewMux returns the task router for the worker process.
func (d *Dispatcher) NewMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePostCreated, d.handlePostCreated)
	mux.HandleFunc(TypeWeeklyDigest, d.handleWeeklyDigest)
	return mux
}

func (d *Dispatcher) handlePostCreated(ctx context.Context, t *asynq.Task) error {
	var n mail.PostNotification
	if err := json.Unmarshal(t.Payload(), &n); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w: %v", TypePostCreated, asynq.SkipRetry, err)
	}
	return d.mailer.SendPostCreated(ctx, n)
}

func (d *Dispatcher) handleWeeklyDigest(ctx context.Context, _ *asynq.Task) error {
	return d.RunWeeklyDigest(ctx)
}

// RegisterDigest schedules the weekly digest trigger on the scheduler.
func RegisterDigest(s *asynq.Scheduler) error {
	_, err := s.Register(digestCron, NewWeeklyDigestTask())
	return err
}
