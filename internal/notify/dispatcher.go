package notify

import (
	"context"

	"github.com/hibiken/asynq"

	"guildboard/internal/mail"
	"guildboard/internal/middleware"
	"guildboard/internal/models"
	"guildboard/internal/observability"
	"guildboard/internal/repository"
)

// Enqueuer is the slice of asynq.Client the dispatcher needs. It lets tests
// substitute a recording fake.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher fans out notification work. All of its methods are best-effort:
// delivery problems are logged and counted, never surfaced to the caller, so
// a broken queue or mail server cannot fail a post creation.
type Dispatcher struct {
	enqueuer   Enqueuer
	mailer     mail.Mailer
	categories repository.CategoryRepository
	posts      repository.PostRepository
	siteDomain string
}

// NewDispatcher creates a Dispatcher. enqueuer may be nil, in which case
// every notification is sent synchronously.
func NewDispatcher(enqueuer Enqueuer, mailer mail.Mailer, categories repository.CategoryRepository, posts repository.PostRepository, siteDomain string) *Dispatcher {
	return &Dispatcher{
		enqueuer:   enqueuer,
		mailer:     mailer,
		categories: categories,
		posts:      posts,
		siteDomain: siteDomain,
	}
}

// PostCreated notifies every subscriber of the post's category that a new
// post was published. Subscribers sharing an email address receive a single
// notification. Each notification is enqueued for asynchronous delivery;
// when enqueueing fails it is sent synchronously instead.
func (d *Dispatcher) PostCreated(ctx context.Context, post *models.Post) {
	subscribers, err := d.categories.Subscribers(ctx, post.CategoryID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to load category subscribers",
			"error", err, "category_id", post.CategoryID, "post_id", post.ID)
		return
	}

	seen := make(map[string]bool, len(subscribers))
	for _, sub := range subscribers {
		if sub.Email == "" || seen[sub.Email] {
			continue
		}
		seen[sub.Email] = true

		n := mail.PostNotification{
			Email:     sub.Email,
			Username:  sub.Username,
			PostTitle: post.Title,
			PostText:  post.Text,
			PostURL:   post.AbsoluteURL(d.siteDomain),
		}
		d.deliver(ctx, n)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n mail.PostNotification) {
	if d.enqueuer != nil {
		task, err := NewPostCreatedTask(n)
		if err == nil {
			if _, err = d.enqueuer.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err == nil {
				observability.NotificationsEnqueued.Inc()
				return
			}
		}
		middleware.Logger.WarnContext(ctx, "enqueue failed, sending notification synchronously",
			"error", err, "email", n.Email)
	}

	observability.NotificationFallbackSends.Inc()
	if err := d.mailer.SendPostCreated(ctx, n); err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to send post notification",
			"error", err, "email", n.Email)
	}
}
