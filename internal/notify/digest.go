package notify

import (
	"context"
	"time"

	"guildboard/internal/mail"
	"guildboard/internal/middleware"
	"guildboard/internal/observability"
)

// digestWindow is how far back the weekly digest looks for posts.
const digestWindow = 7 * 24 * time.Hour

// RunWeeklyDigest emails every category subscriber a summary of the posts
// published in their category over the past week. Categories without recent
// posts are skipped. Delivery is best-effort per subscriber; one bounced
// address does not stop the run.
func (d *Dispatcher) RunWeeklyDigest(ctx context.Context) error {
	observability.DigestRuns.Inc()
	since := time.Now().Add(-digestWindow)

	categories, err := d.categories.List(ctx)
	if err != nil {
		return err
	}

	for _, cat := range categories {
		posts, err := d.posts.ListByCategorySince(ctx, cat.ID, since)
		if err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to load recent posts for digest",
				"error", err, "category", cat.Name)
			continue
		}
		if len(posts) == 0 {
			continue
		}

		items := make([]mail.DigestPost, 0, len(posts))
		for _, p := range posts {
			items = append(items, mail.DigestPost{
				Title:     p.Title,
				URL:       p.AbsoluteURL(d.siteDomain),
				CreatedAt: p.CreatedAt,
			})
		}

		subscribers, err := d.categories.Subscribers(ctx, cat.ID)
		if err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to load subscribers for digest",
				"error", err, "category", cat.Name)
			continue
		}

		seen := make(map[string]bool, len(subscribers))
		for _, sub := range subscribers {
			if sub.Email == "" || seen[sub.Email] {
				continue
			}
			seen[sub.Email] = true

			if err := d.mailer.SendWeeklyDigest(ctx, sub.Email, sub.Username, cat.Name, items); err != nil {
				middleware.Logger.ErrorContext(ctx, "failed to send weekly digest",
					"error", err, "email", sub.Email, "category", cat.Name)
			}
		}
	}
	return nil
}
