// Package mail renders and sends the board's outbound email.
package mail

import (
	"context"
	"time"
)

// PostNotification is the per-subscriber payload produced when a post is
// created. It carries everything the email needs so the queue worker does
// not have to read the database.
type PostNotification struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	PostTitle string `json:"post_title"`
	PostText  string `json:"post_text"`
	PostURL   string `json:"post_url"`
}

// DigestPost is one entry in a weekly digest email.
type DigestPost struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Mailer sends the board's transactional email. Implementations must be safe
// for concurrent use.
type Mailer interface {
	SendPostCreated(ctx context.Context, n PostNotification) error
	SendResponseAccepted(ctx context.Context, to, postTitle string) error
	SendWeeklyDigest(ctx context.Context, to, username, category string, posts []DigestPost) error
	SendVerification(ctx context.Context, to, username, link string) error
}
