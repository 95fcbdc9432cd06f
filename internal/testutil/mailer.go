// Package testutil provides shared test doubles.
package testutil

import (
	"context"
	"sync"

	"guildboard/internal/mail"
)

// SentEmail records one outbound email captured by MailRecorder.
type SentEmail struct {
	Kind      string
	To        string
	PostTitle string
	Category  string
	Posts     []mail.DigestPost
	Link      string
}

// MailRecorder is a mail.Mailer that records sends instead of dialing SMTP.
// An optional Err makes every send fail.
type MailRecorder struct {
	mu   sync.Mutex
	Err  error
	Sent []SentEmail
}

func (m *MailRecorder) record(e SentEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}

func (m *MailRecorder) SendPostCreated(_ context.Context, n mail.PostNotification) error {
	return m.record(SentEmail{Kind: "post_created", To: n.Email, PostTitle: n.PostTitle})
}

func (m *MailRecorder) SendResponseAccepted(_ context.Context, to, postTitle string) error {
	return m.record(SentEmail{Kind: "response_accepted", To: to, PostTitle: postTitle})
}

func (m *MailRecorder) SendWeeklyDigest(_ context.Context, to, _, category string, posts []mail.DigestPost) error {
	return m.record(SentEmail{Kind: "weekly_digest", To: to, Category: category, Posts: posts})
}

func (m *MailRecorder) SendVerification(_ context.Context, to, _, link string) error {
	return m.record(SentEmail{Kind: "verification", To: to, Link: link})
}

// ByKind returns the recorded emails of one kind.
func (m *MailRecorder) ByKind(kind string) []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentEmail
	for _, e := range m.Sent {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
