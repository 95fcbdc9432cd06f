package mail

import (
	"context"
	"fmt"

	"guildboard/internal/config"
	"guildboard/internal/observability"

	gomail "github.com/wneessen/go-mail"
)

// Email kinds used for metrics labels.
const (
	kindPostCreated      = "post_created"
	kindResponseAccepted = "response_accepted"
	kindWeeklyDigest     = "weekly_digest"
	kindVerification     = "verification"
)

// SMTPMailer sends email over SMTP. Failures are returned to the caller and
// never retried here; retry policy belongs to the task queue.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer from the application configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
	}
}

func (m *SMTPMailer) send(ctx context.Context, kind, to, subject, textBody, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, textBody)
	if htmlBody != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody)
	}

	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.username),
			gomail.WithPassword(m.password),
		)
	}

	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		observability.EmailSendErrors.WithLabelValues(kind).Inc()
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		observability.EmailSendErrors.WithLabelValues(kind).Inc()
		return fmt.Errorf("send %s email to %s: %w", kind, to, err)
	}

	observability.EmailsSent.WithLabelValues(kind).Inc()
	return nil
}

// SendPostCreated emails a subscriber about a new post in their category.
func (m *SMTPMailer) SendPostCreated(ctx context.Context, n PostNotification) error {
	html, err := renderPostCreated(n)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Hello, %s. New post in your favorite section!", n.Username)
	return m.send(ctx, kindPostCreated, n.Email, n.PostTitle, text, html)
}

// SendResponseAccepted notifies a responder that the post author accepted their response.
func (m *SMTPMailer) SendResponseAccepted(ctx context.Context, to, postTitle string) error {
	text := fmt.Sprintf("Your response to post %q has been accepted by the author.", postTitle)
	return m.send(ctx, kindResponseAccepted, to, "Your response has been accepted", text, "")
}

// SendWeeklyDigest emails one subscriber the week's posts for a category.
func (m *SMTPMailer) SendWeeklyDigest(ctx context.Context, to, username, category string, posts []DigestPost) error {
	html, err := renderWeeklyDigest(username, category, posts)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Weekly posts selection in the category %q", category)
	text := fmt.Sprintf("Hello, %s! Here are the new posts in the category %q for the past week.", username, category)
	return m.send(ctx, kindWeeklyDigest, to, subject, text, html)
}

// SendVerification emails the signup confirmation link.
func (m *SMTPMailer) SendVerification(ctx context.Context, to, username, link string) error {
	html, err := renderVerification(username, link)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Hello, %s! Please confirm your email address: %s", username, link)
	return m.send(ctx, kindVerification, to, "Confirm your email address", text, html)
}
