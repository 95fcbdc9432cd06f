package mail

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func renderPostCreated(n PostNotification) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, "post_created.html", n); err != nil {
		return "", fmt.Errorf("render post_created: %w", err)
	}
	return sb.String(), nil
}

func renderWeeklyDigest(username, category string, posts []DigestPost) (string, error) {
	var sb strings.Builder
	data := struct {
		Username string
		Category string
		Posts    []DigestPost
	}{username, category, posts}
	if err := templates.ExecuteTemplate(&sb, "weekly_digest.html", data); err != nil {
		return "", fmt.Errorf("render weekly_digest: %w", err)
	}
	return sb.String(), nil
}

func renderVerification(username, link string) (string, error) {
	var sb strings.Builder
	data := struct {
		Username string
		Link     string
	}{username, link}
	if err := templates.ExecuteTemplate(&sb, "verify_email.html", data); err != nil {
		return "", fmt.Errorf("render verify_email: %w", err)
	}
	return sb.String(), nil
}
