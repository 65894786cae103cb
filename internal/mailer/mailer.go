// Package mailer delivers account verification emails.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
)

// VerificationSubject is the subject line of the signup email.
const VerificationSubject = "Social Network email verification"

//go:embed templates/*.html
var templateFS embed.FS

var signupTemplate = template.Must(template.ParseFS(templateFS, "templates/signup.html"))

// VerificationData fills the signup email template.
type VerificationData struct {
	VerificationLink string
	FirstName        string
}

// Notifier sends outbound verification messages.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, data VerificationData, toEmail string) error
}

// RenderVerificationEmail renders the HTML body of the signup email.
func RenderVerificationEmail(data VerificationData) (string, error) {
	var buf bytes.Buffer
	if err := signupTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return buf.String(), nil
}
