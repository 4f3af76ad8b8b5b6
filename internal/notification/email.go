// internal/notification/email.go

package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridEmailService implements email notifications using SendGrid
type SendGridEmailService struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

// NewSendGridEmailService creates a new SendGrid email service
func NewSendGridEmailService() (EmailService, error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	from := os.Getenv("SENDGRID_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	if apiKey == "" || from == "" {
		return nil, fmt.Errorf("incomplete SendGrid configuration")
	}

	if fromName == "" {
		fromName = "Tandem"
	}

	return &SendGridEmailService{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}, nil
}

// SendEmail sends a single email via SendGrid
func (s *SendGridEmailService) SendEmail(ctx context.Context, notification *EmailNotification) error {
	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail("", notification.To)

	html := notification.HTML
	if html == "" {
		rendered, err := RenderEmailTemplate(map[string]interface{}{
			"Title":   notification.Subject,
			"Content": template.HTML(template.HTMLEscapeString(notification.Body)),
		})
		if err == nil {
			html = rendered
		}
	}

	message := mail.NewSingleEmail(from, notification.Subject, to, notification.Body, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		log.Printf("Failed to send email to %s: %v", notification.To, err)
		return err
	}

	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: status %d", notification.To, resp.StatusCode)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	log.Printf("Successfully sent email to %s", notification.To)
	return nil
}

// SendBatchEmails sends multiple emails via SendGrid
func (s *SendGridEmailService) SendBatchEmails(ctx context.Context, notifications []*EmailNotification) error {
	for _, notification := range notifications {
		if err := s.SendEmail(ctx, notification); err != nil {
			log.Printf("Failed to send email in batch: %v", err)
			// Continue with other emails
		}
	}

	return nil
}

// MockEmailService is a mock implementation for testing
type MockEmailService struct {
	SentEmails []*EmailNotification
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{
		SentEmails: make([]*EmailNotification, 0),
	}
}

func (m *MockEmailService) SendEmail(ctx context.Context, notification *EmailNotification) error {
	m.SentEmails = append(m.SentEmails, notification)
	return nil
}

func (m *MockEmailService) SendBatchEmails(ctx context.Context, notifications []*EmailNotification) error {
	for _, n := range notifications {
		m.SendEmail(ctx, n)
	}
	return nil
}

// Email templates

const baseEmailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background: linear-gradient(135deg, #e66465 0%, #9198e5 100%);
            color: white;
            padding: 30px;
            text-align: center;
            border-radius: 10px 10px 0 0;
        }
        .content {
            background: white;
            padding: 30px;
            border: 1px solid #e0e0e0;
            border-radius: 0 0 10px 10px;
        }
        .footer {
            text-align: center;
            padding: 20px;
            color: #666;
            font-size: 14px;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Title}}</h1>
    </div>
    <div class="content">
        {{.Content}}
    </div>
    <div class="footer">
        <p>&copy; 2026 Tandem. All rights reserved.</p>
        <p>
            <a href="{{.PreferencesURL}}">Update Preferences</a>
        </p>
    </div>
</body>
</html>
`

// RenderEmailTemplate renders the base email template with data
func RenderEmailTemplate(data map[string]interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(baseEmailTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
