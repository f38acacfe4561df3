package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/mail.v2"

	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/notifications"
)

const sendTimeout = 15 * time.Second

// EmailContent is a rendered notification
type EmailContent struct {
	Subject   string
	PlainText string
	HTML      string
}

// NotificationService delivers notifications to the log and, when
// configured, by email
type NotificationService struct {
	logger *logger.Logger
	smtp   *notifications.SMTPConfig
	send   func(*mail.Message) error
}

var _ notifications.Service = (*NotificationService)(nil)

// NewNotificationService creates a notification service. A disabled SMTP
// config only logs.
func NewNotificationService(smtp notifications.SMTPConfig, logger *logger.Logger) (*NotificationService, error) {
	s := &NotificationService{logger: logger}
	if !smtp.Enabled {
		return s, nil
	}

	if err := validator.New().Struct(smtp); err != nil {
		return nil, fmt.Errorf("invalid smtp configuration: %w", err)
	}
	cfg := smtp
	s.smtp = &cfg
	s.send = s.dialAndSend
	return s, nil
}

// EmailEnabled reports whether notifications are also mailed
func (s *NotificationService) EmailEnabled() bool {
	return s.smtp != nil
}

// SendServiceDownNotification sends a notification for service downtime
func (s *NotificationService) SendServiceDownNotification(ctx context.Context, data notifications.ServiceDownData) error {
	s.logger.Warn("Service down",
		"type", notifications.NotificationTypeServiceDown,
		"service", data.Service,
		"url", data.URL,
		"failures", data.FailureCount,
		"since", data.DownSince,
		"error", data.Error,
	)
	return s.deliver(ctx, createServiceDownContent(data))
}

// SendServiceRecoveryNotification sends a notification for service recovery
func (s *NotificationService) SendServiceRecoveryNotification(ctx context.Context, data notifications.ServiceRecoveryData) error {
	s.logger.Info("Service recovered",
		"type", notifications.NotificationTypeServiceRecovery,
		"service", data.Service,
		"url", data.URL,
		"downtime", data.Downtime.String(),
		"response_time", data.ResponseTime.String(),
	)
	return s.deliver(ctx, createServiceRecoveryContent(data))
}

// SendSnapshotFailureNotification sends a notification for a failed snapshot
func (s *NotificationService) SendSnapshotFailureNotification(ctx context.Context, data notifications.SnapshotFailureData) error {
	s.logger.Error("Snapshot failed", "type", notifications.NotificationTypeSnapshotFailure, "schedule", data.Schedule, "dir", data.Dir, "error", data.Error)
	return s.deliver(ctx, createSnapshotFailureContent(data))
}

// SendTestNotification mails a test message to the configured recipients
func (s *NotificationService) SendTestNotification(ctx context.Context) error {
	if s.smtp == nil {
		return fmt.Errorf("email notifications are not enabled")
	}
	s.logger.Info("Sending test notification", "type", notifications.NotificationTypeTest, "to", strings.Join(s.smtp.To, ","))
	content := EmailContent{
		Subject: "Test Email from Tata",
		PlainText: `This is a test email to verify your SMTP configuration is working correctly.

If you're seeing this, your email configuration is working!`,
		HTML: `<html>
	<body>
		<h2>Tata Email Test</h2>
		<p>This is a test email to verify your SMTP configuration is working correctly.</p>
		<p style="color: green;">If you're seeing this, your email configuration is working!</p>
	</body>
</html>`,
	}
	return s.deliver(ctx, content)
}

func (s *NotificationService) deliver(ctx context.Context, content EmailContent) error {
	if s.smtp == nil {
		return nil
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.smtp.From)
	m.SetHeader("To", s.smtp.To...)
	m.SetHeader("Subject", content.Subject)
	m.SetBody("text/plain", content.PlainText)
	m.AddAlternative("text/html", content.HTML)

	done := make(chan error, 1)
	go func() {
		done <- s.send(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error("Failed to send notification email", "subject", content.Subject, "error", err)
			return fmt.Errorf("failed to send email: %w", err)
		}
		s.logger.Debug("Sent notification email", "subject", content.Subject, "to", strings.Join(s.smtp.To, ","))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(sendTimeout):
		return fmt.Errorf("timeout sending email after %s", sendTimeout)
	}
}

func (s *NotificationService) dialAndSend(m *mail.Message) error {
	d := mail.NewDialer(s.smtp.Host, s.smtp.Port, s.smtp.Username, s.smtp.Password)
	d.TLSConfig = &tls.Config{ServerName: s.smtp.Host}
	d.Timeout = sendTimeout
	if s.smtp.TLS {
		d.SSL = true
	} else {
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}
	return d.DialAndSend(m)
}

func createServiceDownContent(data notifications.ServiceDownData) EmailContent {
	plainText := fmt.Sprintf(`Service Downtime Detected

A Tata service is failing its health check.

Details:
- Service: %s
- URL: %s
- Down Since: %s
- Consecutive Failures: %d
- Error: %s

Please check the service immediately.`,
		data.Service, data.URL, data.DownSince.Format(time.RFC3339), data.FailureCount, data.Error)

	html := fmt.Sprintf(`<html>
	<body>
		<h2 style="color: #ff4444;">Service Downtime Alert</h2>
		<p>A Tata service is failing its health check.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>URL:</strong> %s</li>
			<li><strong>Down Since:</strong> %s</li>
			<li><strong>Consecutive Failures:</strong> %d</li>
		</ul>
		<p style="font-family: monospace; white-space: pre-wrap;">%s</p>
	</body>
</html>`,
		data.Service, data.URL, data.DownSince.Format(time.RFC3339), data.FailureCount, data.Error)

	return EmailContent{
		Subject:   fmt.Sprintf("Service Down Alert - %s", data.Service),
		PlainText: plainText,
		HTML:      html,
	}
}

func createServiceRecoveryContent(data notifications.ServiceRecoveryData) EmailContent {
	plainText := fmt.Sprintf(`Service Recovery Detected

A Tata service has recovered and is passing its health check.

Details:
- Service: %s
- URL: %s
- Down Since: %s
- Recovered At: %s
- Downtime: %s
- Response Time: %s`,
		data.Service, data.URL, data.DownSince.Format(time.RFC3339),
		data.RecoveredAt.Format(time.RFC3339), data.Downtime, data.ResponseTime)

	html := fmt.Sprintf(`<html>
	<body>
		<h2 style="color: green;">Service Recovery</h2>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>URL:</strong> %s</li>
			<li><strong>Down Since:</strong> %s</li>
			<li><strong>Recovered At:</strong> %s</li>
			<li><strong>Downtime:</strong> %s</li>
			<li><strong>Response Time:</strong> %s</li>
		</ul>
	</body>
</html>`,
		data.Service, data.URL, data.DownSince.Format(time.RFC3339),
		data.RecoveredAt.Format(time.RFC3339), data.Downtime, data.ResponseTime)

	return EmailContent{
		Subject:   fmt.Sprintf("Service Recovery: %s", data.Service),
		PlainText: plainText,
		HTML:      html,
	}
}

func createSnapshotFailureContent(data notifications.SnapshotFailureData) EmailContent {
	plainText := fmt.Sprintf(`Template Snapshot Failed

Schedule: %s
Directory: %s
Failed At: %s
Error: %s`,
		data.Schedule, data.Dir, data.FailedAt.Format(time.RFC3339), data.Error)

	html := fmt.Sprintf(`<html>
	<body>
		<h2 style="color: #ff4444;">Template Snapshot Failed</h2>
		<ul>
			<li><strong>Schedule:</strong> %s</li>
			<li><strong>Directory:</strong> %s</li>
			<li><strong>Failed At:</strong> %s</li>
		</ul>
		<p style="font-family: monospace; white-space: pre-wrap;">%s</p>
	</body>
</html>`,
		data.Schedule, data.Dir, data.FailedAt.Format(time.RFC3339), data.Error)

	return EmailContent{
		Subject:   "Template Snapshot Failed",
		PlainText: plainText,
		HTML:      html,
	}
}
