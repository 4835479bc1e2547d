package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/leavehq/leave-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending leave notifications
type EmailService interface {
	SendLeaveRequestSubmitted(to, employeeName, leaveTypeName, startDate, endDate string, numberOfDays float64) error
	SendLeaveDecision(to, employeeName, leaveTypeName, startDate, endDate, decision string, rejectionReason *string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type leaveRequestEmailData struct {
	EmployeeName  string
	LeaveTypeName string
	StartDate     string
	EndDate       string
	NumberOfDays  float64
}

// SendLeaveRequestSubmitted notifies an HR user about a newly submitted request.
func (s *emailServiceImpl) SendLeaveRequestSubmitted(to, employeeName, leaveTypeName, startDate, endDate string, numberOfDays float64) error {
	data := leaveRequestEmailData{
		EmployeeName:  employeeName,
		LeaveTypeName: leaveTypeName,
		StartDate:     startDate,
		EndDate:       endDate,
		NumberOfDays:  numberOfDays,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_request_submitted.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("New leave request from %s", employeeName), body.String())
}

type leaveDecisionEmailData struct {
	EmployeeName    string
	LeaveTypeName   string
	StartDate       string
	EndDate         string
	Decision        string
	RejectionReason string
}

// SendLeaveDecision notifies the employee that their request was approved or rejected.
func (s *emailServiceImpl) SendLeaveDecision(to, employeeName, leaveTypeName, startDate, endDate, decision string, rejectionReason *string) error {
	data := leaveDecisionEmailData{
		EmployeeName:  employeeName,
		LeaveTypeName: leaveTypeName,
		StartDate:     startDate,
		EndDate:       endDate,
		Decision:      decision,
	}
	if rejectionReason != nil {
		data.RejectionReason = *rejectionReason
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_decision.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Your leave request was %s", decision), body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s\r\n", from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
