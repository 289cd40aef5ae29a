package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

const (
	VerificationSubject  = "Email Verification"
	PasswordResetSubject = "Password Reset"
)

var ErrNoRecipient = errors.New("recipient address is required")

// Transport delivers a composed message
type Transport interface {
	Send(e *email.Email) error
}

// SMTPTransport sends through an SMTP relay using PLAIN auth when a user is set
type SMTPTransport struct {
	addr string
	auth smtp.Auth
}

func NewSMTPTransport(host string, port int, user, password string) *SMTPTransport {
	t := &SMTPTransport{addr: fmt.Sprintf("%s:%d", host, port)}
	if user != "" {
		t.auth = smtp.PlainAuth("", user, password, host)
	}
	return t
}

func (t *SMTPTransport) Send(e *email.Email) error {
	return e.Send(t.addr, t.auth)
}

type linkData struct {
	Link string
}

var (
	verificationHTML = template.Must(template.New("verification").Parse(
		`<p>Please verify your email by clicking the following link: <a href="{{.Link}}">Verify Email</a></p>`))
	resetHTML = template.Must(template.New("reset").Parse(
		`<p>You requested a password reset. Please reset your password by clicking the following link: <a href="{{.Link}}">Reset Password</a></p>`))
)

// Mailer sends the customer account emails. Links point at the public
// storefront under baseURL.
type Mailer struct {
	transport Transport
	from      string
	baseURL   string
	logger    *logrus.Entry
}

func NewMailer(transport Transport, from, baseURL string, logger *logrus.Logger) *Mailer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Mailer{
		transport: transport,
		from:      from,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		logger:    logger.WithField("component", "mailer"),
	}
}

// VerificationLink returns the account verification URL for token
func (m *Mailer) VerificationLink(token string) string {
	return m.baseURL + "/customer/pages/verify?token=" + url.QueryEscape(token)
}

// ResetLink returns the password reset URL for token
func (m *Mailer) ResetLink(token string) string {
	return m.baseURL + "/customer/pages/reset?token=" + url.QueryEscape(token)
}

func (m *Mailer) SendVerification(ctx context.Context, to, token string) error {
	link := m.VerificationLink(token)
	text := "Please verify your email by clicking the following link: " + link
	return m.send(ctx, to, VerificationSubject, text, verificationHTML, link)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, token string) error {
	link := m.ResetLink(token)
	text := "You requested a password reset. Please reset your password by clicking the following link: " + link
	return m.send(ctx, to, PasswordResetSubject, text, resetHTML, link)
}

func (m *Mailer) send(ctx context.Context, to, subject, text string, tmpl *template.Template, link string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var html bytes.Buffer
	if err := tmpl.Execute(&html, linkData{Link: link}); err != nil {
		return fmt.Errorf("failed to render %s email: %w", subject, err)
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(text)
	e.HTML = html.Bytes()

	if err := m.transport.Send(e); err != nil {
		m.logger.WithError(err).WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Error("Failed to send email")
		return fmt.Errorf("failed to send %s email: %w", strings.ToLower(subject), err)
	}

	m.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")
	return nil
}
