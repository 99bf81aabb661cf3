package service

import (
	"bytes"
	"context"
	"html/template"

	"linx/social-api/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier delivers an HTML email
type Notifier interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SMTPNotifier sends mail through the configured SMTP server
type SMTPNotifier struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPNotifier(c config.Mail) *SMTPNotifier {
	return &SMTPNotifier{
		from:   c.Sender,
		dialer: gomail.NewDialer(c.Host, c.Port, c.Sender, c.Password),
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	return n.dialer.DialAndSend(m)
}

// LogNotifier only logs outgoing mail. Used when no SMTP server is set up.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, to, subject, _ string) error {
	zap.L().Info("Mail not sent, SMTP is not configured",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	return nil
}

// NewNotifier picks the SMTP notifier when mail is configured
func NewNotifier(c config.Mail) Notifier {
	if c.Enabled() {
		return NewSMTPNotifier(c)
	}

	return LogNotifier{}
}

const (
	resetSubject  = "Reset your password"
	verifySubject = "Verify your email address"
)

var (
	resetTmpl = template.Must(template.New("reset").Parse(
		`<p>Hi {{.Name}},</p>` +
			`<p>Someone asked to reset the password of your account. Click <a href="{{.Link}}">here</a> to choose a new one.</p>` +
			`<p>This link will expire in 15 minutes. If it wasn't you, ignore this email.</p>`))

	verifyTmpl = template.Must(template.New("verify").Parse(
		`<p>Hi {{.Name}},</p>` +
			`<p>Click <a href="{{.Link}}">here</a> to verify your email address.</p>` +
			`<p>This link will expire in 30 minutes.</p>`))
)

type mailData struct {
	Name string
	Link string
}

func render(t *template.Template, name, link string) string {
	var b bytes.Buffer
	if err := t.Execute(&b, mailData{Name: name, Link: link}); err != nil {
		// Only fails on a broken template, which Must already rules out
		zap.L().Error("Failed to render mail", zap.String("template", t.Name()), zap.Error(err))
	}

	return b.String()
}

func resetMail(name, link string) string {
	return render(resetTmpl, name, link)
}

func verifyMail(name, link string) string {
	return render(verifyTmpl, name, link)
}
