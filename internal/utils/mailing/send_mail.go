package mailing

import (
	"SaveByte/internal/utils"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends a single message. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

type Mail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

type smtpMailer struct {
	config MailConfig
	port   int
}

func NewSMTPMailer(config MailConfig) (Mailer, error) {
	port, err := strconv.Atoi(config.SMTPPort)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port %q: %w", config.SMTPPort, err)
	}
	return &smtpMailer{config: config, port: port}, nil
}

func (m *smtpMailer) Send(ctx context.Context, mail Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	mailer.SetHeader("To", mail.To)
	mailer.SetHeader("Subject", mail.Subject)
	switch {
	case mail.HTML == "":
		mailer.SetBody("text/plain", mail.Text)
	case mail.Text != "":
		mailer.SetBody("text/plain", mail.Text)
		mailer.AddAlternative("text/html", mail.HTML)
	default:
		mailer.SetBody("text/html", mail.HTML)
	}

	if err := m.deliver(ctx, mail.To, mailer); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", ctxErr, err)
		}
		return err
	}
	return nil
}

// deliver runs one SMTP session bounded by ctx: the connection carries the
// context deadline and is closed as soon as ctx is done.
func (m *smtpMailer) deliver(ctx context.Context, to string, msg *gomail.Message) error {
	host := m.config.SMTPHost
	var dialer net.Dialer
	raw, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(m.port)))
	if err != nil {
		return err
	}
	defer raw.Close()
	stop := context.AfterFunc(ctx, func() { raw.Close() })
	defer stop()
	if deadline, ok := ctx.Deadline(); ok {
		_ = raw.SetDeadline(deadline)
	}

	conn := raw
	implicitTLS := m.port == 465
	if implicitTLS {
		conn = tls.Client(raw, &tls.Config{ServerName: host})
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok && !implicitTLS {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if m.config.SMTPEmail != "" && m.config.SMTPPassword != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", m.config.SMTPEmail, m.config.SMTPPassword, host)); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(m.config.SMTPEmail); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(w); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

type noopMailer struct{}

// NewNoopMailer is used when SMTP is not configured; every send succeeds
// without leaving the process.
func NewNoopMailer() Mailer {
	return noopMailer{}
}

func (noopMailer) Send(context.Context, Mail) error { return nil }
