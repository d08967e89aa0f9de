package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// SMTPConfig параметры SMTP из окружения
type SMTPConfig struct {
	Host       string
	Port       int
	Secure     bool
	Username   string
	Password   string
	FromName   string
	FromEmail  string
	SkipVerify bool
	Timeout    time.Duration
}

var ErrNoRecipient = errors.New("no recipients defined")

// SMTPSender реализует Sender поверх go-mail.
// Клиент создаётся на каждую отправку: одна SMTP-сессия на письмо.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSConfig(&tls.Config{
			ServerName:         s.cfg.Host,
			InsecureSkipVerify: s.cfg.SkipVerify, //nolint:gosec // opt-in via SMTP_TLS_SKIP_VERIFY
		}),
	}
	if s.cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}
	return mail.NewClient(s.cfg.Host, opts...)
}

func (s *SMTPSender) Verify(ctx context.Context) error {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return errors.New("smtp credentials are not configured")
	}
	c, err := s.client()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial %s:%d: %w", s.cfg.Host, s.cfg.Port, err)
	}
	return c.Close()
}

func (s *SMTPSender) messageID() string {
	domain := "localhost"
	if at := strings.LastIndex(s.cfg.FromEmail, "@"); at >= 0 && at < len(s.cfg.FromEmail)-1 {
		domain = s.cfg.FromEmail[at+1:]
	}
	return fmt.Sprintf("%s@%s", uuid.NewString(), domain)
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if strings.TrimSpace(msg.To) == "" {
		return "", ErrNoRecipient
	}
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.FromEmail); err != nil {
		return "", fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return "", fmt.Errorf("recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	id := s.messageID()
	m.SetMessageIDWithValue(id)

	c, err := s.client()
	if err != nil {
		return "", fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return "<" + id + ">", nil
}
