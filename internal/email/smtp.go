package email

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

var ErrNoSender = errors.New("mail sender address is empty")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
	Timeout  time.Duration
	// ResetURL is the dashboard page that completes a reset; the token is
	// appended as a query parameter.
	ResetURL string
}

type smtpService struct {
	cfg  Config
	send func(*gomail.Message) error
}

func NewSMTPService(cfg Config) (Service, error) {
	if strings.TrimSpace(cfg.From) == "" {
		return nil, ErrNoSender
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.UseTLS
	return &smtpService{cfg: cfg, send: func(m *gomail.Message) error { return d.DialAndSend(m) }}, nil
}

func (s *smtpService) SendPasswordReset(ctx context.Context, email string, token string) error {
	link := resetLink(s.cfg.ResetURL, token)
	body := fmt.Sprintf("A password reset was requested for your account.\n\nOpen %s to choose a new password. The link expires soon.\n\nIf you did not request this, ignore this email.", link)
	return s.deliver(ctx, email, "Reset your password", body)
}

func (s *smtpService) SendWelcome(ctx context.Context, email string, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour dashboard account is ready.", name)
	return s.deliver(ctx, email, "Welcome to the practice dashboard", body)
}

func (s *smtpService) deliver(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- s.send(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send %q mail: %w", subject, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.cfg.Timeout):
		return context.DeadlineExceeded
	}
}

func resetLink(base, token string) string {
	if base == "" {
		return token
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

// logService only logs outgoing mail. Used when no SMTP host is configured.
type logService struct {
	logger *zerolog.Logger
}

func NewLogService(logger *zerolog.Logger) Service {
	return &logService{logger: logger}
}

func (s *logService) SendPasswordReset(_ context.Context, email string, token string) error {
	s.logger.Info().Str("to", email).Str("token", token).Msg("password reset mail (not sent)")
	return nil
}

func (s *logService) SendWelcome(_ context.Context, email string, name string) error {
	s.logger.Info().Str("to", email).Str("name", name).Msg("welcome mail (not sent)")
	return nil
}
