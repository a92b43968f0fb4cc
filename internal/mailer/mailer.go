package mailer

import (
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"

	"activitySignup/internal/dto"
)

type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Sender interface {
	Send(event dto.ParticipantEvent) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  Config
	log  *zerolog.Logger
	send sendFunc
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log, send: smtp.SendMail}
}

func (m *Mailer) Send(event dto.ParticipantEvent) error {
	if !m.cfg.Enabled {
		m.log.Debug().Str("email", event.Email).Str("kind", event.Kind).Msg("mailer disabled, skipping notification")
		return nil
	}

	subject, body, err := compose(event)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.cfg.From, event.Email, subject, body,
	)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	if err := m.send(addr, auth, m.cfg.From, []string{event.Email}, []byte(msg)); err != nil {
		m.log.Warn().Err(err).Str("email", event.Email).Msg("failed to send notification email")
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Str("email", event.Email).Str("kind", event.Kind).Str("activity", event.Activity).Msg("notification email sent")
	return nil
}

func compose(event dto.ParticipantEvent) (subject, body string, err error) {
	switch event.Kind {
	case dto.EventSignedUp:
		subject = fmt.Sprintf("You are signed up for %s", event.Activity)
		body = fmt.Sprintf("Hello!\n\nYou are now registered for %q.\nSchedule: %s\n\nSee you there!", event.Activity, event.Schedule)
	case dto.EventUnregistered:
		subject = fmt.Sprintf("You have left %s", event.Activity)
		body = fmt.Sprintf("Hello!\n\nYou have been removed from %q.\nYou can sign up again at any time while spots are available.", event.Activity)
	default:
		return "", "", fmt.Errorf("unknown event kind %q", event.Kind)
	}
	return subject, body, nil
}
