package service

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SMTPConfig configures the SMTP email provider.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type sendMailFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers emails through an authenticated SMTP relay.
type SMTPSender struct {
	addr     string
	host     string
	auth     smtp.Auth
	sendMail sendMailFunc
	logger   zerolog.Logger
}

// NewSMTPSender constructs an SMTP provider using PLAIN auth.
func NewSMTPSender(cfg SMTPConfig, logger zerolog.Logger) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp host and credentials are required")
	}
	port := cfg.Port
	if port <= 0 {
		port = 587
	}

	return &SMTPSender{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		host:     cfg.Host,
		auth:     smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		sendMail: smtp.SendMail,
		logger:   logger.With().Str("component", "smtp_sender").Logger(),
	}, nil
}

// Send relays the email and returns the generated Message-ID.
func (s *SMTPSender) Send(ctx context.Context, email Email) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	from, err := mail.ParseAddress(email.From)
	if err != nil {
		return "", fmt.Errorf("invalid sender address: %w", err)
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host)
	raw, err := buildMIMEMessage(email, from, messageID)
	if err != nil {
		return "", err
	}

	if err := s.sendMail(s.addr, s.auth, from.Address, email.To, raw); err != nil {
		s.logger.Error().Err(err).Str("addr", s.addr).Msg("smtp delivery failed")
		return "", fmt.Errorf("smtp send failed: %w", err)
	}

	return messageID, nil
}

func buildMIMEMessage(email Email, from *mail.Address, messageID string) ([]byte, error) {
	var body bytes.Buffer
	parts := multipart.NewWriter(&body)

	for _, part := range []struct {
		contentType string
		content     string
	}{
		{contentType: "text/plain; charset=UTF-8", content: email.Text},
		{contentType: "text/html; charset=UTF-8", content: email.HTML},
	} {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", part.contentType)
		header.Set("Content-Transfer-Encoding", "8bit")
		w, err := parts.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("create mime part: %w", err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("write mime part: %w", err)
		}
	}
	if err := parts.Close(); err != nil {
		return nil, fmt.Errorf("close mime writer: %w", err)
	}

	var msg bytes.Buffer
	writeHeader := func(key, value string) {
		msg.WriteString(key + ": " + value + "\r\n")
	}

	to := make([]string, 0, len(email.To))
	for _, addr := range email.To {
		to = append(to, (&mail.Address{Address: addr}).String())
	}

	writeHeader("From", from.String())
	writeHeader("To", strings.Join(to, ", "))
	if email.ReplyTo != "" {
		writeHeader("Reply-To", (&mail.Address{Address: email.ReplyTo}).String())
	}
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", email.Subject))
	writeHeader("Date", time.Now().UTC().Format(time.RFC1123Z))
	writeHeader("Message-ID", messageID)
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", "multipart/alternative; boundary="+parts.Boundary())
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}
