package deliver

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

// Message is the fully rendered outbound mail handed to a Transport.
type Message struct {
	From           string
	To             string
	Subject        string
	Body           string
	AttachmentPath string
}

// Transport is the outbound mail capability. the production
// implementation speaks SMTP; tests record sends in memory.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type SmtpTransport struct {
	config SmtpConfig
}

func NewSmtpTransport(config SmtpConfig) SmtpTransport {
	return SmtpTransport{config: config}
}

func (t SmtpTransport) Send(ctx context.Context, msg Message) error {
	mail := email.NewEmail()
	mail.From = msg.From
	mail.To = []string{msg.To}
	mail.Subject = msg.Subject
	mail.Text = []byte(msg.Body)

	if msg.AttachmentPath != "" {
		_, err := mail.AttachFile(msg.AttachmentPath)
		if err != nil {
			return fmt.Errorf("failed to attach document: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", t.config.Server, t.config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", t.config.EmailAddress, t.config.Password, t.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	return err
}
