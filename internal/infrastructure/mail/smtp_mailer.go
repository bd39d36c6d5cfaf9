package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	appmail "github.com/jhoicas/albaranes-api/internal/application/mail"
	"github.com/jhoicas/albaranes-api/pkg/config"
)

var _ appmail.Mailer = (*SMTPMailer)(nil)

// SMTPMailer envía emails vía SMTP con gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer construye el transporte SMTP.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send abre una conexión por mensaje. ctx solo se consulta antes de enviar.
func (m *SMTPMailer) Send(ctx context.Context, msg appmail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	} else {
		gm.SetBody("text/html", msg.HTML)
	}
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp: enviar a %s: %w", msg.To, err)
	}
	return nil
}
