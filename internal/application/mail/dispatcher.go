package mail

import (
	"context"
	"fmt"
	"html/template"

	"github.com/jhoicas/albaranes-api/pkg/logger"
)

// Tipos de mensaje.
const (
	KindValidation = "email_validation"
	KindReset      = "password_reset"
	KindInvitation = "company_invitation"
)

var _ Notifier = (*Dispatcher)(nil)

// Dispatcher implementa Notifier: renderiza la plantilla y encola el mensaje.
type Dispatcher struct {
	queue       Queue
	frontendURL string
	log         *logger.Logger
}

// NewDispatcher construye el notificador. frontendURL es la base de los enlaces.
func NewDispatcher(queue Queue, frontendURL string, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{queue: queue, frontendURL: frontendURL, log: log.Component("mail")}
}

// EmailValidation encola el enlace de validación de email.
func (d *Dispatcher) EmailValidation(ctx context.Context, to, name, token string) {
	d.dispatch(ctx, KindValidation, to, "Confirma tu email", validationTpl, templateData{
		Name: name,
		Link: link(d.frontendURL, "/validar-email", token),
	})
}

// PasswordReset encola el enlace de restablecimiento de contraseña.
func (d *Dispatcher) PasswordReset(ctx context.Context, to, name, token string) {
	d.dispatch(ctx, KindReset, to, "Restablece tu contraseña", resetTpl, templateData{
		Name: name,
		Link: link(d.frontendURL, "/reset-password", token),
	})
}

// CompanyInvitation encola la invitación a la empresa.
func (d *Dispatcher) CompanyInvitation(ctx context.Context, to, inviterName, companyName, token string) {
	d.dispatch(ctx, KindInvitation, to, fmt.Sprintf("Invitación para unirte a %s", companyName), invitationTpl, templateData{
		Inviter: inviterName,
		Company: companyName,
		Link:    link(d.frontendURL, "/aceptar-invitacion", token),
	})
}

func (d *Dispatcher) dispatch(ctx context.Context, kind, to, subject string, t *template.Template, data templateData) {
	html, err := render(t, data)
	if err != nil {
		d.log.Error().Err(err).Str("kind", kind).Msg("render de plantilla fallido")
		return
	}
	msg := Message{Kind: kind, To: to, Subject: subject, HTML: html, Text: data.Link}
	if err := d.queue.Enqueue(ctx, msg); err != nil {
		d.log.Error().Err(err).Str("kind", kind).Str("to", to).Msg("no se pudo encolar el email")
		return
	}
	d.log.Debug().Str("kind", kind).Str("to", to).Msg("email encolado")
}
