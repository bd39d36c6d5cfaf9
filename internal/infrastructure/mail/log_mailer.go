package mail

import (
	"context"

	appmail "github.com/jhoicas/albaranes-api/internal/application/mail"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

var _ appmail.Mailer = (*LogMailer)(nil)

// LogMailer escribe los emails en el log en lugar de enviarlos. Para desarrollo.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.Component("mail-log")}
}

func (m *LogMailer) Send(_ context.Context, msg appmail.Message) error {
	m.log.Info().
		Str("kind", msg.Kind).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("link", msg.Text).
		Msg("email (driver log)")
	return nil
}
