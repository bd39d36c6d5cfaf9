// Package mail compone los emails transaccionales y los entrega a una cola.
// El envío real ocurre en los workers, nunca dentro de la petición HTTP.
package mail

import (
	"context"
	"errors"
)

// ErrQueueFull la cola en memoria no admite más mensajes.
var ErrQueueFull = errors.New("mail: cola llena")

// Message email listo para enviar. Se serializa en JSON para las colas externas.
type Message struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Mailer transporte que entrega un mensaje (SMTP, log...).
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Queue destino de los mensajes encolados.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
}

// Receiver fuente bloqueante de mensajes para los workers.
type Receiver interface {
	Receive(ctx context.Context) (Message, error)
}

// Notifier notificaciones que emiten los casos de uso. Las implementaciones
// no devuelven error: un fallo al encolar se registra y la petición sigue.
type Notifier interface {
	EmailValidation(ctx context.Context, to, name, token string)
	PasswordReset(ctx context.Context, to, name, token string)
	CompanyInvitation(ctx context.Context, to, inviterName, companyName, token string)
}
