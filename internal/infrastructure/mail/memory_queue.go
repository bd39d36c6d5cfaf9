package mail

import (
	"context"

	appmail "github.com/jhoicas/albaranes-api/internal/application/mail"
)

var (
	_ appmail.Queue    = (*MemoryQueue)(nil)
	_ appmail.Receiver = (*MemoryQueue)(nil)
)

// MemoryQueue cola en proceso sobre un canal con buffer.
type MemoryQueue struct {
	ch chan appmail.Message
}

// NewMemoryQueue crea la cola con la capacidad indicada.
func NewMemoryQueue(size int) *MemoryQueue {
	if size < 1 {
		size = 100
	}
	return &MemoryQueue{ch: make(chan appmail.Message, size)}
}

// Enqueue no bloquea: si el buffer está lleno devuelve ErrQueueFull.
func (q *MemoryQueue) Enqueue(_ context.Context, msg appmail.Message) error {
	select {
	case q.ch <- msg:
		return nil
	default:
		return appmail.ErrQueueFull
	}
}

// Receive espera el siguiente mensaje o la cancelación de ctx.
func (q *MemoryQueue) Receive(ctx context.Context) (appmail.Message, error) {
	select {
	case <-ctx.Done():
		return appmail.Message{}, ctx.Err()
	case msg := <-q.ch:
		return msg, nil
	}
}

// Len mensajes pendientes.
func (q *MemoryQueue) Len() int { return len(q.ch) }
