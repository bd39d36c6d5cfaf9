package mail

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/albaranes-api/pkg/logger"
)

const receiveBackoff = time.Second

// Worker consume mensajes de un Receiver y los entrega con un Mailer.
type Worker struct {
	receiver Receiver
	mailer   Mailer
	workers  int
	log      *logger.Logger
}

// NewWorker construye el pool. workers < 1 se trata como 1.
func NewWorker(receiver Receiver, mailer Mailer, workers int, log *logger.Logger) *Worker {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Worker{receiver: receiver, mailer: mailer, workers: workers, log: log.Component("mail-worker")}
}

// Run arranca las goroutines y bloquea hasta que ctx se cancela y todas terminan.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.loop(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context, id int) {
	for {
		msg, err := w.receiver.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			w.log.Warn().Err(err).Int("worker", id).Msg("error leyendo de la cola")
			select {
			case <-ctx.Done():
				return
			case <-time.After(receiveBackoff):
			}
			continue
		}
		if err := w.mailer.Send(ctx, msg); err != nil {
			w.log.Error().Err(err).Int("worker", id).Str("kind", msg.Kind).Str("to", msg.To).Msg("envío de email fallido")
			continue
		}
		w.log.Info().Int("worker", id).Str("kind", msg.Kind).Str("to", msg.To).Msg("email enviado")
	}
}
