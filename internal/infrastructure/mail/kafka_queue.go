package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	appmail "github.com/jhoicas/albaranes-api/internal/application/mail"
	"github.com/jhoicas/albaranes-api/pkg/config"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

var _ appmail.Queue = (*KafkaProducer)(nil)

var errProducerClosed = errors.New("kafka: productor cerrado")

// kafkaPending mensajes que esperan al publicador antes de devolver ErrQueueFull.
const kafkaPending = 256

// KafkaProducer publica los emails en un topic; los consume cmd/mailworker.
// Enqueue solo deja el mensaje en un buffer: la publicación corre en segundo
// plano y un broker caído nunca retiene la petición HTTP.
type KafkaProducer struct {
	writer  *kafka.Writer
	pending chan kafka.Message
	log     *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewKafkaProducer construye el writer asíncrono y arranca el publicador.
func NewKafkaProducer(cfg config.KafkaConfig, log *logger.Logger) *KafkaProducer {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("kafka")
	ctx, cancel := context.WithCancel(context.Background())
	p := &KafkaProducer{
		pending: make(chan kafka.Message, kafkaPending),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             p.completed,
	}
	go p.run()
	return p
}

// Enqueue no bloquea: serializa el mensaje y lo deja para el publicador.
func (p *KafkaProducer) Enqueue(_ context.Context, msg appmail.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("kafka: marshal: %w", err)
	}
	m := kafka.Message{Key: []byte(msg.To), Value: payload, Time: time.Now()}
	select {
	case <-p.ctx.Done():
		return errProducerClosed
	default:
	}
	select {
	case p.pending <- m:
		return nil
	default:
		return appmail.ErrQueueFull
	}
}

func (p *KafkaProducer) run() {
	defer close(p.done)
	for {
		select {
		case <-p.ctx.Done():
			return
		case m := <-p.pending:
			wctx, cancel := context.WithTimeout(p.ctx, 10*time.Second)
			// Con Async el error de entrega llega a completed; aquí solo
			// fallan la metadata del topic o el tamaño del mensaje.
			if err := p.writer.WriteMessages(wctx, m); err != nil {
				p.log.Error().Err(err).Str("to", string(m.Key)).Msg("no se pudo publicar el email")
			}
			cancel()
		}
	}
}

func (p *KafkaProducer) completed(messages []kafka.Message, err error) {
	if err == nil {
		p.log.Debug().Int("count", len(messages)).Msg("emails publicados")
		return
	}
	for _, m := range messages {
		p.log.Error().Err(err).Str("to", string(m.Key)).Msg("entrega a Kafka fallida")
	}
}

// Close detiene el publicador y cierra el writer, que vacía los lotes en curso.
// Lo que quede en el buffer se descarta.
func (p *KafkaProducer) Close() error {
	var err error
	p.once.Do(func() {
		p.cancel()
		<-p.done
		if n := len(p.pending); n > 0 {
			p.log.Warn().Int("pending", n).Msg("emails sin publicar al cerrar")
		}
		err = p.writer.Close()
	})
	return err
}

var _ appmail.Receiver = (*KafkaConsumer)(nil)

// KafkaConsumer lee emails del topic dentro de un consumer group.
type KafkaConsumer struct {
	reader *kafka.Reader
}

// NewKafkaConsumer construye el reader del grupo configurado.
func NewKafkaConsumer(cfg config.KafkaConfig) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.GroupID,
			Topic:    cfg.Topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
	}
}

// Receive lee el siguiente mensaje; con GroupID el offset se confirma automáticamente.
func (c *KafkaConsumer) Receive(ctx context.Context) (appmail.Message, error) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return appmail.Message{}, err
	}
	var msg appmail.Message
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return appmail.Message{}, fmt.Errorf("kafka: unmarshal offset %d: %w", m.Offset, err)
	}
	return msg, nil
}

// Close cierra el reader.
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
