package mail_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmail "github.com/jhoicas/albaranes-api/internal/application/mail"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/mail"
	"github.com/jhoicas/albaranes-api/pkg/config"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

func TestMemoryQueue_FIFOYLlena(t *testing.T) {
	q := mail.NewMemoryQueue(2)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, appmail.Message{To: "a@example.com"}))
	require.NoError(t, q.Enqueue(ctx, appmail.Message{To: "b@example.com"}))
	assert.ErrorIs(t, q.Enqueue(ctx, appmail.Message{To: "c@example.com"}), appmail.ErrQueueFull)

	msg, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", msg.To)
	assert.Equal(t, 1, q.Len())
}

func TestMemoryQueue_ReceiveCancelado(t *testing.T) {
	q := mail.NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisQueue_EncolarYRecibir(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := mail.NewRedisClient(ctx, config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	q := mail.NewRedisQueue(client, "test:mail")
	require.NoError(t, q.Enqueue(ctx, appmail.Message{Kind: appmail.KindReset, To: "uno@example.com", Subject: "s1"}))
	require.NoError(t, q.Enqueue(ctx, appmail.Message{Kind: appmail.KindReset, To: "dos@example.com", Subject: "s2"}))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	first, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "uno@example.com", first.To)
	assert.Equal(t, appmail.KindReset, first.Kind)

	second, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dos@example.com", second.To)
}

func TestRedisClient_SinServidor(t *testing.T) {
	_, err := mail.NewRedisClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestLogMailer_NoFalla(t *testing.T) {
	m := mail.NewLogMailer(logger.Nop())
	assert.NoError(t, m.Send(context.Background(), appmail.Message{To: "x@example.com"}))
}

func TestKafkaProducer_BrokerCaidoNoBloquea(t *testing.T) {
	p := mail.NewKafkaProducer(config.KafkaConfig{
		Brokers: []string{"127.0.0.1:1"},
		Topic:   "albaranes.mail.test",
	}, logger.Nop())

	start := time.Now()
	for i := 0; i < 20; i++ {
		require.NoError(t, p.Enqueue(context.Background(), appmail.Message{To: "ana@example.com", Subject: "s"}))
	}
	assert.Less(t, time.Since(start), time.Second)

	closed := make(chan error, 1)
	go func() { closed <- p.Close() }()
	select {
	case <-closed:
	case <-time.After(15 * time.Second):
		t.Fatal("Close no terminó")
	}
	assert.Error(t, p.Enqueue(context.Background(), appmail.Message{To: "ana@example.com"}))
}
