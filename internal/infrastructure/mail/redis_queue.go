package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appmail "github.com/jhoicas/albaranes-api/internal/application/mail"
	"github.com/jhoicas/albaranes-api/pkg/config"
)

var (
	_ appmail.Queue    = (*RedisQueue)(nil)
	_ appmail.Receiver = (*RedisQueue)(nil)
)

const redisPollTimeout = 5 * time.Second

// RedisQueue cola sobre una lista de Redis: LPUSH al encolar, BRPOP al consumir (FIFO).
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisQueue construye la cola sobre un cliente existente.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

// Enqueue serializa el mensaje y lo añade a la lista.
func (q *RedisQueue) Enqueue(ctx context.Context, msg appmail.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("redis queue: marshal: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis queue: lpush: %w", err)
	}
	return nil
}

// Receive bloquea con BRPOP hasta recibir un mensaje o cancelar ctx.
func (q *RedisQueue) Receive(ctx context.Context) (appmail.Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return appmail.Message{}, err
		}
		res, err := q.client.BRPop(ctx, redisPollTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return appmail.Message{}, fmt.Errorf("redis queue: brpop: %w", err)
		}
		// res = [key, valor]
		var msg appmail.Message
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			return appmail.Message{}, fmt.Errorf("redis queue: unmarshal: %w", err)
		}
		return msg, nil
	}
}

// Len mensajes pendientes.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
