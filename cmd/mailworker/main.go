// Comando mailworker consume la cola externa de emails (Redis o Kafka) y los envía.
package main

import (
	"context"
	"os/signal"
	"syscall"

	appmail "github.com/jhoicas/albaranes-api/internal/application/mail"
	inframail "github.com/jhoicas/albaranes-api/internal/infrastructure/mail"
	"github.com/jhoicas/albaranes-api/pkg/config"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("mailworker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var receiver appmail.Receiver
	switch cfg.Mail.Queue {
	case "redis":
		client, err := inframail.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		receiver = inframail.NewRedisQueue(client, cfg.Redis.QueueKey)
	case "kafka":
		consumer := inframail.NewKafkaConsumer(cfg.Kafka)
		defer consumer.Close()
		receiver = consumer
	default:
		log.Fatal().Str("queue", cfg.Mail.Queue).Msg("MAIL_QUEUE debe ser redis o kafka; con memory los workers corren en la API")
	}

	var mailer appmail.Mailer = inframail.NewLogMailer(log)
	if cfg.Mail.Driver == "smtp" {
		mailer = inframail.NewSMTPMailer(cfg.Mail)
	}

	log.Info().Str("queue", cfg.Mail.Queue).Int("workers", cfg.Mail.Workers).Msg("mailworker iniciado")
	appmail.NewWorker(receiver, mailer, cfg.Mail.Workers, log).Run(ctx)
	log.Info().Msg("mailworker detenido")
}
