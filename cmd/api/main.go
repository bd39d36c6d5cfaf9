package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	"github.com/jhoicas/albaranes-api/docs"
	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/deliverynote"
	appmail "github.com/jhoicas/albaranes-api/internal/application/mail"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
	inframail "github.com/jhoicas/albaranes-api/internal/infrastructure/mail"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/albaranes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/albaranes-api/internal/interfaces/http"
	"github.com/jhoicas/albaranes-api/pkg/config"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

const devJWTSecret = "dev-secret-no-usar-en-produccion"

// @title        Albaranes API
// @version      1.0
// @description  Gestión de clientes, proyectos y albaranes con firma y PDF.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: se usa un secreto de desarrollo")
		cfg.JWT.Secret = devJWTSecret
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := postgres.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión a la base de datos")
	}
	defer func() { _ = postgres.Close(db) }()
	if cfg.DB.AutoMigrate {
		if err := postgres.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("migración")
		}
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("almacenamiento")
	}
	var storageDir string
	if local, ok := store.(*storage.Local); ok {
		storageDir = local.Dir()
	}

	// Cola de emails. Con "memory" los workers corren en este proceso;
	// con redis o kafka los consume cmd/mailworker.
	var workers sync.WaitGroup
	var queue appmail.Queue
	switch cfg.Mail.Queue {
	case "redis":
		client, err := inframail.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		queue = inframail.NewRedisQueue(client, cfg.Redis.QueueKey)
	case "kafka":
		producer := inframail.NewKafkaProducer(cfg.Kafka, log)
		defer producer.Close()
		queue = producer
	default:
		memQueue := inframail.NewMemoryQueue(256)
		queue = memQueue
		worker := appmail.NewWorker(memQueue, newMailer(cfg.Mail, log), cfg.Mail.Workers, log)
		workers.Add(1)
		go func() {
			defer workers.Done()
			worker.Run(ctx)
		}()
	}
	notifier := appmail.NewDispatcher(queue, cfg.App.FrontendURL, log)

	userRepo := postgres.NewUserRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	noteRepo := postgres.NewDeliveryNoteRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	txRunner := postgres.NewTxRunner(db)

	authUC := auth.NewAuthUseCase(userRepo, notifier, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	userUC := usecase.NewUserUseCase(userRepo, notifier, log)
	companyUC := usecase.NewCompanyUseCase(userRepo)
	invitationUC := usecase.NewInvitationUseCase(userRepo, invitationRepo, txRunner, notifier, log)
	clientUC := usecase.NewClientUseCase(clientRepo, userRepo, log)
	projectUC := usecase.NewProjectUseCase(projectRepo, clientRepo, log)

	// PDF del albarán con la firma incrustada
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	noteUC := deliverynote.NewUseCase(noteRepo, projectRepo, clientRepo, userRepo, store, pdfGenerator, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler(log, !cfg.App.IsProduction()),
	})
	app.Use(recover.New())
	app.Use(cors.New())
	if !cfg.App.IsProduction() {
		app.Use(fiberlogger.New())
	}

	if cfg.Metrics.Enabled {
		m := metrics.New("albaranes")
		app.Use(m.Middleware())
		app.Get("/metrics", m.Handler())
	}

	// Documento OpenAPI registrado por swag; la UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Get("/api/docs/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Albaranes API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         userUC,
		CompanyUC:      companyUC,
		InvitationUC:   invitationUC,
		ClientUC:       clientUC,
		ProjectUC:      projectUC,
		DeliveryNoteUC: noteUC,
		Users:          userRepo,
		Validator:      validation.NewValidator(),
		JWTSecret:      cfg.JWT.Secret,
		StorageDir:     storageDir,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()
	workers.Wait()

	log.Info().Msg("aplicación detenida")
}

// newMailer elige el transporte de email según MAIL_DRIVER.
func newMailer(cfg config.MailConfig, log *logger.Logger) appmail.Mailer {
	if cfg.Driver == "smtp" {
		return inframail.NewSMTPMailer(cfg)
	}
	return inframail.NewLogMailer(log)
}
