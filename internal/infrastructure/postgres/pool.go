package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/glebarez/sqlite"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/pkg/config"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

// Open abre la base de datos según cfg.Driver ("postgres" o "sqlite") y la envuelve en GORM.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "", "postgres":
		return openPostgres(ctx, cfg, log)
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, log)
	default:
		return nil, fmt.Errorf("db: driver no soportado %q", cfg.Driver)
	}
}

// openPostgres construye un *sql.DB sobre pgx (stdlib) para registrar el codec
// NUMERIC -> shopspring/decimal en cada conexión y se lo entrega al driver de GORM.
func openPostgres(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*gorm.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	// Forzar IPv4 en el dial: Docker suele no tener IPv6.
	connCfg.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		d := &net.Dialer{Timeout: 10 * time.Second}
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return d.DialContext(ctx, network, addr)
		}
		if ip := lookupIPv4(ctx, host); ip != "" {
			return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
		}
		return d.DialContext(ctx, network, addr)
	}

	sqlDB := stdlib.OpenDB(*connCfg, stdlib.OptionAfterConnect(func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}))
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), gormConfig(log))
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("abrir gorm: %w", err)
	}
	return db, nil
}

// OpenSQLite abre una base SQLite (archivo o ":memory:"). Se usa en desarrollo y en tests.
func OpenSQLite(path string, log *logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Cada conexión a ":memory:" es una base distinta.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Close cierra el pool subyacente.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormConfig(log *logger.Logger) *gorm.Config {
	if log == nil {
		log = logger.Nop()
	}
	return &gorm.Config{
		Logger:         NewGormLogger(log),
		TranslateError: true,
	}
}

func lookupIPv4(ctx context.Context, host string) string {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host
		}
		return ""
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil || len(ips) == 0 {
		return ""
	}
	return ips[0].String()
}
