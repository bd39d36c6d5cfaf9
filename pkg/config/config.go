package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Mail    MailConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Storage StorageConfig
	Metrics MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	LogLevel    string
	FrontendURL string // base de los enlaces enviados por email
}

// IsProduction indica si se ejecuta en producción.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// DBConfig configuración de base de datos.
// Driver "postgres" (por defecto) o "sqlite" para desarrollo local.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver       string
	DatabaseURL  string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	BodyLimitMB int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MailConfig transporte y cola de emails.
type MailConfig struct {
	Driver   string // log | smtp
	Queue    string // memory | redis | kafka
	Workers  int
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// RedisConfig conexión a Redis (cola de emails).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	QueueKey string
}

// KafkaConfig conexión a Kafka (cola de emails).
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// StorageConfig almacenamiento de firmas y PDFs.
type StorageConfig struct {
	Driver      string // local | s3
	LocalDir    string
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // opcional (MinIO, LocalStack)
}

// MetricsConfig exposición de métricas Prometheus.
type MetricsConfig struct {
	Enabled bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, MAIL_DRIVER, etc.
func Load() (*Config, error) {
	// .env no sobrescribe variables ya exportadas
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "albaranes-api"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			FrontendURL: strings.TrimRight(getString(v, "FRONTEND_URL", "http://localhost:3000"), "/"),
		},
		DB: DBConfig{
			Driver:       getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL:  getString(v, "DATABASE_URL", ""),
			Host:         getString(v, "DB_HOST", "localhost"),
			Port:         getInt(v, "DB_PORT", 5432),
			User:         getString(v, "DB_USER", "postgres"),
			Password:     getString(v, "DB_PASSWORD", ""),
			DBName:       getString(v, "DB_NAME", "albaranes"),
			SSLMode:      getString(v, "DB_SSLMODE", "disable"),
			SQLitePath:   getString(v, "DB_SQLITE_PATH", "albaranes.db"),
			MaxOpenConns: getInt(v, "DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getInt(v, "DB_MAX_IDLE_CONNS", 5),
			AutoMigrate:  getBool(v, "DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 30*24*60),
			Issuer:     getString(v, "JWT_ISSUER", "albaranes-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			BodyLimitMB: getInt(v, "HTTP_BODY_LIMIT_MB", 10),
		},
		Mail: MailConfig{
			Driver:   getString(v, "MAIL_DRIVER", "log"),
			Queue:    getString(v, "MAIL_QUEUE", "memory"),
			Workers:  getInt(v, "MAIL_WORKERS", 2),
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "MAIL_FROM", "no-reply@albaranes.local"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			QueueKey: getString(v, "REDIS_MAIL_QUEUE_KEY", "albaranes:mail"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getString(v, "KAFKA_BROKERS", "localhost:9092")),
			Topic:   getString(v, "KAFKA_MAIL_TOPIC", "albaranes.mail"),
			GroupID: getString(v, "KAFKA_GROUP_ID", "albaranes-mailworker"),
		},
		Storage: StorageConfig{
			Driver:      getString(v, "STORAGE_DRIVER", "local"),
			LocalDir:    getString(v, "STORAGE_DIR", "./storage"),
			S3Bucket:    getString(v, "S3_BUCKET", ""),
			S3Region:    getString(v, "S3_REGION", "eu-west-1"),
			S3AccessKey: getString(v, "S3_ACCESS_KEY_ID", ""),
			S3SecretKey: getString(v, "S3_SECRET_ACCESS_KEY", ""),
			S3Endpoint:  getString(v, "S3_ENDPOINT", ""),
		},
		Metrics: MetricsConfig{
			Enabled: getBool(v, "METRICS_ENABLED", true),
		},
	}

	if cfg.JWT.Secret == "" && cfg.App.IsProduction() {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
