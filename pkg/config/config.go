package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	HTTP     HTTP
	Logger   Logger
	Storage  Storage
	Postgres Postgres
	SQLite   SQLite
	JWT      JWT
	Security Security
	Kafka    Kafka
	Webhook  Webhook
	Mailer   Mailer
	Jobs     Jobs
}

type HTTP struct {
	Port            int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Logger struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type Storage struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	Codec  string `env:"STORAGE_CODEC" envDefault:"json"`
	// QuotaBytes limits each workspace in the memory driver. Zero is unlimited.
	QuotaBytes int `env:"STORAGE_QUOTA_BYTES" envDefault:"5242880"`
}

type Postgres struct {
	DSN     string `env:"POSTGRES_DSN"`
	MaxConn int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`

	ConnectAttempts int `env:"POSTGRES_CONNECT_ATTEMPTS" envDefault:"10"`
}

type SQLite struct {
	Path string `env:"SQLITE_PATH" envDefault:"terminal-pulse.db"`
}

type JWT struct {
	PrivateKey string        `env:"JWT_PRIVATE_KEY"` // base64 PEM
	PublicKey  string        `env:"JWT_PUBLIC_KEY"`  // base64 PEM
	TTL        time.Duration `env:"JWT_TTL" envDefault:"8h"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"terminal-pulse"`
}

type Security struct {
	BcryptCost int `env:"SECURITY_BCRYPT_COST" envDefault:"10"`
}

type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_EVENTS_TOPIC" envDefault:"terminal-pulse.events"`
}

type Webhook struct {
	URL        string        `env:"ALERT_WEBHOOK_URL"`
	RetryMax   int           `env:"ALERT_WEBHOOK_RETRY_MAX" envDefault:"3"`
	RetryWait  time.Duration `env:"ALERT_WEBHOOK_RETRY_WAIT" envDefault:"1s"`
	Timeout    time.Duration `env:"ALERT_WEBHOOK_TIMEOUT" envDefault:"10s"`
	AuthHeader string        `env:"ALERT_WEBHOOK_AUTH_HEADER"`
}

type Mailer struct {
	Host         string `env:"SMTP_HOST"`
	Port         int    `env:"SMTP_PORT" envDefault:"587"`
	Username     string `env:"SMTP_USERNAME"`
	Password     string `env:"SMTP_PASSWORD"`
	From         string `env:"SMTP_FROM" envDefault:"noreply@terminalpulse.local"`
	SupportEmail string `env:"SUPPORT_EMAIL"`
}

type Jobs struct {
	SLAInterval          time.Duration `env:"JOB_SLA_INTERVAL" envDefault:"1m"`
	StaleInterval        time.Duration `env:"JOB_STALE_TERMINALS_INTERVAL" envDefault:"1m"`
	StaleTerminalTimeout time.Duration `env:"STALE_TERMINAL_TIMEOUT" envDefault:"15m"`
}

func New(envPath string) (Config, error) {
	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
