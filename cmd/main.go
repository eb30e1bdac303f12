package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/BMMUGOMBA/terminal-pulse/internal/api"
	"github.com/BMMUGOMBA/terminal-pulse/internal/clients/mailer"
	"github.com/BMMUGOMBA/terminal-pulse/internal/clients/webhook"
	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/repository"
	"github.com/BMMUGOMBA/terminal-pulse/internal/service"
	"github.com/BMMUGOMBA/terminal-pulse/internal/store"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/broker"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/config"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/job"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/logger"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/postgres"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/sqlite"
)

const (
	ReadTimeout  = 5 * time.Second
	WriteTimeout = 10 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l := logger.New(logger.ParseLevel(cfg.Logger.Level))
	slog.SetDefault(l)

	backend, closeBackend, err := newBackend(ctx, cfg)
	panicOnErr("open storage", err)
	defer closeBackend()

	codec, err := store.NewCodec(cfg.Storage.Codec)
	panicOnErr("storage codec", err)

	publishers := service.Fanout{service.LogPublisher{}}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()

		publishers = append(publishers, producer)
	}

	notifier := newNotifier(cfg)
	if notifier != nil {
		defer notifier.Wait()

		publishers = append(publishers, notifier)
	}

	workspaces := service.NewWorkspaces(service.WorkspacesConfig{
		Backend:   backend,
		Codec:     codec,
		Passwords: service.NewPasswords(cfg.Security.BcryptCost),
		Publisher: publishers,
	})

	_, err = workspaces.Open(ctx, service.DefaultWorkspace)
	panicOnErr("open default workspace", err)

	tokens, err := service.NewTokens(cfg.JWT.PrivateKey, cfg.JWT.PublicKey, cfg.JWT.TTL, cfg.JWT.Issuer)
	panicOnErr("load jwt keys", err)

	jobs := job.NewService().
		RegisterJob("evaluate SLA", cfg.Jobs.SLAInterval, workspaces.EvaluateSLA).
		TryRegisterJob(cfg.Jobs.StaleTerminalTimeout > 0, "mark stale terminals", cfg.Jobs.StaleInterval,
			func(ctx context.Context) error {
				return workspaces.MarkStaleTerminals(ctx, cfg.Jobs.StaleTerminalTimeout)
			})
	jobs.Start(ctx)

	handler := api.NewHandler(tokens)
	mw := api.NewMiddleware(workspaces, tokens)

	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}
	}()

	slog.InfoContext(ctx, "service started", "port", cfg.HTTP.Port, "storage", cfg.Storage.Driver)

	wg.Add(1)

	go func() {
		defer wg.Done()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		sig := <-ch

		slog.InfoContext(ctx, "got OS signal", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
		defer shutdownCancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(ctx, "server shutdown", "error", err)
		}

		cancel()
		jobs.Stop()
	}()

	wg.Wait()
}

func newBackend(ctx context.Context, cfg config.Config) (store.Backend, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return repository.NewMemoryStorage(cfg.Storage.QuotaBytes), func() {}, nil

	case config.StoragePostgres:
		err := postgres.UpMigrations(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("up migrations: %w", err)
		}

		pool, err := postgres.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}

		return repository.NewPostgresStorage(pool), pool.Close, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}

		err = sqlite.UpMigrations(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("up migrations: %w", err)
		}

		return repository.NewSQLiteStorage(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", entity.ErrUnknownBackend, cfg.Storage.Driver)
	}
}

// newNotifier returns nil when neither the webhook nor the mailbox is configured.
func newNotifier(cfg config.Config) *service.Notifier {
	var (
		alerts service.AlertSender
		mail   service.Mailer
	)

	if cfg.Webhook.URL != "" {
		alerts = webhook.NewClient(cfg.Webhook)
	}

	if cfg.Mailer.Host != "" && cfg.Mailer.SupportEmail != "" {
		mail = mailer.New(cfg.Mailer)
	}

	if alerts == nil && mail == nil {
		return nil
	}

	return service.NewNotifier(alerts, mail)
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
