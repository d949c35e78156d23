package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/banking-notifier/internal/api/handlers/notification"
	"github.com/aliskhannn/banking-notifier/internal/api/router"
	"github.com/aliskhannn/banking-notifier/internal/api/server"
	"github.com/aliskhannn/banking-notifier/internal/config"
	"github.com/aliskhannn/banking-notifier/internal/rabbitmq/handlers/dispatch"
	"github.com/aliskhannn/banking-notifier/internal/rabbitmq/queue"
	notifrepo "github.com/aliskhannn/banking-notifier/internal/repository/notification"
	notifsvc "github.com/aliskhannn/banking-notifier/internal/service/notification"
	"github.com/aliskhannn/banking-notifier/internal/upstream/account"
	"github.com/aliskhannn/banking-notifier/internal/upstream/transaction"
	"github.com/aliskhannn/banking-notifier/internal/worker"
	"github.com/aliskhannn/banking-notifier/migrations"
	"github.com/aliskhannn/banking-notifier/pkg/email"
	"github.com/aliskhannn/banking-notifier/pkg/httpclient"
	"github.com/aliskhannn/banking-notifier/pkg/migration"
	"github.com/aliskhannn/banking-notifier/pkg/sms"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()
	val := validator.New()

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Retries, cfg.RabbitMQ.Pause)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to open channel")
	}

	q, err := queue.NewDispatchQueue(ch, cfg.RabbitMQ)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to create dispatch queue")
	}

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := migration.Run(ctx, db.Master, migrations.FS, "."); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to apply migrations")
	}

	repo := notifrepo.NewRepository(db)

	rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Database)
	if err = rdb.Ping(ctx).Err(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	emailClient := email.NewClient(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.Username,
		cfg.Email.Password,
		cfg.Email.From,
		cfg.Email.Timeout,
	)
	smsClient := sms.NewClient(cfg.SMS.URL, cfg.SMS.Token, cfg.SMS.Sender, cfg.SMS.Timeout)

	transactions := transaction.NewClient(httpclient.New(cfg.Upstream.TransactionURL, cfg.Upstream.Timeout))
	accounts := account.NewClient(httpclient.New(cfg.Upstream.AccountURL, cfg.Upstream.Timeout))

	service := notifsvc.NewService(
		repo,
		notifsvc.Gateways{Email: emailClient, SMS: smsClient},
		notifsvc.Verifiers{Transactions: transactions, Accounts: accounts},
		rdb,
		q,
		notifsvc.Options{
			Retry:           cfg.Retry,
			MaxRetries:      cfg.Notifications.MaxRetries,
			DeliveryTimeout: cfg.Notifications.DeliveryTimeout,
		},
	)

	notifHandler := notification.NewHandler(service, val, cfg)
	dispatchHandler := dispatch.NewHandler(service)

	dispatcher := worker.NewDispatcher(q, dispatchHandler, service)
	go dispatcher.Run(ctx, cfg.Retry, cfg.Workers.Count)

	r := router.New(notifHandler)
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.HTTPPort).Msg("starting http server")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Printf("failed to close master DB: %v", err)
	}

	for i, s := range db.Slaves {
		if err := s.Close(); err != nil {
			zlog.Logger.Printf("failed to close slave DB %d: %v", i, err)
		}
	}

	if err := rdb.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close redis client")
	}

	if err := ch.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
	}

	if err := conn.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
	}
}
