package app

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bookbase/ledger-service/config"
	"github.com/bookbase/ledger-service/internal/events"
	"github.com/bookbase/ledger-service/internal/handler"
	"github.com/bookbase/ledger-service/internal/ledger"
	"github.com/bookbase/ledger-service/internal/repository"
	"github.com/bookbase/ledger-service/internal/server"
	"github.com/bookbase/ledger-service/migrations"
	"github.com/bookbase/ledger-service/pkg/kafka"
	"github.com/bookbase/ledger-service/pkg/logger"
	"github.com/bookbase/ledger-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "ledger")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("store init", zap.Error(err))
	}
	defer closeStore()

	var enq events.Enqueuer
	if len(cfg.Kafka.Addrs) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		defer producer.Close() //nolint:errcheck
		enq = events.NewEnqueuer(producer)
	}
	pub := events.NewPublisher(enq, log)

	svc, err := ledger.New(ctx, store, pub, log)
	if err != nil {
		log.Fatal("ledger init", zap.Error(err))
	}

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("run", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}

func newStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, errors.Wrap(err, "redis ping")
		}
		return repository.NewRedisStore(client, log), func() { client.Close() }, nil //nolint:errcheck

	case config.StorePostgres:
		db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			return nil, nil, errors.Wrap(err, "db init")
		}
		return repository.NewPostgresStore(db, log), func() { db.Close() }, nil //nolint:errcheck

	case config.StoreMemory:
		return repository.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, errors.Errorf("unknown store kind %q", cfg.Store)
}
