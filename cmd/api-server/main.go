package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hackgods/hospital-scheduling/internal/api"
	"github.com/hackgods/hospital-scheduling/internal/appointment"
	"github.com/hackgods/hospital-scheduling/internal/billing"
	"github.com/hackgods/hospital-scheduling/internal/config"
	"github.com/hackgods/hospital-scheduling/internal/db"
	"github.com/hackgods/hospital-scheduling/internal/logging"
	redisclient "github.com/hackgods/hospital-scheduling/internal/redis"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config load error: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.WithFields(logrus.Fields{
		"env":          cfg.Env,
		"http_port":    cfg.HTTPPort,
		"lock_backend": cfg.LockBackend,
	}).Info("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		sinks appointment.MultiSink
		deps  []api.Dependency
		opts  = []appointment.Option{appointment.WithLogger(log)}
	)

	// Postgres only backs the audit trail, so it is optional.
	if cfg.PostgresDSN != "" {
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		if err == nil {
			err = db.NewEventLog(pgPool).EnsureSchema(pgCtx)
			if err != nil {
				pgPool.Close()
			}
		}
		cancelPg()
		if err != nil {
			log.Fatalf("postgres connection error: %v", err)
		}
		defer pgPool.Close()
		log.Info("connected to Postgres")

		sinks = append(sinks, db.NewEventLog(pgPool))
		deps = append(deps, api.Dependency{Name: "postgres", Check: pgPool.Ping})
	}

	if cfg.RedisEnabled() {
		rdb, err := redisclient.NewRedisClient(rootCtx, cfg)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warnf("error closing redis: %v", err)
			}
		}()
		log.Info("connected to Redis")

		sinks = append(sinks, redisclient.NewPublisher(rdb, cfg.EventChannel))

		lockedByRedis := cfg.LockBackend == config.LockBackendRedis
		if lockedByRedis {
			opts = append(opts, appointment.WithLocker(redisclient.NewRedisDoctorLocker(rdb, cfg.LockTTL)))
		}
		deps = append(deps, api.Dependency{Name: "redis", Critical: lockedByRedis, Check: pingRedis(rdb)})
	}

	if len(sinks) > 0 {
		opts = append(opts, appointment.WithEventSink(sinks))
	}

	svc := appointment.NewService(opts...)
	calc := billing.NewCalculator(svc, svc, log)

	router := api.NewRouter(api.RouterConfig{
		Service:      svc,
		Billing:      calc,
		Logger:       log,
		Dependencies: deps,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return rootCtx },
	}

	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		runAudit(ctx, log, svc, cfg.AuditInterval)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down api-server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorf("api-server stopped with error: %v", err)
		os.Exit(1)
	}
	log.Info("api-server stopped")
}

func pingRedis(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
