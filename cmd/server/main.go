package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"

	"cogitRecords/internal/auth"
	"cogitRecords/internal/config"
	"cogitRecords/internal/db"
	grpcserver "cogitRecords/internal/grpc"
	"cogitRecords/internal/logger"
	"cogitRecords/internal/metrics"
	"cogitRecords/internal/ops"
	"cogitRecords/internal/session"
	"cogitRecords/models"
	"cogitRecords/record"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		zlog.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	log.Info().Stringer("config", cfg).Msg("configuration loaded")

	// Open DB
	d, dialect, err := db.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Error().Err(err).Msg("close db")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewDBStatsCollector(d, dialect.Name))

	store := record.NewStore(d, dialect,
		record.WithLogger(log.With().Str("component", "record").Logger()),
		record.WithTimeout(cfg.QueryTimeout()),
		record.WithMetrics(metrics.NewQueries(reg)),
	)
	record.Use(store)

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		hash, err := hasher.Hash(cfg.Auth.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("hash admin password")
		}
		created, err := models.EnsureAdmin(context.Background(), store, strings.ToLower(cfg.Auth.AdminEmail), hash)
		if err != nil {
			log.Fatal().Err(err).Msg("ensure admin")
		}
		log.Info().Str("email", cfg.Auth.AdminEmail).Bool("created", created).Msg("admin ensured")
	}

	// Sessions live in Redis when configured, in memory otherwise.
	var sessions session.Store = session.NewMemoryStore()
	if cfg.Redis.Address != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Address).Msg("connect redis")
		}
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL())
	}

	// Ops HTTP: /healthz and /metrics
	var opsSrv *http.Server
	if cfg.Metrics.Address != "" {
		opsSrv = &http.Server{
			Addr:              cfg.Metrics.Address,
			Handler:           ops.NewRouter(store, reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("ops server failed")
			}
		}()
		log.Info().Str("addr", cfg.Metrics.Address).Msg("ops server listening")
	}

	// Start gRPC
	shutdown, err := grpcserver.StartGRPC(cfg, grpcserver.Deps{
		Store:    store,
		Sessions: sessions,
		Hasher:   hasher,
		Log:      log.With().Str("component", "grpc").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("start grpc")
	}
	log.Info().Str("addr", cfg.GRPC.Address).Msg("gRPC server listening")

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("grpc shutdown")
	}
	if opsSrv != nil {
		if err := opsSrv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("ops shutdown")
		}
	}
}
