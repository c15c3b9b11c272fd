package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/careline-api/internal/audit"
	"github.com/BruksfildServices01/careline-api/internal/chat"
	"github.com/BruksfildServices01/careline-api/internal/config"
	dbpkg "github.com/BruksfildServices01/careline-api/internal/db"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	infraRepo "github.com/BruksfildServices01/careline-api/internal/infra/repository"
	"github.com/BruksfildServices01/careline-api/internal/jobs"
	"github.com/BruksfildServices01/careline-api/internal/logger"
	"github.com/BruksfildServices01/careline-api/internal/routes"
	"github.com/BruksfildServices01/careline-api/internal/storage"
	"github.com/BruksfildServices01/careline-api/internal/ticketcode"
	"github.com/BruksfildServices01/careline-api/internal/timezone"
	ucTicket "github.com/BruksfildServices01/careline-api/internal/usecase/ticket"
)

const shutdownTimeout = 15 * time.Second

func main() {

	cfg := config.Load()
	log := logger.New(cfg.Env)

	httperr.SetDebug(cfg.IsDev())
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Timezone != "" && !timezone.IsValid(cfg.Timezone) {
		log.Warn().Str("timezone", cfg.Timezone).Msg("unknown timezone, using server local time")
	}
	loc := timezone.Location(cfg.Timezone)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	db := dbpkg.NewDB(cfg, log)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}

	store := storage.NewS3Store(storage.Config{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
	})

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()

	ticketRepo := infraRepo.NewTicketGormRepository(db)
	clock := timezone.Clock(cfg.Timezone)
	issuer := ticketcode.NewIssuer(ticketRepo, ticketcode.NewQRGenerator(store, clock), clock)
	sweep := ucTicket.NewSweepExpired(ticketRepo, auditDispatcher, clock)

	hub := chat.NewHub(
		infraRepo.NewChatGormRepository(db),
		chat.NewRedisBroadcaster(rdb),
		log,
		chat.Options{
			BatchSize:     cfg.ChatBatchSize,
			BatchInterval: cfg.ChatBatchInterval,
		},
	)

	expiration, err := jobs.NewTicketExpiration(sweep, cfg.TicketSweepSchedule, loc, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule ticket expiration")
	}

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Location: loc,
		Audit:    auditDispatcher,
		Issuer:   issuer,
		Uploads:  store,
		Hub:      hub,
		Sweep:    sweep,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ======================================================
	// 🚀 RUN
	// ======================================================
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		expiration.Start()
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		expiration.Stop(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}
