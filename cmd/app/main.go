// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classified-marketplace/internal/config"
	publicapi "classified-marketplace/internal/infra/api"
	pg "classified-marketplace/internal/infra/db/postgres"
	"classified-marketplace/internal/infra/logging"
	"classified-marketplace/internal/infra/metrics"
	"classified-marketplace/internal/infra/notify"
	red "classified-marketplace/internal/infra/redis"
	"classified-marketplace/internal/infra/security"
	"classified-marketplace/internal/infra/storage/oss"
	"classified-marketplace/internal/infra/web"
	"classified-marketplace/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, insecure cookies)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Blob store ----
	blobs, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		logger.Fatal().Err(err).Msg("oss")
	}

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	userRepo := pg.NewUserRepo(pool)
	categoryRepo := pg.NewCategoryRepo(pool)
	adRepo := pg.NewAdRepo(pool)
	bannerRepo := pg.NewBannerRepo(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	membershipRepo := pg.NewMembershipRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPostgresPlanRepo(pool), redisClient)
	notificationRepo := pg.NewNotificationLogRepo(pool)

	// ---- Adapters ----
	authorizer := security.NewConfigAuthorizer(cfg.Admin.AdminIDs, userRepo)
	notifier := notify.NewNotifier(notificationRepo, logger)

	// ---- Use cases ----
	approvalUC := usecase.NewApprovalUseCase(paymentRepo, membershipRepo, bannerRepo, planRepo, txManager, authorizer, notifier, logger)
	moderationUC := usecase.NewModerationUseCase(adRepo, bannerRepo, txManager, authorizer, blobs, logger)
	listingUC := usecase.NewListingUseCase(adRepo, membershipRepo, planRepo, blobs, logger)
	bannerUC := usecase.NewBannerUseCase(bannerRepo, blobs, logger)
	paymentUC := usecase.NewPaymentUseCase(paymentRepo, planRepo, bannerRepo, blobs, authorizer, logger)
	planUC := usecase.NewPlanUseCase(planRepo, authorizer, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, membershipRepo, paymentRepo, logger)

	// ---- Admin API ----
	authMgr := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, "", 30*time.Minute)
	adminSrv := web.NewServer(approvalUC, moderationUC, paymentUC, bannerUC, planUC, statsUC, authMgr, rateLimiter, cfg.Admin.APIKey, logger)
	adminMux := http.NewServeMux()
	adminSrv.RegisterRoutes(adminMux)
	adminMux.Handle("/metrics", promhttp.Handler())
	adminHandler := publicapi.Chain(adminMux,
		publicapi.TraceID(logger),
		publicapi.Recover(logger),
		publicapi.RequestLog(logger),
	)
	adminServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: adminHandler}
	go func() {
		logger.Info().Str("addr", adminServer.Addr).Msg("admin API listening")
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server")
		}
	}()

	// ---- Public API ----
	pubSrv := publicapi.NewServer(listingUC, bannerUC, paymentUC, planUC, categoryRepo, membershipRepo, notificationRepo, logger)
	router := chi.NewRouter()
	router.Use(
		publicapi.TraceID(logger),
		publicapi.Recover(logger),
		publicapi.RequestLog(logger),
		publicapi.Timeout(30*time.Second),
		publicapi.Identity(cfg.Auth.JWTSecret),
	)
	pubSrv.RegisterRoutes(router)
	pubServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.API.Port), Handler: router}
	go func() {
		logger.Info().Str("addr", pubServer.Addr).Msg("public API listening")
		if err := pubServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("public server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = pubServer.Shutdown(shutdownCtx)
	_ = adminServer.Shutdown(shutdownCtx)
	cancel()
}
