package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/otp"
	pay "github.com/BruksfildServices01/barber-booking/internal/payment"
	"github.com/BruksfildServices01/barber-booking/internal/ratelimit"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

func main() {

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, zl)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}

	// ======================================================
	// 📈 METRICS
	// ======================================================
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// ======================================================
	// 🔧 INFRA: Redis quando configurado, memória caso contrário
	// ======================================================
	var (
		notifier  notify.Notifier
		limitSt   ratelimit.Store
		otpStore  otp.Store
		worker    *notify.Worker
		closeFunc []func()
	)

	clock := timezone.NewClock(cfg.ShopTimezone)

	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			zl.Fatal("redis unavailable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		closeFunc = append(closeFunc, func() { _ = rdb.Close() })

		limitSt = ratelimit.NewRedisStore(rdb)
		otpStore = otp.NewRedisStore(rdb)

		opt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
		an := notify.NewAsynqNotifier(opt, clock.Location())
		notifier = an
		closeFunc = append(closeFunc, func() { _ = an.Close() })

		worker = notify.NewWorker(opt, zl)
		if err := worker.Start(); err != nil {
			zl.Fatal("notification worker failed to start", zap.Error(err))
		}
		zl.Info("redis enabled", zap.String("addr", cfg.RedisAddr))
	} else {
		mem := ratelimit.NewMemoryStore()
		go mem.RunSweeper(ctx, time.Minute)
		limitSt = mem
		otpStore = otp.NewMemoryStore()
		notifier = notify.NewLogNotifier(zl)
		zl.Warn("REDIS_ADDR not set: using in-memory rate limit and OTP stores")
	}

	policy := domain.DefaultSchedulePolicy()
	policy.UnavailableRowCloses = cfg.UnavailableRowClosesDay

	auditDispatcher := audit.NewDispatcher(audit.New(db), zl)

	var checkEmail func(string) bool
	if cfg.ValidateEmailDomain {
		checkEmail = validators.NewDomainChecker(nil, 3*time.Second).Check
	}

	bookingRepo := infraRepo.NewBookingGormRepository(db)
	accountRepo := infraRepo.NewAccountGormRepository(db)

	// ======================================================
	// 🌍 HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(zl),
		middleware.CORSMiddleware(cfg.CORSOrigins...),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	routes.RegisterRoutes(r, routes.Deps{
		Bookings:  bookingRepo,
		Payments:  infraRepo.NewPaymentGormRepository(db),
		Reviews:   infraRepo.NewReviewGormRepository(db),
		Accounts:  accountRepo,
		Catalog:   infraRepo.NewCatalogGormRepository(db),
		Schedules: infraRepo.NewScheduleGormRepository(db),
		AuditLogs: infraRepo.NewAuditGormRepository(db),

		Audit:    auditDispatcher,
		Notifier: notifier,
		Gateway:  pay.NewSimulatedGateway(cfg.PaymentSuccessRate, rand.NewSource(time.Now().UnixNano())),
		OTP:      otp.NewService(otpStore, otp.DefaultTTL),
		Tokens:   middleware.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		Limiter:  ratelimit.New(limitSt, cfg.RateLimitRequests, cfg.RateLimitWindow, zl, m),

		Clock:            clock,
		Policy:           policy,
		MinAdvance:       cfg.MinAdvance,
		CheckEmailDomain: checkEmail,

		Metrics: m,
		Log:     zl,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}

	if worker != nil {
		worker.Shutdown()
	}
	auditDispatcher.Close()
	for _, fn := range closeFunc {
		fn()
	}
}
