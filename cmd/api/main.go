package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/essay"
	"techsphere/cmd/api/handlers"
	"techsphere/cmd/api/metrics"
	"techsphere/cmd/api/middleware"
	"techsphere/cmd/api/router"
	"techsphere/cmd/api/services"
	"techsphere/cmd/internal/eventbus"
	"techsphere/cmd/internal/logger"
	"techsphere/config"
	"techsphere/db"
	"techsphere/repositories"
)

// @title           TechSphere API
// @version         1.0
// @description     Blog and AI essay platform API
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level, cfg.Logging.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 저장소 초기화
	blogs, comments, ratings, ping, err := initStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Errorf("failed to initialize storage: %v", err)
		os.Exit(1)
	}
	if cfg.Storage.SeedDemo {
		seeded, err := repositories.SeedDemo(ctx, blogs, time.Now().UTC())
		if err != nil {
			logger.Log.Errorf("failed to seed demo data: %v", err)
		} else if seeded {
			logger.Log.Info("seeded demo blog")
		}
	}

	provider, err := initAuth(ctx, cfg)
	if err != nil {
		logger.Log.Errorf("failed to initialize auth provider: %v", err)
		os.Exit(1)
	}

	completer, err := essay.NewCompleter(cfg.AI)
	if err != nil {
		logger.Log.Errorf("failed to initialize llm completer: %v", err)
		os.Exit(1)
	}

	publisher := initEvents(ctx, cfg.Events)
	defer publisher.Close()

	m := metrics.NewManager("techsphere", "api", prometheus.NewRegistry())

	limiter, closeLimiter := initRateLimiter(cfg.RateLimit)
	defer closeLimiter()

	blogSvc := services.NewBlogService(blogs, comments, ratings, publisher)
	r := router.New(router.Deps{
		Config:  cfg,
		Blogs:   blogSvc,
		Users:   services.NewUserService(provider, blogSvc),
		Essays:  services.NewEssayService(completer, cfg.AI).WithMetrics(m),
		Auth:    provider,
		Limiter: limiter,
		Metrics: m,
		Ping:    ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("starting api server", logger.Fields{
			"port":     cfg.Server.Port,
			"storage":  cfg.Storage.Driver,
			"ai":       cfg.AI.Provider,
			"auth":     cfg.Auth.Provider,
			"frontend": cfg.Server.FrontendURL,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("api server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down api server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("graceful shutdown failed: %v", err)
	}
	if cfg.Storage.Driver == config.StorageMongo {
		if err := db.Disconnect(shutdownCtx); err != nil {
			logger.Log.Errorf("mongo disconnect failed: %v", err)
		}
	}
}

func initStorage(ctx context.Context, cfg config.StorageConfig) (
	repositories.BlogRepository,
	repositories.CommentRepository,
	repositories.RatingRepository,
	handlers.PingFunc,
	error,
) {
	if cfg.Driver != config.StorageMongo {
		store := repositories.NewMemoryStore()
		return store.Blogs, store.Comments, store.Ratings, nil, nil
	}

	if err := db.Init(ctx, cfg); err != nil {
		return nil, nil, nil, nil, err
	}
	database := db.Database()
	return repositories.NewBlogRepository(database),
		repositories.NewCommentRepository(database),
		repositories.NewRatingRepository(database),
		db.Ping,
		nil
}

func initAuth(ctx context.Context, cfg config.AppConfig) (auth.Provider, error) {
	if cfg.Auth.Provider == config.AuthProviderFirebase {
		return auth.NewFirebaseProvider(ctx, cfg.Auth)
	}

	local, err := auth.NewLocalProvider(cfg.Auth)
	if err != nil {
		return nil, err
	}
	if !cfg.IsProduction() {
		if token, err := local.Sign(auth.DemoUser); err == nil {
			logger.InfoWithFields("demo user token issued", logger.Fields{
				"uid":   auth.DemoUser.UID,
				"token": token,
			})
		}
	}
	return local, nil
}

// initEvents 는 Kafka 연결에 실패해도 서버를 띄우고 이벤트 발행만 끈다.
func initEvents(ctx context.Context, cfg config.EventsConfig) eventbus.Publisher {
	if !cfg.Enabled {
		return eventbus.NopPublisher{}
	}

	topicCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := eventbus.EnsureTopic(topicCtx, cfg.Brokers, cfg.Topic, 3); err != nil {
		logger.Log.Warnf("failed to ensure kafka topic: %v", err)
	}

	pub, err := eventbus.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
	if err != nil {
		logger.Log.Warnf("kafka publisher disabled: %v", err)
		return eventbus.NopPublisher{}
	}
	return pub
}

func initRateLimiter(cfg config.RateLimitConfig) (middleware.RequestRateLimiter, func()) {
	if cfg.RedisAddr == "" {
		return middleware.NewMemoryLimiter(), func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	logger.InfoWithFields("using redis rate limiter", logger.Fields{"addr": cfg.RedisAddr})
	return middleware.NewRedisLimiter(rdb), func() { _ = rdb.Close() }
}
