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

	"github.com/gin-gonic/gin"

	authapp "github.com/wyfcoding/loanorigination/internal/auth/application"
	authdomain "github.com/wyfcoding/loanorigination/internal/auth/domain"
	authmysql "github.com/wyfcoding/loanorigination/internal/auth/infrastructure/persistence/mysql"
	authhttp "github.com/wyfcoding/loanorigination/internal/auth/interfaces/http"
	riskapp "github.com/wyfcoding/loanorigination/internal/creditrisk/application"
	riskdomain "github.com/wyfcoding/loanorigination/internal/creditrisk/domain"
	riskmysql "github.com/wyfcoding/loanorigination/internal/creditrisk/infrastructure/persistence/mysql"
	riskhttp "github.com/wyfcoding/loanorigination/internal/creditrisk/interfaces/http"
	customerapp "github.com/wyfcoding/loanorigination/internal/customer/application"
	customerdomain "github.com/wyfcoding/loanorigination/internal/customer/domain"
	customermysql "github.com/wyfcoding/loanorigination/internal/customer/infrastructure/persistence/mysql"
	customerhttp "github.com/wyfcoding/loanorigination/internal/customer/interfaces/http"
	loanapp "github.com/wyfcoding/loanorigination/internal/loan/application"
	loandomain "github.com/wyfcoding/loanorigination/internal/loan/domain"
	loankafka "github.com/wyfcoding/loanorigination/internal/loan/infrastructure/messaging/kafka"
	loanmysql "github.com/wyfcoding/loanorigination/internal/loan/infrastructure/persistence/mysql"
	loanhttp "github.com/wyfcoding/loanorigination/internal/loan/interfaces/http"
	"github.com/wyfcoding/loanorigination/pkg/cache"
	"github.com/wyfcoding/loanorigination/pkg/config"
	"github.com/wyfcoding/loanorigination/pkg/db"
	"github.com/wyfcoding/loanorigination/pkg/logger"
	"github.com/wyfcoding/loanorigination/pkg/metrics"
	"github.com/wyfcoding/loanorigination/pkg/middleware"
	"github.com/wyfcoding/loanorigination/pkg/mq"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config file")
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting service",
		"service", cfg.ServiceName, "version", cfg.Version, "environment", cfg.Environment)

	// 3. 数据库
	database, err := db.Init(db.Config{
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&customerdomain.Customer{},
		&customerdomain.CustomerDetail{},
		&customerdomain.FinancialInfo{},
		&customerdomain.JobInfo{},
		&customerdomain.Reference{},
		&customerdomain.Vehicle{},
		&customerdomain.Company{},
		&customerdomain.Account{},
		&customerdomain.Phone{},
		&customerdomain.Address{},
		&customerdomain.Addressable{},
		&customerdomain.Portfolio{},
		&customerdomain.Promoter{},
		&loandomain.LoanApplication{},
		&loandomain.LoanApplicationDetail{},
		&loandomain.Note{},
		&riskdomain.CreditRiskCategory{},
		&riskdomain.CreditRisk{},
		&authdomain.User{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// 4. Redis（可选，仅用于公共接口限流）
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.New(cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Fatalf("failed to init redis: %v", err)
		}
		defer redisCache.Close()
	}

	// 5. Kafka（可选，贷款生命周期事件）
	var publisher loandomain.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			log.Fatalf("failed to init kafka producer: %v", err)
		}
		defer producer.Close()
		publisher = loankafka.NewEventPublisher(producer, cfg.Kafka.LoanEventsTopic)
	}

	// 6. 指标
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.ServiceName)
	}

	// 7. 分层装配
	customerRepo := customermysql.NewCustomerRepository(database)
	portfolioRepo := customermysql.NewPortfolioRepository(database)
	customerSvc := customerapp.NewCustomerService(customerRepo, portfolioRepo, database, m)
	customerHandler := customerhttp.NewCustomerHandler(customerSvc)

	riskRepo := riskmysql.NewCreditRiskRepository(database)
	riskSvc := riskapp.NewCreditRiskService(riskRepo)
	riskHandler := riskhttp.NewCreditRiskHandler(riskSvc)

	loanRepo := loanmysql.NewLoanRepository(database)
	loanSvc := loanapp.NewLoanService(loanRepo, customerSvc, riskSvc, database, publisher, m)
	loanHandler := loanhttp.NewLoanHandler(loanSvc)

	userRepo := authmysql.NewUserRepository(database)
	authSvc := authapp.NewAuthService(userRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTokenTTL)*time.Minute,
		time.Duration(cfg.Auth.RefreshTokenTTL)*24*time.Hour,
	)
	authHandler := authhttp.NewAuthHandler(authSvc)

	// 8. 初始数据
	if err := riskSvc.EnsureDefaultCatalog(ctx); err != nil {
		log.Fatalf("failed to seed credit risk catalog: %v", err)
	}
	if err := ensureAdminUser(ctx, userRepo); err != nil {
		log.Fatalf("failed to bootstrap admin user: %v", err)
	}

	// 9. HTTP 路由
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.Recovery(), middleware.RequestLogger())
	if m != nil {
		engine.Use(middleware.Metrics(m))
		engine.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	public := engine.Group("/api/v1")
	public.Use(middleware.RateLimit(redisCache, middleware.RateLimitConfig{
		Enabled:       cfg.RateLimit.Enabled,
		Requests:      cfg.RateLimit.Requests,
		WindowSeconds: cfg.RateLimit.WindowSeconds,
	}))
	authHandler.RegisterPublicRoutes(public)
	customerHandler.RegisterPublicRoutes(public)

	protected := engine.Group("/api/v1")
	protected.Use(authhttp.AuthRequired(authSvc))
	authHandler.RegisterRoutes(protected)
	customerHandler.RegisterRoutes(protected)
	loanHandler.RegisterRoutes(protected)
	riskHandler.RegisterRoutes(protected)

	// 10. 启动与优雅停机
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown failed", "error", err)
	}
	logger.Info(ctx, "Server stopped")
}

// ensureAdminUser 空库时创建初始管理员，口令取自环境变量
func ensureAdminUser(ctx context.Context, repo authdomain.Repository) error {
	existing, err := repo.GetByUsername(ctx, "admin")
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	password := os.Getenv("APP_ADMIN_INITIAL_PASSWORD")
	if password == "" {
		logger.Warn(ctx, "APP_ADMIN_INITIAL_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	hash, err := authapp.HashPassword(password)
	if err != nil {
		return err
	}
	user := &authdomain.User{
		Username:     "admin",
		Email:        "admin@localhost",
		PasswordHash: hash,
		IsApproved:   true,
		IsAdmin:      true,
	}
	if err := repo.Create(ctx, user); err != nil {
		return err
	}
	logger.Info(ctx, "Initial admin user created", "user_id", user.ID)
	return nil
}
