package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"skillsphere/internal/analysis"
	"skillsphere/internal/config"
	"skillsphere/internal/db"
	"skillsphere/internal/email"
	apihttp "skillsphere/internal/http"
	"skillsphere/internal/notify"
	"skillsphere/internal/repository"
	"skillsphere/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(pool); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	behaviorRepo := repository.NewPgBehaviorVectorRepository(pool)
	skillVectorRepo := repository.NewPgSkillVectorRepository(pool)
	skillDNARepo := repository.NewPgSkillDNARepository(pool)
	opportunityRepo := repository.NewPgOpportunityRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	assessmentRepo := repository.NewPgAssessmentRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	loginLimiter := service.NewLoginRateLimiter(10*time.Minute, 5)
	var tokenStore service.RefreshTokenStore
	chatNotifier := notify.NewDisabledNotifier("redis not configured")
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 5)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			chatNotifier = notify.NewRedisNotifier(redisClient, cfg.ChatChannelPrefix)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	analyzer := analysis.NewHTTPClient(cfg.AnalysisBaseURL)

	userSvc := service.NewUserService(logger, userRepo, loginLimiter)
	behaviorSvc := service.NewBehaviorService(logger, behaviorRepo, userRepo)
	skillSvc := service.NewSkillService(logger, skillVectorRepo, skillDNARepo, userRepo)
	opportunitySvc := service.NewOpportunityService(logger, opportunityRepo, userRepo, skillDNARepo, emailSender)
	assessmentSvc := service.NewAssessmentService(logger, assessmentRepo, userRepo, analyzer, skillSvc)
	chatSvc := service.NewChatService(logger, messageRepo, userRepo, chatNotifier)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	behaviorHandler := apihttp.NewBehaviorHandler(logger, behaviorSvc)
	skillHandler := apihttp.NewSkillHandler(logger, skillSvc)
	opportunityHandler := apihttp.NewOpportunityHandler(logger, opportunitySvc)
	assessmentHandler := apihttp.NewAssessmentHandler(logger, assessmentSvc)
	chatHandler := apihttp.NewChatHandler(logger, chatSvc)

	router := apihttp.NewRouter(logger, jwtSvc, userHandler, behaviorHandler, skillHandler, opportunityHandler, assessmentHandler, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
