package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/campus-works/internal/config"
	"github.com/yukikurage/campus-works/internal/database"
	"github.com/yukikurage/campus-works/internal/identity"
	"github.com/yukikurage/campus-works/internal/notify"
	"github.com/yukikurage/campus-works/internal/payment"
	"github.com/yukikurage/campus-works/internal/repository"
	"github.com/yukikurage/campus-works/internal/services"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config

	dispatcher *notify.Dispatcher
	closers    []func() error
}

// Init connects to the database and builds the router from cfg
func Init(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Connected to database")

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Server{DB: db, Config: cfg}

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,              // Redis pool size
		"tcp",           // network type
		cfg.RedisAddr(), // Redis address from config
		"",              // username (empty for default user)
		"",              // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis store: %w", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	// Notifications go to open event streams and, when enabled, Redis
	hub := notify.NewHub()
	publishers := notify.MultiPublisher{hub}
	if cfg.NotifyRedisEnabled {
		redisPublisher := notify.NewRedisPublisher(notify.NewRedisPool(cfg.RedisAddr()))
		publishers = append(publishers, redisPublisher)
		s.closers = append(s.closers, redisPublisher.Close)
	}
	s.dispatcher = notify.NewDispatcher(repository.NewNotificationRepository(db), publishers)

	verifier, err := newVerifier(cfg)
	if err != nil {
		return nil, err
	}

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	s.Engine = NewRouter(Deps{
		DB:             db,
		Sessions:       store,
		AllowedOrigins: cfg.AllowedOrigins,
		Verifier:       verifier,
		Gateway:        payment.NewSimulatedGateway(cfg.PaymentKeySecret),
		Fees:           payment.NewFeeCalculator(cfg.PlatformFeePercent),
		Notifier:       s.dispatcher,
		Events:         hub,
		AI:             aiService,
	})
	return s, nil
}

func newVerifier(cfg *config.Config) (identity.Verifier, error) {
	if cfg.IdentityJWKSURL != "" {
		verifier, err := identity.NewJWKSVerifier(cfg.IdentityJWKSURL, cfg.IdentityIssuer, cfg.IdentityAudience)
		if err != nil {
			return nil, fmt.Errorf("failed to load identity keys: %w", err)
		}
		return verifier, nil
	}
	log.Println("IDENTITY_JWKS_URL not set, verifying identity tokens with the shared secret")
	return identity.NewSharedSecretVerifier(cfg.IdentitySharedSecret, cfg.IdentityIssuer, cfg.IdentityAudience), nil
}

// Run serves until SIGINT or SIGTERM, then drains requests and pending
// notifications
func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.Port,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("Server starting on :%s", s.Config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	s.dispatcher.Wait()
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			log.Printf("Failed to close resource: %v", err)
		}
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server exited properly")
}
