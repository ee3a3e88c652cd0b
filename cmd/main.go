package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"registration-service/internal/accounts"
	"registration-service/internal/config"
	"registration-service/internal/documents"
	"registration-service/internal/profiles"
	"registration-service/internal/registration"
	"registration-service/internal/sessions"
	"registration-service/internal/verification"
	"registration-service/migrations"
	"registration-service/pkg/db"
	"registration-service/pkg/jwt"
	"registration-service/pkg/kafka"
	"registration-service/pkg/logger"
	rredis "registration-service/pkg/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 1. Config + logger ──
	cfg := config.Load()
	log := logger.New(cfg.ServiceName)

	// ── 2. JWT secret ──
	if err := jwt.Init(cfg.JWTSecret); err != nil {
		log.Error("jwt init failed", logger.Error(err))
		os.Exit(1)
	}

	// ── 3. PostgreSQL ──
	database, err := db.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("postgres connect failed", logger.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	if err := database.RunMigrations(ctx, migrations.FS); err != nil {
		log.Error("migrations failed", logger.Error(err))
		os.Exit(1)
	}

	// ── 4. Redis ──
	redisClient, err := rredis.NewClient(cfg.RedisAddr, log)
	if err != nil {
		log.Error("redis connect failed", logger.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()

	// ── 5. Kafka ──
	brokers := strings.Split(cfg.KafkaBrokers, ",")
	kafkaClient := kafka.NewClient(brokers, logger.New("kafka"))

	if err := kafkaClient.EnsureTopics(ctx,
		kafka.TopicUserRegistered,
		kafka.TopicDocumentUploaded,
	); err != nil {
		log.Error("kafka topics failed", logger.Error(err))
		os.Exit(1)
	}

	// ── 6. Document store ──
	docStore, err := documents.NewDiskStore(cfg.StorageDir, documents.Buckets(), cfg.MaxUploadSizeMB)
	if err != nil {
		log.Error("document store init failed", logger.Error(err))
		os.Exit(1)
	}

	// ── 7. Services ──
	sessionStore := sessions.NewStore(redisClient)
	profileSvc := profiles.NewService(database.Pool)
	accountSvc := accounts.NewService(database.Pool, profileSvc, sessionStore, logger.New("accounts"))
	documentSvc := documents.NewService(docStore, cfg.PublicBaseURL, kafkaClient, logger.New("documents"))
	orchestrator := registration.NewOrchestrator(
		accountSvc, documentSvc, profileSvc, kafkaClient, logger.New("registration"))

	mailer := verification.NewMailer(cfg.MailAPIKey, cfg.MailFromEmail)
	verificationSvc := verification.NewService(
		redisClient, accountSvc, mailer, cfg.VerifyBaseURL, logger.New("verification"))

	// ── 8. Background consumers ──
	verification.NewConsumer(kafkaClient, verificationSvc, logger.New("verification")).Start(ctx)

	// ── 9. HTTP router ──
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(jwt.OptionalAuth)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"registration-service"}`))
	})

	r.Mount("/auth", accounts.NewHandler(accountSvc).Routes())
	r.Mount("/register", registration.NewHandler(orchestrator, cfg.MaxUploadSizeMB).Routes())
	r.Mount("/verify", verification.NewHandler(verificationSvc).Routes())
	r.Mount("/profiles", profiles.NewHandler(profileSvc).Routes())
	r.Mount("/documents", documents.NewHandler(documentSvc, profileSvc, cfg.MaxUploadSizeMB).Routes())

	// Serve stored documents at their public URLs.
	r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.StorageDir))))

	// ── 10. Start server ──
	addr := ":" + strconv.Itoa(cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Info("registration-service listening", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", logger.Error(err))
			os.Exit(1)
		}
	}()

	// ── 11. Graceful shutdown ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	srv.Shutdown(shutCtx)
	cancel() // stop consumers
}
