package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/portfolio-backend/internal/config"
	"github.com/ayush/portfolio-backend/internal/httpx"
	"github.com/ayush/portfolio-backend/internal/media"
	"github.com/ayush/portfolio-backend/internal/middleware"
	"github.com/ayush/portfolio-backend/internal/project"
	"github.com/ayush/portfolio-backend/internal/store"
	"github.com/ayush/portfolio-backend/internal/token"
	"github.com/ayush/portfolio-backend/internal/user"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.MongoDB)

	users := store.NewUserStore(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}
	projects := store.NewProjectStore(db)

	// ── Redis ────────────────────────────────────────────────
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	revocations := token.NewRevocationList(rdb)

	// ── MinIO ────────────────────────────────────────────────
	uploader, err := media.NewMinioUploader(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
		cfg.MinioBucket, cfg.MinioPublicURL, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	userHandler := user.NewHandler(users, uploader, issuer, revocations)
	projectHandler := project.NewHandler(projects)
	requireAuth := middleware.RequireAuth(issuer, revocations)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1/user", func(r chi.Router) {
		r.Post("/register", httpx.Handle(userHandler.Register))
		r.Post("/login", httpx.Handle(userHandler.Login))
		r.With(requireAuth).Get("/logout", httpx.Handle(userHandler.Logout))
		r.With(requireAuth).Get("/me", httpx.Handle(userHandler.Me))
		r.With(requireAuth).Put("/update/me", httpx.Handle(userHandler.UpdateProfile))
	})

	r.Route("/api/v1/project", func(r chi.Router) {
		r.Get("/getall", httpx.Handle(projectHandler.List))
		r.Get("/get/{id}", httpx.Handle(projectHandler.Get))
		r.With(requireAuth).Post("/add", httpx.Handle(projectHandler.Add))
		r.With(requireAuth).Put("/update/{id}", httpx.Handle(projectHandler.Update))
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
