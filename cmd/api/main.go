// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/agrostack/fieldops/internal/auth"
	"github.com/agrostack/fieldops/internal/config"
	"github.com/agrostack/fieldops/internal/handler"
	"github.com/agrostack/fieldops/internal/middleware"
	"github.com/agrostack/fieldops/internal/repository"
	"github.com/agrostack/fieldops/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(log)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	sectorRepo := repository.NewSectorRepository(db)
	pivotRepo := repository.NewPivotRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	cropRepo := repository.NewCropRepository(db)
	rotationRepo := repository.NewRotationRepository(db)

	// Initialize auth services
	passwordHasher := auth.NewPasswordHasher()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Initialize services
	gate := service.NewOwnerGate(companyRepo, regionRepo, sectorRepo)
	userService := service.NewUserService(userRepo, passwordHasher, tokenManager)
	assetService := service.NewAssetService(companyRepo, regionRepo, sectorRepo, gate)
	plantationService := service.NewPlantationService(pivotRepo, fieldRepo, cropRepo, gate)
	cropService := service.NewCropService(cropRepo)
	rotationService := service.NewRotationService(rotationRepo, pivotRepo, fieldRepo, cropRepo, companyRepo, gate)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	companyHandler := handler.NewCompanyHandler(assetService)
	regionHandler := handler.NewRegionHandler(assetService)
	sectorHandler := handler.NewSectorHandler(assetService)
	pivotHandler := handler.NewPivotHandler(plantationService)
	fieldHandler := handler.NewFieldHandler(plantationService)
	cropHandler := handler.NewCropHandler(cropService)
	rotationHandler := handler.NewRotationHandler(rotationService)

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))

				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokenManager))

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", companyHandler.List)
				r.Post("/", companyHandler.Create)
				r.Get("/{id}", companyHandler.Get)
				r.Put("/{id}", companyHandler.Update)
				r.Delete("/{id}", companyHandler.Delete)
			})

			r.Route("/regions", func(r chi.Router) {
				r.Get("/", regionHandler.List)
				r.Post("/", regionHandler.Create)
				r.Get("/{id}", regionHandler.Get)
				r.Put("/{id}", regionHandler.Update)
				r.Delete("/{id}", regionHandler.Delete)
			})

			r.Route("/sectors", func(r chi.Router) {
				r.Get("/", sectorHandler.List)
				r.Post("/", sectorHandler.Create)
				r.Get("/{id}", sectorHandler.Get)
				r.Put("/{id}", sectorHandler.Update)
				r.Delete("/{id}", sectorHandler.Delete)
			})

			r.Route("/pivots", func(r chi.Router) {
				r.Get("/", pivotHandler.List)
				r.Post("/", pivotHandler.Create)
				r.Get("/{id}", pivotHandler.Get)
				r.Put("/{id}", pivotHandler.Update)
				r.Delete("/{id}", pivotHandler.Delete)
			})

			r.Route("/fields", func(r chi.Router) {
				r.Get("/", fieldHandler.List)
				r.Post("/", fieldHandler.Create)
				r.Get("/{id}", fieldHandler.Get)
				r.Put("/{id}", fieldHandler.Update)
				r.Delete("/{id}", fieldHandler.Delete)
			})

			r.Route("/crops", func(r chi.Router) {
				r.Get("/", cropHandler.List)
				r.Post("/", cropHandler.Create)
				r.Get("/{id}", cropHandler.Get)
			})

			r.Route("/rotations", func(r chi.Router) {
				r.Get("/", rotationHandler.List)
				r.Post("/", rotationHandler.Create)
				r.Get("/{id}", rotationHandler.Get)
				r.Put("/{id}", rotationHandler.Update)
				r.Delete("/{id}", rotationHandler.Delete)
				r.Get("/{id}/entries", rotationHandler.ListEntries)
				r.Post("/{id}/entries", rotationHandler.AddEntry)
				r.Get("/{id}/entries/{entryID}", rotationHandler.GetEntry)
				r.Put("/{id}/entries/{entryID}", rotationHandler.UpdateEntry)
				r.Delete("/{id}/entries/{entryID}", rotationHandler.DeleteEntry)
			})
		})
	})

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func loggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration", time.Since(start),
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"requestID", chimw.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoveryMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Error("panic recovered",
						"error", errors.New("panic recovered"),
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":"error encountered"}`))
					return
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
