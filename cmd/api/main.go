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

	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/config"
	"github.com/dangerclosesec/liaison/internal/email"
	"github.com/dangerclosesec/liaison/internal/email/mailer"
	"github.com/dangerclosesec/liaison/internal/events"
	"github.com/dangerclosesec/liaison/internal/handler"
	"github.com/dangerclosesec/liaison/internal/middleware"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/service"
	"github.com/dangerclosesec/liaison/internal/validation"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
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
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
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
	slog.SetDefault(logger)

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(ctx, cfg.DSN(), gormLogLevel())
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Repositories
	membershipRepo := repository.NewMembershipRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Shared collaborators
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(logger, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info("publishing mutation events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	defer publisher.Close()

	var cache *service.CacheService
	if cfg.Redis.Addr != "" {
		cache, err = service.NewCacheService(ctx, service.CacheConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer cache.Close()
	}

	notifier, err := setupNotifier(cfg)
	if err != nil {
		return fmt.Errorf("setting up email: %w", err)
	}

	auditLogService := service.NewAuditLogService(auditRepo)
	deps := service.Deps{
		Validator: validation.New(),
		Audit:     auditLogService,
		Events:    publisher,
		Logger:    logger,
	}

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Services
	companyService := service.NewCompanyService(
		repository.NewGormRepository[model.Company](db),
		membershipRepo,
		auth.NewPassphraseHasher(),
		cache,
		deps,
	)
	teamService := service.NewTeamService(repository.NewGormRepository[model.Team](db), membershipRepo, deps)
	clientRequestService := service.NewClientRequestService(repository.NewGormRepository[model.ClientRequest](db), deps)
	liaisonRequestService := service.NewLiaisonRequestService(repository.NewGormRepository[model.LiaisonRequest](db), notifier, deps)
	supplierResponseService := service.NewSupplierResponseService(repository.NewGormRepository[model.SupplierResponse](db), deps)
	liaisonResponseService := service.NewLiaisonResponseService(repository.NewGormRepository[model.LiaisonResponse](db), notifier, deps)
	usersToCompanyService := service.NewUsersToCompanyService(repository.NewGormRepository[model.UsersToCompany](db), deps)
	usersToTeamService := service.NewUsersToTeamService(repository.NewGormRepository[model.UsersToTeam](db), deps)

	reconciler := service.NewMembershipReconciler(membershipRepo, cfg.Reconcile.Interval, logger)
	reconciler.SetBatchSize(cfg.Reconcile.BatchSize)
	reconciler.Start()
	defer reconciler.Stop()

	// Handlers
	companyHandler := handler.NewCompanyHandler(companyService)
	auditLogHandler := handler.NewAuditLogHandler(auditLogService)

	rpc := handler.NewRPCHandler()
	companyHandler.RegisterRPC(rpc)

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      os.Getenv("APP_ENV") == "development",
	}).Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.Limit(cfg.RateLimit.Requests, cfg.RateLimit.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate limit exceeded"}`))
		}),
	))
	r.Use(chimw.Compress(5))
	r.Use(middleware.AuditMiddleware)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(tokenManager))

		r.Route("/api", func(r chi.Router) {
			mount[model.Company, service.NewCompanyParams, service.UpdateCompanyParams](r, rpc, "companies", "Company", "Companies", companyService, func(r chi.Router) {
				r.Post("/{id}/join", companyHandler.Join)
			})
			mount[model.Team, service.NewTeamParams, service.UpdateTeamParams](r, rpc, "teams", "Team", "Teams", teamService)
			mount[model.ClientRequest, service.NewClientRequestParams, service.UpdateClientRequestParams](r, rpc, "clientRequests", "ClientRequest", "ClientRequests", clientRequestService)
			mount[model.LiaisonRequest, service.NewLiaisonRequestParams, service.UpdateLiaisonRequestParams](r, rpc, "liaisonRequests", "LiaisonRequest", "LiaisonRequests", liaisonRequestService)
			mount[model.SupplierResponse, service.NewSupplierResponseParams, service.UpdateSupplierResponseParams](r, rpc, "supplierResponses", "SupplierResponse", "SupplierResponses", supplierResponseService)
			mount[model.LiaisonResponse, service.NewLiaisonResponseParams, service.UpdateLiaisonResponseParams](r, rpc, "liaisonResponses", "LiaisonResponse", "LiaisonResponses", liaisonResponseService)
			mount[model.UsersToCompany, service.NewUsersToCompanyParams, service.UpdateUsersToCompanyParams](r, rpc, "usersToCompanies", "UsersToCompany", "UsersToCompanies", usersToCompanyService)
			mount[model.UsersToTeam, service.NewUsersToTeamParams, service.UpdateUsersToTeamParams](r, rpc, "usersToTeams", "UsersToTeam", "UsersToTeams", usersToTeamService)

			r.Get("/audit-logs", auditLogHandler.GetAuditLogs)
		})

		r.Post("/rpc/{procedure}", rpc.ServeHTTP)
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

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "procedures", len(rpc.Procedures()))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutdown started")

		// Give outstanding requests a deadline for completion
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// mount serves one entity at /api/<path> and registers its RPC procedures
// under the same router name. extra adds routes to the entity subrouter.
func mount[T, C, U any](r chi.Router, rpc *handler.RPCHandler, path, singular, plural string, svc handler.ResourceService[T, C, U], extra ...func(chi.Router)) {
	r.Route("/"+path, func(r chi.Router) {
		handler.NewResourceHandler[T, C, U](svc).Register(r)
		for _, fn := range extra {
			fn(r)
		}
	})
	handler.RegisterResource[T, C, U](rpc, path, singular, plural, svc)
}

// setupNotifier returns a mail-backed notifier, or a no-op one when
// EMAIL_PROVIDER is "none".
func setupNotifier(cfg *config.Config) (service.Notifier, error) {
	switch cfg.Email.Provider {
	case "", "none":
		return service.NoopNotifier{}, nil
	}

	emailService, err := email.NewEmailService(cfg, email.Provider(cfg.Email.Provider))
	if err != nil {
		return nil, err
	}
	return mailer.NewNotifier(emailService, cfg.BaseURL), nil
}

func gormLogLevel() logger.LogLevel {
	if os.Getenv("APP_ENV") == "development" {
		return logger.Info
	}
	return logger.Warn
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request completed",
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

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						"error", errors.New("panic recovered"),
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":"internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
