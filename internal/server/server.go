// Package server wires configuration, stores and routes into a running
// HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nberchet/apothecary/app/controllers"
	gql "github.com/nberchet/apothecary/app/graphql"
	"github.com/nberchet/apothecary/app/repositories"
	"github.com/nberchet/apothecary/app/routes"
	"github.com/nberchet/apothecary/app/services"
	"github.com/nberchet/apothecary/config"
	"github.com/nberchet/apothecary/pkg/auth"
	"github.com/nberchet/apothecary/pkg/cache"
	"github.com/nberchet/apothecary/pkg/database"
	"github.com/nberchet/apothecary/pkg/logger"
	"github.com/nberchet/apothecary/pkg/metrics"
	"github.com/nberchet/apothecary/pkg/middleware"
	"github.com/nberchet/apothecary/pkg/response"
	"github.com/nberchet/apothecary/pkg/router"
)

// Run starts the service and blocks until SIGINT/SIGTERM, then shuts
// down gracefully.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Setup(cfg.AppEnv)

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}

	var mongoSink *logger.MongoHandler
	if cfg.LogMongo {
		mongoSink = logger.NewMongoHandler(db.DB.Collection(database.LogsCollection))
		logger.Attach(mongoSink)
		defer mongoSink.Close()
	}

	// Redis is best-effort: a dead cache degrades to straight Mongo reads.
	store, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Warn("redis unavailable, analytics caching disabled", "error", err)
	}
	defer store.Close()

	r, err := buildRouter(cfg, db, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      r.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// BuildRouter assembles the full middleware stack and route table. Split
// out so the route:list command can render the table without listening.
func BuildRouter(cfg *config.Config) (*router.Router, error) {
	return buildRouter(cfg, nil, nil)
}

func buildRouter(cfg *config.Config, db *database.Mongo, store *cache.Cache) (*router.Router, error) {
	tokens := auth.New(cfg.JWTSecret, auth.DefaultTTL)

	var (
		potionRepo *repositories.PotionRepository
		userRepo   *repositories.UserRepository
	)
	if db != nil {
		potionRepo = repositories.NewPotionRepository(db.DB)
		userRepo = repositories.NewUserRepository(db.DB)
	}

	authService := services.NewAuthService(userRepo, tokens)

	deps := routes.Deps{
		Auth:       controllers.NewAuthController(authService, cfg.CookieName, cfg.Production(), cfg.MaxBodyBytes),
		Potions:    controllers.NewPotionController(potionRepo, store, cfg.MaxBodyBytes),
		Analytics:  controllers.NewAnalyticsController(potionRepo, store, cfg.AnalyticsCacheTTL),
		Tokens:     tokens,
		CookieName: cfg.CookieName,
	}

	if potionRepo != nil {
		schema, err := gql.NewSchema(potionRepo)
		if err != nil {
			return nil, fmt.Errorf("server: graphql schema: %w", err)
		}
		deps.GraphQL = gql.Handler(schema)
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.RequestID,
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.RegisterAPI(r, deps)

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", healthz(db))

	return r, nil
}

func healthz(db *database.Mongo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Client.Ping(ctx, nil); err != nil {
				response.Err(w, http.StatusServiceUnavailable, "mongo unreachable")
				return
			}
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
