package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/config"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/handler"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/logging"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/middleware"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/repository"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/service"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/store"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/web"
)

func main() {
	// Missing .env is normal in deployed environments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("boostweb-api", cfg.LogLevel, cfg.Production())

	mgr := store.NewManager(store.Options{
		AtlasURI:               cfg.AtlasURI,
		LocalURI:               cfg.LocalURI,
		ConnectTimeout:         time.Duration(cfg.ConnectTimeoutS) * time.Second,
		ServerSelectionTimeout: time.Duration(cfg.ServerSelectionTimeoutS) * time.Second,
		SocketTimeout:          time.Duration(cfg.SocketTimeoutS) * time.Second,
		MinPoolSize:            uint64(cfg.MinPoolSize),
		MaxPoolSize:            uint64(cfg.MaxPoolSize),
		MaxRetries:             cfg.ConnectRetries,
	}, slog.Default())

	// Store connection comes before listening. Failure is fatal outside
	// development; in development the server starts degraded.
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), time.Minute)
	if err := mgr.Connect(connectCtx); err != nil {
		if !cfg.Development() {
			slog.Error("failed to connect to database", "error", err)
			cancelConnect()
			os.Exit(1)
		}
		slog.Warn("starting without a database connection", "error", err)
	}

	users := repository.NewUserRepository(mgr)
	if mgr.Active() {
		if err := users.EnsureIndexes(connectCtx); err != nil {
			slog.Error("failed to ensure indexes", "error", err)
			cancelConnect()
			os.Exit(1)
		}
	}
	cancelConnect()

	authSvc := service.NewAuthService(users, cfg.JWTSecret, cfg.AdminEmails)
	authH := handler.NewAuthHandler(authSvc, int64(cfg.MaxRequestBodyBytes))
	statusH := handler.NewStatusHandler(mgr, users, cfg.AppEnv, cfg.Port)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(authH, statusH, cfg.CORSOrigins),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutS)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), time.Duration(cfg.DisconnectTimeoutS)*time.Second)
	defer cancelDisconnect()
	if err := mgr.Disconnect(disconnectCtx); err != nil {
		slog.Error("failed to disconnect from database", "error", err)
	}

	slog.Info("server stopped")
}

// newRouter assembles the HTTP surface. The static site is the fallback
// route, so unmatched paths get the JSON 404 envelope.
func newRouter(authH *handler.AuthHandler, statusH *handler.StatusHandler, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", statusH.Ping)
	mux.HandleFunc("GET /api", statusH.APIIndex)
	mux.HandleFunc("GET /api/health", statusH.Health)
	mux.HandleFunc("GET /api/db-status", statusH.DBStatus)

	mux.HandleFunc("GET /api/auth/check-email", authH.CheckEmail)
	mux.HandleFunc("POST /api/auth/register", authH.Register)
	mux.HandleFunc("POST /api/auth/login", authH.Login)

	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.Handle("/", handler.NewStaticHandler(web.FS))

	var h http.Handler = mux
	h = middleware.Recovery(h)
	h = middleware.Logging(h)
	h = middleware.CORS(corsOrigins)(h)
	h = middleware.Tracing(h)
	return h
}
