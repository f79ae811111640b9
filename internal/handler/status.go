package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/logging"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/store"
)

const recentUserLimit = 5

type userCounter interface {
	Count(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int64) ([]domain.User, error)
}

// StatusHandler serves the diagnostics surface: ping, the endpoint directory,
// health, and the database status report.
type StatusHandler struct {
	store   *store.Manager
	users   userCounter
	appEnv  string
	port    int
	started time.Time
}

func NewStatusHandler(s *store.Manager, users userCounter, appEnv string, port int) *StatusHandler {
	return &StatusHandler{
		store:   s,
		users:   users,
		appEnv:  appEnv,
		port:    port,
		started: time.Now(),
	}
}

func (h *StatusHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (h *StatusHandler) APIIndex(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Boostweb API Server",
		"version":   "1.0.0",
		"status":    "running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": map[string]any{
			"ping":     "/ping",
			"health":   "/api/health",
			"dbStatus": "/api/db-status",
			"auth": map[string]string{
				"register":   "POST /api/auth/register",
				"login":      "POST /api/auth/login",
				"checkEmail": "GET /api/auth/check-email",
			},
		},
	})
}

// Health always answers 200; an unreachable store degrades the database block
// instead of failing the check.
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	database := map[string]any{"connected": false}
	if h.store != nil {
		info := h.store.Info()
		database = map[string]any{
			"connected":  info.Connected,
			"name":       info.Database,
			"readyState": info.ReadyState,
			"type":       info.Type,
		}
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"server": map[string]any{
			"environment": h.appEnv,
			"port":        h.port,
			"uptime":      time.Since(h.started).Seconds(),
		},
		"database": database,
	})
}

func (h *StatusHandler) DBStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	info := h.store.Info()

	total, err := h.users.Count(ctx)
	if err != nil {
		h.respondDBError(w, r, err)
		return
	}

	recent, err := h.users.ListRecent(ctx, recentUserLimit)
	if err != nil {
		h.respondDBError(w, r, err)
		return
	}

	recentUsers := make([]map[string]any, 0, len(recent))
	for _, u := range recent {
		recentUsers = append(recentUsers, map[string]any{
			"email":     u.Email,
			"name":      u.Name,
			"userType":  u.UserType,
			"createdAt": u.CreatedAt,
		})
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"database": map[string]any{
			"connected":        info.Connected,
			"name":             info.Database,
			"type":             info.Type,
			"connectionString": info.ConnectionString,
		},
		"users": map[string]any{
			"totalCount":  total,
			"recentUsers": recentUsers,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *StatusHandler) respondDBError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("db status check failed", "error", err)
	RespondJSON(w, http.StatusInternalServerError, map[string]any{
		"success":  false,
		"error":    "database status unavailable",
		"database": map[string]any{"connected": false},
	})
}
