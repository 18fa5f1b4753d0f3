package http

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"reservation-backoffice/internal/config"
	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type actorKey struct{}

func withActor(ctx context.Context, actor domain.ActorContext) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the caller resolved by the auth middleware. The zero ActorContext
// is returned on public routes and is rejected by every service call.
func ActorFrom(ctx context.Context) domain.ActorContext {
	actor, _ := ctx.Value(actorKey{}).(domain.ActorContext)
	return actor
}

// statusRecorder captures the status code for access logs
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestLogging assigns a request ID and logs every request once it completes
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := logger.WithRequestID(r.Context(), id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(r.Context(), "Panic while serving request", "panic", p, "stack", string(debug.Stack()))
				writeError(w, r, fmt.Errorf("panic: %v", p))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Authenticator enforces the security level configured for the matched route
type Authenticator struct {
	sessions   *security.SessionResolver
	cronSecret string
}

func NewAuthenticator(sessions *security.SessionResolver, cronSecret string) *Authenticator {
	return &Authenticator{sessions: sessions, cronSecret: cronSecret}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		level := config.GetSecurityLevel(name)

		switch level {
		case config.SecurityPublic:
			next.ServeHTTP(w, r)
			return
		case config.SecurityCron:
			token := bearerToken(r)
			if a.cronSecret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(a.cronSecret)) != 1 {
				writeError(w, r, domain.NewAuthError("invalid cron secret"))
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeError(w, r, domain.NewAuthError("authentication required"))
			return
		}
		actor, err := a.sessions.Resolve(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		switch {
		case level == config.SecurityAdmin && !actor.IsAdmin():
			writeError(w, r, domain.NewPermissionError("administrator role required"))
			return
		case level == config.SecurityValidator && !actor.IsValidator():
			writeError(w, r, domain.NewPermissionError("administrator or commission role required"))
			return
		}

		ctx := withActor(r.Context(), actor)
		ctx = logger.WithActorID(ctx, actor.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
