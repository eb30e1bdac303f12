package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5/request"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/service"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/logger"
)

// HeaderWorkspace selects the workspace, one per browser tab. It defaults to
// the shared "default" workspace.
const HeaderWorkspace = "X-Workspace-ID"

var skipLogging = map[string]struct{}{
	"/api/health": {},
}

type ctxKeyWorkspace struct{}

type WorkspaceOpener interface {
	Open(ctx context.Context, id string) (*service.Workspace, error)
}

type TokenParser interface {
	Parse(token string) (*entity.SessionClaims, error)
}

type Middleware struct {
	workspaces WorkspaceOpener
	tokens     TokenParser
}

func NewMiddleware(workspaces WorkspaceOpener, tokens TokenParser) *Middleware {
	return &Middleware{
		workspaces: workspaces,
		tokens:     tokens,
	}
}

func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		ctx = logger.SetRequestID(ctx, requestID)
		ctx = logger.SetMethod(ctx, r.Method)
		ctx = logger.SetURL(ctx, r.URL.Path)
		ctx = logger.SetLogType(ctx, "webrequest")
		w.Header().Set("X-Request-Id", requestID)

		if _, ok := skipLogging[r.URL.Path]; ok {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		start := time.Now()

		slog.InfoContext(ctx, "incoming request", "request", fmt.Sprintf("%s %s", r.Method, r.URL.Redacted()))

		next.ServeHTTP(w, r.WithContext(ctx))

		slog.InfoContext(ctx, "request completed", "duration_ms", time.Since(start).Milliseconds())
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			err := recover()
			if err != nil {
				slog.ErrorContext(ctx, "recovered from panic", "error", err, "stack", string(debug.Stack()))
				SendJSONErr(ctx, w, http.StatusInternalServerError, fmt.Errorf("panic: %v", err), "Internal error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, Accept, Cache-Control, "+HeaderWorkspace)
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id, "+HeaderPersistenceWarning)

		if r.Method == http.MethodOptions {
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Workspace opens the workspace named by the request header.
func (m *Middleware) Workspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ws, err := m.workspaces.Open(ctx, r.Header.Get(HeaderWorkspace))
		if err != nil {
			sendServiceErr(ctx, w, err, "Failed to open workspace")
			return
		}

		ctx = context.WithValue(ctx, ctxKeyWorkspace{}, ws)
		ctx = context.WithValue(ctx, entity.CtxKeyWorkspace{}, ws.ID)
		ctx = logger.SetWorkspace(ctx, ws.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerAuth accepts a token only while it belongs to the user currently
// signed in to the same workspace. Signing out or signing in as someone else
// invalidates earlier tokens.
func (m *Middleware) BearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := request.BearerExtractor{}.ExtractToken(r)
		if err != nil {
			SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Token is missing")
			return
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Invalid token")
			return
		}

		ws := workspaceFromCtx(ctx)
		if ws == nil || claims.Workspace != ws.ID {
			SendJSONErr(ctx, w, http.StatusUnauthorized, entity.ErrInvalidToken, "Token belongs to another workspace")
			return
		}

		current := ws.Session.Current()
		if current == nil || current.ID != claims.UserID {
			SendJSONErr(ctx, w, http.StatusUnauthorized, entity.ErrNoActiveSession, "Session has ended")
			return
		}

		ctx = context.WithValue(ctx, entity.CtxKeyClaims{}, claims)
		ctx = logger.SetUserID(ctx, claims.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func workspaceFromCtx(ctx context.Context) *service.Workspace {
	ws, _ := ctx.Value(ctxKeyWorkspace{}).(*service.Workspace)
	return ws
}
