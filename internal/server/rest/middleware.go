package rest

import (
	"net/http"
	"regexp"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/logging"
	"github.com/dmitrijs2005/bookmarker/internal/server/auth"
	"github.com/google/uuid"
)

var bearerTokenRE = regexp.MustCompile(`^` + common.BearerScheme + ` ([^\s]+)$`)

// requestID reuses a well-formed X-Request-ID from the client or assigns a
// new one, echoes it back and adds it to the logging context.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeaderName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, id)

		ctx := logging.ContextWith(r.Context(), "request_id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info(r.Context(), "http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				s.logger.Error(r.Context(), "panic",
					"error", p,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without a valid bearer token before next
// runs. On success the token's identity is put into the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := s.authenticate(r)
		if err != nil {
			s.logger.Debug(r.Context(), "bearer token rejected", "reason", err.Error())
			s.writeError(w, r, err)
			return
		}

		ctx := auth.WithIdentity(r.Context(), id)
		ctx = logging.ContextWith(ctx, "user_id", id.UserID)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) authenticate(r *http.Request) (auth.Identity, error) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" {
		return auth.Identity{}, common.ErrMissingToken
	}

	groups := bearerTokenRE.FindStringSubmatch(header)
	if len(groups) != 2 {
		return auth.Identity{}, common.ErrMissingToken
	}

	return s.tokens.Parse(groups[1])
}
