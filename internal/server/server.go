package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"foliocms/internal/app"
	"foliocms/internal/util"
	"foliocms/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App               *app.App
	MaxUploadBytes    int64
	TrustForwardedFor bool
}

// Server exposes the HTTP API.
type Server struct {
	app            *app.App
	mux            *http.ServeMux
	maxUploadBytes int64
	trustForwarded bool
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	maxUploadBytes := cfg.MaxUploadBytes
	if maxUploadBytes <= 0 {
		maxUploadBytes = app.UploadLimitPro
	}
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		maxUploadBytes: maxUploadBytes,
		trustForwarded: cfg.TrustForwardedFor,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler wrapped in the middleware chain.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/signup", s.handleSignUp)
	s.mux.HandleFunc("/api/auth/signin", s.handleSignIn)
	s.mux.HandleFunc("/api/auth/signout", s.handleSignOut)
	s.mux.HandleFunc("/api/auth/me", s.handleMe)
	s.mux.HandleFunc("/api/auth/reset-password", s.handleResetPassword)
	s.mux.HandleFunc("/api/auth/update-password", s.handleUpdatePassword)

	// data plane
	s.mux.HandleFunc("/api/data/", s.handleData)

	// blob storage
	s.mux.HandleFunc("/api/storage/upload", s.handleUpload)
	s.mux.HandleFunc("/api/storage/signed-url", s.handleSignedURL)
	s.mux.HandleFunc("/api/storage/delete", s.handleStorageDelete)
	s.mux.HandleFunc("/api/storage/list", s.handleStorageList)

	// public site surface
	s.mux.HandleFunc("/api/site/public/", s.handlePublicSite)
	s.mux.HandleFunc("/api/site/by-domain", s.handleSiteByDomain)
	s.mux.HandleFunc("/api/site/all", s.handleSiteAll)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) clientIP(r *http.Request) string {
	return util.ClientIP(r, s.trustForwarded)
}

type principalHandler func(http.ResponseWriter, *http.Request, *domain.Principal)

// withPrincipal rejects requests without a live authenticated user.
func (s *Server) withPrincipal(next principalHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := s.app.Authenticate(r)
		if principal == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, principal)
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      errorCode(status),
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}

// writeAppError maps classified application errors onto HTTP statuses.
// Internal causes are logged and replaced with a generic body.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch app.Classify(err) {
	case app.ErrValidation, app.ErrConflict:
		writeError(w, http.StatusBadRequest, err.Error())
	case app.ErrUnauthenticated:
		writeError(w, http.StatusUnauthorized, err.Error())
	case app.ErrForbidden:
		writeError(w, http.StatusForbidden, err.Error())
	case app.ErrNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	default:
		util.LoggerFromContext(r.Context()).Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "REQUEST_INVALID"
	case http.StatusUnauthorized:
		return "AUTH_INVALID_TOKEN"
	case http.StatusForbidden:
		return "AUTH_FORBIDDEN"
	case http.StatusNotFound:
		return "RESOURCE_NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "SYSTEM_METHOD_NOT_ALLOWED"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		if status >= http.StatusInternalServerError {
			return "SYSTEM_INTERNAL_ERROR"
		}
		return "REQUEST_ERROR"
	}
}
