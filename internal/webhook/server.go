package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mymmrac/telego"

	"github.com/mattjoyce/hookbot/internal/provider"
)

const headerBotSecret = "X-Telegram-Bot-Api-Secret-Token"

// Server represents the webhook HTTP server.
type Server struct {
	config   Config
	registry *provider.Registry
	sender   Sender
	bot      UpdateHandler
	logger   *slog.Logger
	server   *http.Server
}

// New creates a new webhook server instance. bot may be nil, in which case
// POST /bot is not served.
func New(config Config, registry *provider.Registry, sender Sender, bot UpdateHandler, logger *slog.Logger) *Server {
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	if config.Listen == "" {
		config.Listen = DefaultListen
	}

	return &Server{
		config:   config,
		registry: registry,
		sender:   sender,
		bot:      bot,
		logger:   logger,
	}
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting",
		"listen", s.config.Listen,
		"providers", s.registry.Names(),
		"bot_endpoint", s.bot != nil,
	)

	// Run server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.respond(w, http.StatusNotFound, respNotFound)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.respond(w, http.StatusOK, respOK)
	})
	r.Post("/webhooks/{provider}", s.handleWebhook)
	r.Post("/webhooks/{provider}/", s.handleWebhook)
	r.Post("/webhooks/{provider}/{recipient}", s.handleWebhook)
	if s.bot != nil {
		r.Post("/bot", s.handleBotUpdate)
	}

	return r
}

// loggingMiddleware logs HTTP requests (excludes sensitive payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Log request (no body content for security)
		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleWebhook verifies, renders and forwards one provider delivery. Once
// the payload is authentic the sender always gets 200; render and delivery
// failures are only logged.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recipient, err := url.PathUnescape(chi.URLParam(r, "recipient"))
	if err != nil || recipient == "" {
		s.respond(w, http.StatusBadRequest, respBadRequest)
		return
	}

	p, ok := s.registry.Lookup(chi.URLParam(r, "provider"))
	if !ok {
		s.respond(w, http.StatusNotFound, respNotFound)
		return
	}

	logger := s.logger.With(
		"provider", p.Name(),
		"recipient", recipient,
		"request_id", requestID(r),
	)

	// Enforce body size limit
	body, err := io.ReadAll(io.LimitReader(r.Body, s.config.MaxBodySize+1))
	if err != nil {
		s.respond(w, http.StatusInternalServerError, respInternalFailure)
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.respond(w, http.StatusRequestEntityTooLarge, respTooLarge)
		return
	}

	if err := p.Verify(recipient, r.Header, body); err != nil {
		logger.Warn("webhook verification failed")
		s.respond(w, http.StatusBadRequest, respBadRequest)
		return
	}

	kind := p.EventKind(r.Header, body)
	msg, ok, err := provider.Dispatch(p, kind, body)
	switch {
	case err != nil:
		logger.Warn("webhook payload could not be rendered", "event", kind, "error", err)
	case !ok:
		logger.Debug("webhook event ignored", "event", kind)
	default:
		if err := s.sender.Send(ctx, recipient, msg); err != nil {
			logger.Error("webhook notification failed", "event", kind, "error", err)
		} else {
			logger.Info("webhook forwarded", "event", kind)
		}
	}

	s.respond(w, http.StatusOK, respOK)
}

// handleBotUpdate feeds a Telegram update to the chat bot. Every decodable
// update is acknowledged with 200, even when routing it failed.
func (s *Server) handleBotUpdate(w http.ResponseWriter, r *http.Request) {
	if s.config.BotSecretToken != "" && !tokenMatches(r.Header.Get(headerBotSecret), s.config.BotSecretToken) {
		s.logger.Warn("bot update rejected", "request_id", requestID(r))
		s.respond(w, http.StatusBadRequest, respBadRequest)
		return
	}

	var update telego.Update
	dec := json.NewDecoder(io.LimitReader(r.Body, s.config.MaxBodySize))
	if err := dec.Decode(&update); err != nil {
		s.logger.Warn("bot update could not be decoded", "error", err)
		s.respond(w, http.StatusOK, respOK)
		return
	}

	if err := s.bot.HandleUpdate(r.Context(), baseURL(r, s.config.PublicURL), update); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("bot update failed", "update_id", update.UpdateID, "error", err)
	}
	s.respond(w, http.StatusOK, respOK)
}

// respond sends a JSON string body.
func (s *Server) respond(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(text)
}
