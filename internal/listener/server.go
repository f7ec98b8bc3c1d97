/**
 * Copyright 2025-present The TRTL Apps Go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package listener

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/metrics"
	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/webhook"
)

const (
	maxWebhookBody     = 1 << 20
	healthCheckTimeout = 10 * time.Second
)

// ServerConfig contains configuration for Server
type ServerConfig struct {
	Service          Service
	AppSecret        string
	VerifySignatures bool
}

// Server receives webhook calls from TRTL Apps and exposes health and metrics.
type Server struct {
	service          Service
	appSecret        string
	verifySignatures bool
}

func NewServer(cfg ServerConfig) *Server {
	return &Server{
		service:          cfg.Service,
		appSecret:        cfg.AppSecret,
		verifySignatures: cfg.VerifySignatures,
	}
}

// Router builds the HTTP routes served by the listener
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Post("/webhooks", s.handleWebhook)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	return r
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("", "unreadable").Inc()
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if len(body) > maxWebhookBody {
		zap.L().Warn("Rejected oversized webhook",
			zap.String("remote_addr", r.RemoteAddr))
		metrics.WebhookEvents.WithLabelValues("", "too_large").Inc()
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
		return
	}

	if s.verifySignatures && !webhook.Verify(s.appSecret, r.Header.Get(webhook.SignatureHeader), body) {
		zap.L().Warn("Rejected webhook with invalid signature",
			zap.String("remote_addr", r.RemoteAddr))
		metrics.WebhookEvents.WithLabelValues("", "unauthorized").Inc()
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	event, err := webhook.ParseEvent(body)
	if err != nil {
		zap.L().Warn("Rejected malformed webhook event", zap.Error(err))
		metrics.WebhookEvents.WithLabelValues("", "malformed").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := models.WithSyncSource(r.Context(), models.SourceWebhook)
	result, err := s.service.HandleEvent(ctx, event)
	if err != nil {
		zap.L().Error("Failed to process webhook event",
			zap.String("code", event.Code),
			zap.Error(err))
		metrics.WebhookEvents.WithLabelValues(event.Code, "error").Inc()
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	metrics.WebhookEvents.WithLabelValues(event.Code, "ok").Inc()
	printResult(result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := s.service.HealthCheck(ctx); err != nil {
		zap.L().Warn("Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("Failed to write response", zap.Error(err))
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		zap.L().Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}
