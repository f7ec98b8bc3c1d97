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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zoidbergZA/trtl-apps-go/internal/common"
	"github.com/zoidbergZA/trtl-apps-go/internal/config"
	"github.com/zoidbergZA/trtl-apps-go/internal/listener"
)

const shutdownTimeout = 30 * time.Second

func main() {
	appFlag := flag.String("app", "", "App profile from the apps file (optional)")
	noPollFlag := flag.Bool("no-poll", false, "Only serve webhooks, do not poll pending deposits and withdrawals")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	if *appFlag != "" {
		cfg.Client.Profile = *appFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.L().Info("Starting TRTL Apps listener")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if !cfg.Listener.VerifySignatures {
		zap.L().Warn("Webhook signature verification is disabled")
	}

	server := listener.NewServer(listener.ServerConfig{
		Service:          services.App,
		AppSecret:        cfg.Client.AppSecret,
		VerifySignatures: cfg.Listener.VerifySignatures,
	})
	httpServer := &http.Server{
		Addr:              cfg.Listener.Address,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	if !*noPollFlag {
		poller := listener.NewPoller(listener.PollerConfig{
			Service:         services.App,
			Tracker:         services.DbService,
			PollingInterval: cfg.Listener.PollingInterval,
		})
		g.Go(func() error {
			if err := poller.Start(ctx); err != nil {
				return fmt.Errorf("poller error: %w", err)
			}
			<-ctx.Done()
			poller.Stop()
			return nil
		})
	}

	g.Go(func() error {
		zap.L().Info("Listening for webhooks", zap.String("address", cfg.Listener.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		zap.L().Info("Shutdown signal received, stopping listener...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		zap.L().Info("Listener stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("Listener terminated with error", zap.Error(err))
	}
}
