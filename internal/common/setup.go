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

package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/api"
	"github.com/zoidbergZA/trtl-apps-go/internal/database"
	"github.com/zoidbergZA/trtl-apps-go/internal/formance"
	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/internal/store"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

// init loads environment variables from .env file if it exists
func init() {
	// A missing .env is fine; variables may come from the shell or a container.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Client    *trtl.Client
	DbService *database.Service
	Journal   store.Journal
	App       *api.AppService
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices wires the TRTL Apps client, the local database and the
// configured journal backend into an AppService.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	if err := ApplyProfile(cfg); err != nil {
		return nil, err
	}

	client, err := NewClient(cfg.Client)
	if err != nil {
		return nil, err
	}

	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	var journal store.Journal = dbService
	if cfg.Ledger.Backend == models.LedgerBackendFormance {
		formanceService, err := formance.NewService(ctx, cfg.Ledger)
		if err != nil {
			dbService.Close()
			return nil, err
		}
		formanceService.SetAppID(client.AppID())
		journal = formanceService
	}
	zap.L().Info("Using journal backend", zap.String("backend", cfg.Ledger.Backend))

	return &Services{
		Client:    client,
		DbService: dbService,
		Journal:   journal,
		App:       api.NewAppService(client, dbService, dbService, journal),
	}, nil
}

// InitializeDatabaseOnly initializes just the database service without the API client.
// Useful for read-only operations like listing registered accounts.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	return database.NewService(ctx, cfg.Database)
}

// NewClient returns an initialized TRTL Apps client for cfg.
func NewClient(cfg models.ClientConfig) (*trtl.Client, error) {
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, fmt.Errorf("missing required TRTL Apps credentials: TRTL_APP_ID, TRTL_APP_SECRET")
	}

	client := trtl.New(cfg.AppID, cfg.AppSecret,
		trtl.WithAPIBase(cfg.APIBase),
		trtl.WithTimeout(cfg.HTTPTimeout))

	zap.L().Info("TRTL Apps client ready",
		zap.String("app_id", client.AppID()),
		zap.String("api_base", client.APIBase()))
	return client, nil
}

func (cs *Services) Close() {
	if cs.Journal != nil && cs.Journal != store.Journal(cs.DbService) {
		cs.Journal.Close()
	}
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
