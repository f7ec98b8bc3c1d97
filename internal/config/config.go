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

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
)

var (
	ErrMissingFormanceCredentials = errors.New("formance ledger backend requires FORMANCE_STACK_URL, FORMANCE_CLIENT_ID and FORMANCE_CLIENT_SECRET")
	ErrUnknownLedgerBackend       = errors.New("unknown LEDGER_BACKEND")
)

// Load reads the configuration from the environment. Variables from a .env
// file are already present when common is imported.
func Load() (*models.Config, error) {
	cfg := &models.Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse environment: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the services cannot start with.
func Validate(cfg *models.Config) error {
	switch cfg.Ledger.Backend {
	case models.LedgerBackendSQLite:
	case models.LedgerBackendFormance:
		if cfg.Ledger.StackURL == "" || cfg.Ledger.ClientID == "" || cfg.Ledger.ClientSecret == "" {
			return ErrMissingFormanceCredentials
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLedgerBackend, cfg.Ledger.Backend)
	}

	if cfg.Database.MaxOpenConns <= 0 || cfg.Database.MaxIdleConns < 0 {
		return fmt.Errorf("invalid database pool size: open=%d idle=%d", cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
	if cfg.Database.PingTimeout <= 0 {
		return fmt.Errorf("invalid DB_PING_TIMEOUT: %s", cfg.Database.PingTimeout)
	}
	if cfg.Client.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid TRTL_HTTP_TIMEOUT: %s", cfg.Client.HTTPTimeout)
	}
	if cfg.Listener.PollingInterval <= 0 {
		return fmt.Errorf("invalid LISTENER_POLLING_INTERVAL: %s", cfg.Listener.PollingInterval)
	}
	return nil
}
