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

	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/internal/store"
)

// ResolveAccounts returns registered accounts based on an optional label or id filter.
// If filter is provided, returns the single matching account.
// If filter is empty, returns all accounts.
func ResolveAccounts(ctx context.Context, registry store.Registry, filter string) ([]models.AccountRecord, error) {
	if filter != "" {
		zap.L().Info("Looking up account", zap.String("account", filter))
		rec, err := registry.GetAccountByLabel(ctx, filter)
		if err != nil {
			rec, err = registry.GetAccount(ctx, filter)
		}
		if err != nil {
			return nil, fmt.Errorf("account not found: %w", err)
		}
		return []models.AccountRecord{*rec}, nil
	}

	accounts, err := registry.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	zap.L().Info("Retrieved accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}
