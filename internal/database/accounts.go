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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/internal/store"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.AccountRecord, error) {
	var rec models.AccountRecord
	err := row.Scan(&rec.Id, &rec.AppId, &rec.Label, &rec.PaymentId,
		&rec.DepositAddress, &rec.WithdrawAddress, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Service) SaveAccount(ctx context.Context, record models.AccountRecord) (*models.AccountRecord, error) {
	if record.Id == "" {
		return nil, fmt.Errorf("account id cannot be empty")
	}
	record.Label = strings.TrimSpace(record.Label)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, queryInsertAccount,
		record.Id, record.AppId, record.Label, record.PaymentId,
		record.DepositAddress, record.WithdrawAddress, record.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique && record.Label != "" {
			return nil, fmt.Errorf("%w: %s", store.ErrLabelTaken, record.Label)
		}
		zap.L().Error("Failed to save account", zap.String("account_id", record.Id), zap.Error(err))
		return nil, fmt.Errorf("unable to save account: %w", err)
	}

	zap.L().Info("Account registered",
		zap.String("account_id", record.Id),
		zap.String("label", record.Label))
	return &record, nil
}

func (s *Service) GetAccount(ctx context.Context, accountId string) (*models.AccountRecord, error) {
	rec, err := scanAccount(s.db.QueryRowContext(ctx, queryGetAccount, accountId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
		}
		return nil, fmt.Errorf("unable to query account: %w", err)
	}
	return rec, nil
}

func (s *Service) GetAccountByLabel(ctx context.Context, label string) (*models.AccountRecord, error) {
	rec, err := scanAccount(s.db.QueryRowContext(ctx, queryGetAccountByLabel, strings.TrimSpace(label)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, label)
		}
		return nil, fmt.Errorf("unable to query account by label: %w", err)
	}
	return rec, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]models.AccountRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryListAccounts)
	if err != nil {
		return nil, fmt.Errorf("unable to query accounts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var accounts []models.AccountRecord
	for rows.Next() {
		rec, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan account row: %w", err)
		}
		accounts = append(accounts, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	zap.L().Debug("Retrieved accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}

func (s *Service) UpdateWithdrawAddress(ctx context.Context, accountId, address string) error {
	result, err := s.db.ExecContext(ctx, queryUpdateWithdrawAddress, address, accountId)
	if err != nil {
		return fmt.Errorf("unable to update withdraw address: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
	}
	return nil
}
