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

	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

// TrackDeposit upserts the deposit unless the stored status is further along
// or the stored row is already finished.
func (s *Service) TrackDeposit(ctx context.Context, deposit trtl.Deposit) (bool, error) {
	if deposit.ID == "" {
		return false, fmt.Errorf("deposit id cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current trtl.DepositStatus
	var finished bool
	err = tx.QueryRowContext(ctx, queryGetDepositStatus, deposit.ID).Scan(&current, &finished)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("unable to query deposit: %w", err)
	}

	if exists && (!current.CanAdvanceTo(deposit.Status) || (finished && !deposit.Finished())) {
		zap.L().Debug("Ignoring stale deposit status",
			zap.String("deposit_id", deposit.ID),
			zap.String("stored", string(current)),
			zap.String("received", string(deposit.Status)))
		return false, nil
	}

	_, err = tx.ExecContext(ctx, queryUpsertDeposit,
		deposit.ID, deposit.AccountID, string(deposit.Status), deposit.Amount, deposit.CreditedAmount,
		deposit.Expired, deposit.Cancelled, deposit.Finished(), deposit.LastUpdate)
	if err != nil {
		return false, fmt.Errorf("unable to upsert deposit: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	changed := !exists || current != deposit.Status || finished != deposit.Finished()
	if changed {
		zap.L().Info("Deposit status tracked",
			zap.String("deposit_id", deposit.ID),
			zap.String("account_id", deposit.AccountID),
			zap.String("status", string(deposit.Status)))
	}
	return changed, nil
}

// TrackWithdrawal upserts the withdrawal unless the stored status is further
// along or already terminal.
func (s *Service) TrackWithdrawal(ctx context.Context, withdrawal trtl.Withdrawal) (bool, error) {
	if withdrawal.ID == "" {
		return false, fmt.Errorf("withdrawal id cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current trtl.WithdrawalStatus
	err = tx.QueryRowContext(ctx, queryGetWithdrawalStatus, withdrawal.ID).Scan(&current)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("unable to query withdrawal: %w", err)
	}

	if exists && !current.CanAdvanceTo(withdrawal.Status) {
		zap.L().Debug("Ignoring stale withdrawal status",
			zap.String("withdrawal_id", withdrawal.ID),
			zap.String("stored", string(current)),
			zap.String("received", string(withdrawal.Status)))
		return false, nil
	}

	_, err = tx.ExecContext(ctx, queryUpsertWithdrawal,
		withdrawal.ID, withdrawal.AccountID, string(withdrawal.Status), withdrawal.Amount, withdrawal.Fees.Total(),
		withdrawal.Failed, withdrawal.TxHash, withdrawal.Status.IsTerminal(), withdrawal.LastUpdate)
	if err != nil {
		return false, fmt.Errorf("unable to upsert withdrawal: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	changed := !exists || current != withdrawal.Status
	if changed {
		zap.L().Info("Withdrawal status tracked",
			zap.String("withdrawal_id", withdrawal.ID),
			zap.String("account_id", withdrawal.AccountID),
			zap.String("status", string(withdrawal.Status)))
	}
	return changed, nil
}

func (s *Service) PendingDeposits(ctx context.Context) ([]string, error) {
	return s.queryIds(ctx, queryPendingDeposits)
}

func (s *Service) PendingWithdrawals(ctx context.Context) ([]string, error) {
	return s.queryIds(ctx, queryPendingWithdrawals)
}

func (s *Service) queryIds(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unable to query pending ids: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("unable to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating id rows: %w", err)
	}
	return ids, nil
}
