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
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/internal/store"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

var ErrConcurrentModification = errors.New("journal balance modified concurrently")

type movementParams struct {
	AccountId string
	Kind      string
	Amount    int64
}

func (s *Service) RecordDeposit(ctx context.Context, deposit trtl.Deposit) (bool, error) {
	if !store.DepositJournaled(deposit) {
		return false, nil
	}
	err := s.journal(ctx, store.DepositReference(deposit.ID), []movementParams{{
		AccountId: deposit.AccountID,
		Kind:      models.MovementDeposit,
		Amount:    deposit.CreditedAmount,
	}})
	if errors.Is(err, store.ErrDuplicateEvent) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) RecordWithdrawal(ctx context.Context, withdrawal trtl.Withdrawal) (bool, error) {
	if !store.WithdrawalJournaled(withdrawal) {
		return false, nil
	}
	err := s.journal(ctx, store.WithdrawalReference(withdrawal.ID), []movementParams{{
		AccountId: withdrawal.AccountID,
		Kind:      models.MovementWithdrawal,
		Amount:    -withdrawal.Debit(),
	}})
	if errors.Is(err, store.ErrDuplicateEvent) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) RecordTransfer(ctx context.Context, transfer trtl.Transfer) error {
	if err := store.ValidateTransfer(transfer); err != nil {
		return err
	}

	movements := []movementParams{{
		AccountId: transfer.SenderID,
		Kind:      models.MovementTransferOut,
		Amount:    -transfer.Total(),
	}}
	for _, r := range transfer.Recipients {
		movements = append(movements, movementParams{
			AccountId: r.AccountID,
			Kind:      models.MovementTransferIn,
			Amount:    r.Amount,
		})
	}
	return s.journal(ctx, store.TransferReference(transfer.ID), movements)
}

// journal atomically claims reference and applies every movement to the
// account balances.
func (s *Service) journal(ctx context.Context, reference string, movements []movementParams) error {
	source := models.SyncSource(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, queryInsertJournalEvent, reference, source)
	if err != nil {
		return fmt.Errorf("failed to record journal event: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		zap.L().Warn("Duplicate journal reference detected, skipping", zap.String("reference", reference))
		return fmt.Errorf("%w: %s", store.ErrDuplicateEvent, reference)
	}

	now := time.Now().UTC()
	for _, m := range movements {
		if err := s.applyMovement(ctx, tx, reference, source, now, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Journal entry recorded",
		zap.String("reference", reference),
		zap.String("source", source),
		zap.Int("movements", len(movements)))
	return nil
}

func (s *Service) applyMovement(ctx context.Context, tx *sql.Tx, reference, source string, now time.Time, m movementParams) error {
	var balance, version int64
	err := tx.QueryRowContext(ctx, queryGetJournalBalance, m.AccountId).Scan(&balance, &version)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := tx.ExecContext(ctx, queryInsertJournalBalance, m.AccountId); err != nil {
			return fmt.Errorf("failed to create journal balance: %w", err)
		}
		balance, version = 0, 1
	} else if err != nil {
		return fmt.Errorf("failed to get journal balance: %w", err)
	}

	movementId := uuid.New().String()
	newBalance := balance + m.Amount

	if _, err := tx.ExecContext(ctx, queryInsertMovement,
		movementId, m.AccountId, m.Kind, m.Amount, newBalance, reference, source, now); err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}

	result, err := tx.ExecContext(ctx, queryUpdateJournalBalance, newBalance, movementId, m.AccountId, version)
	if err != nil {
		return fmt.Errorf("failed to update journal balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("balance update failed - %w", ErrConcurrentModification)
	}

	zap.L().Debug("Movement applied",
		zap.String("account_id", m.AccountId),
		zap.String("kind", m.Kind),
		zap.Int64("amount", m.Amount),
		zap.Int64("old_balance", balance),
		zap.Int64("new_balance", newBalance))
	return nil
}

func (s *Service) History(ctx context.Context, accountId string, limit, offset int) ([]models.Movement, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, queryGetMovementHistory, accountId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("unable to query movement history: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	movements := []models.Movement{}
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(&m.Id, &m.AccountId, &m.Kind, &m.Amount, &m.BalanceAfter,
			&m.Reference, &m.Source, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan movement row: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", err)
	}
	return movements, nil
}

// Balance returns the journaled balance of the account, 0 if it has none.
func (s *Service) Balance(ctx context.Context, accountId string) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx, queryGetBalance, accountId).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("unable to query journal balance: %w", err)
	}
	return balance, nil
}

// ReconcileBalance compares the stored balance with the sum of movements.
func (s *Service) ReconcileBalance(ctx context.Context, accountId string) error {
	stored, err := s.Balance(ctx, accountId)
	if err != nil {
		return err
	}

	var calculated int64
	if err := s.db.QueryRowContext(ctx, queryReconcileBalance, accountId).Scan(&calculated); err != nil {
		return fmt.Errorf("unable to sum movements: %w", err)
	}

	if stored != calculated {
		zap.L().Error("Journal balance mismatch",
			zap.String("account_id", accountId),
			zap.Int64("stored", stored),
			zap.Int64("calculated", calculated))
		return fmt.Errorf("balance mismatch for %s: stored %d, movements %d", accountId, stored, calculated)
	}
	return nil
}

// ReconcileJournal runs ReconcileBalance for every journaled account and
// returns the ids whose stored balance disagrees with their movements.
func (s *Service) ReconcileJournal(ctx context.Context) ([]string, error) {
	accountIds, err := s.queryIds(ctx, queryJournalAccounts)
	if err != nil {
		return nil, err
	}

	mismatched := []string{}
	for _, accountId := range accountIds {
		if err := s.ReconcileBalance(ctx, accountId); err != nil {
			mismatched = append(mismatched, accountId)
		}
	}
	return mismatched, nil
}
