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

package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

// PreviewWithdrawal quotes a withdrawal for the account. No funds move.
func (s *AppService) PreviewWithdrawal(ctx context.Context, account string, amount int64, address string) (*trtl.WithdrawalPreview, error) {
	accountId, err := s.ResolveAccountID(ctx, account)
	if err != nil {
		return nil, err
	}

	preview, err := s.client.WithdrawalPreview(ctx, accountId, amount, address)
	if err != nil {
		return nil, fmt.Errorf("withdrawal preview failed: %w", err)
	}

	zap.L().Info("Withdrawal preview created",
		zap.String("preview_id", preview.ID),
		zap.String("account_id", accountId),
		zap.Int64("amount", preview.Amount),
		zap.Int64("fees", preview.Fees.Total()))
	return preview, nil
}

// ConfirmWithdrawal commits a preview, then tracks and journals the withdrawal.
func (s *AppService) ConfirmWithdrawal(ctx context.Context, previewId string) (*trtl.Withdrawal, error) {
	withdrawal, err := s.client.Withdraw(ctx, previewId)
	if err != nil {
		return nil, fmt.Errorf("withdrawal failed: %w", err)
	}

	zap.L().Info("Withdrawal submitted",
		zap.String("withdrawal_id", withdrawal.ID),
		zap.String("preview_id", previewId),
		zap.String("account_id", withdrawal.AccountID),
		zap.String("status", string(withdrawal.Status)))

	if _, err := s.applyWithdrawal(ctx, *withdrawal); err != nil {
		zap.L().Error("Unable to track withdrawal",
			zap.String("withdrawal_id", withdrawal.ID),
			zap.Error(err))
	}
	return withdrawal, nil
}

// SyncWithdrawal refetches a withdrawal and applies its state locally.
func (s *AppService) SyncWithdrawal(ctx context.Context, withdrawalId string) (*models.SyncResult, error) {
	withdrawal, err := s.client.GetWithdrawal(ctx, withdrawalId)
	if err != nil {
		return nil, fmt.Errorf("unable to get withdrawal %s: %w", withdrawalId, err)
	}
	return s.applyWithdrawal(ctx, *withdrawal)
}

func (s *AppService) applyWithdrawal(ctx context.Context, withdrawal trtl.Withdrawal) (*models.SyncResult, error) {
	if !withdrawal.Consistent() {
		zap.L().Warn("Failed withdrawal carries a transaction hash",
			zap.String("withdrawal_id", withdrawal.ID),
			zap.String("tx_hash", withdrawal.TxHash))
	}

	advanced, err := s.tracker.TrackWithdrawal(ctx, withdrawal)
	if err != nil {
		return nil, err
	}
	journaled, err := s.journal.RecordWithdrawal(ctx, withdrawal)
	if err != nil {
		return nil, err
	}

	return &models.SyncResult{
		Kind:      "withdrawal",
		Id:        withdrawal.ID,
		AccountId: withdrawal.AccountID,
		Status:    string(withdrawal.Status),
		Advanced:  advanced,
		Journaled: journaled,
		Terminal:  withdrawal.Status.IsTerminal(),
	}, nil
}
