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
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/internal/store"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

// CreateAccount creates a remote account, optionally sets its withdraw
// address, and registers it locally under label.
func (s *AppService) CreateAccount(ctx context.Context, label, withdrawAddress string) (*models.AccountRecord, error) {
	if label != "" {
		if _, err := s.registry.GetAccountByLabel(ctx, label); err == nil {
			return nil, fmt.Errorf("%w: %s", store.ErrLabelTaken, label)
		} else if !errors.Is(err, store.ErrAccountNotFound) {
			return nil, err
		}
	}

	account, err := s.client.CreateAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to create account: %w", err)
	}

	zap.L().Info("Account created",
		zap.String("account_id", account.ID),
		zap.String("label", label))

	record := models.AccountRecord{
		Id:             account.ID,
		AppId:          account.AppID,
		Label:          label,
		PaymentId:      account.PaymentID,
		DepositAddress: account.DepositAddress,
		CreatedAt:      account.Created().UTC(),
	}
	if account.CreatedAt == 0 {
		record.CreatedAt = time.Now().UTC()
	}

	if withdrawAddress != "" {
		stored, err := s.client.SetWithdrawAddress(ctx, account.ID, withdrawAddress)
		if err != nil {
			// the remote account exists, so keep it registered without the address
			zap.L().Warn("Unable to set withdraw address",
				zap.String("account_id", account.ID),
				zap.Error(err))
		} else {
			record.WithdrawAddress = stored
		}
	}

	return s.registry.SaveAccount(ctx, record)
}

// ResolveAccountID maps a label or id onto an account id. Identifiers that are
// not registered locally are returned unchanged and treated as remote ids.
func (s *AppService) ResolveAccountID(ctx context.Context, labelOrId string) (string, error) {
	if labelOrId == "" {
		return "", fmt.Errorf("account label or id is required")
	}

	rec, err := s.registry.GetAccountByLabel(ctx, labelOrId)
	if err == nil {
		return rec.Id, nil
	}
	if !errors.Is(err, store.ErrAccountNotFound) {
		return "", err
	}
	return labelOrId, nil
}

// SetWithdrawAddress updates the remote withdraw address and mirrors it locally.
func (s *AppService) SetWithdrawAddress(ctx context.Context, labelOrId, address string) (string, error) {
	accountId, err := s.ResolveAccountID(ctx, labelOrId)
	if err != nil {
		return "", err
	}

	stored, err := s.client.SetWithdrawAddress(ctx, accountId, address)
	if err != nil {
		return "", fmt.Errorf("unable to set withdraw address: %w", err)
	}

	if err := s.registry.UpdateWithdrawAddress(ctx, accountId, stored); err != nil && !errors.Is(err, store.ErrAccountNotFound) {
		return "", err
	}
	return stored, nil
}

// AccountSummary returns the live account with the local record and the most
// recent journal movements.
func (s *AppService) AccountSummary(ctx context.Context, labelOrId string, historyLimit int) (*models.AccountSummary, error) {
	accountId, err := s.ResolveAccountID(ctx, labelOrId)
	if err != nil {
		return nil, err
	}

	account, err := s.client.GetAccount(ctx, accountId)
	if err != nil {
		return nil, fmt.Errorf("unable to get account %s: %w", accountId, err)
	}

	summary := &models.AccountSummary{Account: account, History: []models.Movement{}}
	if rec, err := s.registry.GetAccount(ctx, accountId); err == nil {
		summary.Record = *rec
	} else if errors.Is(err, store.ErrAccountNotFound) {
		summary.Record = models.AccountRecord{
			Id:             account.ID,
			AppId:          account.AppID,
			PaymentId:      account.PaymentID,
			DepositAddress: account.DepositAddress,
		}
	} else {
		return nil, err
	}

	if historyLimit > 0 {
		history, err := s.journal.History(ctx, accountId, historyLimit, 0)
		if err != nil {
			return nil, fmt.Errorf("unable to load history: %w", err)
		}
		summary.History = history
	}
	return summary, nil
}

// Transfer sends funds from sender to every leg and journals the result.
func (s *AppService) Transfer(ctx context.Context, sender string, legs []models.TransferLeg) (*trtl.Transfer, error) {
	senderId, err := s.ResolveAccountID(ctx, sender)
	if err != nil {
		return nil, err
	}

	recipients := make([]trtl.Recipient, 0, len(legs))
	for _, leg := range legs {
		id, err := s.ResolveAccountID(ctx, leg.Account)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, trtl.Recipient{AccountID: id, Amount: leg.Amount})
	}

	transfer, err := s.client.TransferMany(ctx, senderId, recipients)
	if err != nil {
		return nil, fmt.Errorf("transfer failed: %w", err)
	}

	if err := s.journal.RecordTransfer(ctx, *transfer); err != nil {
		if !errors.Is(err, store.ErrDuplicateEvent) {
			// the transfer happened remotely; surface the journal problem without failing it
			zap.L().Error("Unable to journal transfer",
				zap.String("transfer_id", transfer.ID),
				zap.Error(err))
		}
	}

	zap.L().Info("Transfer completed",
		zap.String("transfer_id", transfer.ID),
		zap.String("sender_id", senderId),
		zap.Int64("total", transfer.Total()))
	return transfer, nil
}
