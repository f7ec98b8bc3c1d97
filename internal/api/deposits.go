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
	"github.com/zoidbergZA/trtl-apps-go/webhook"
)

// SyncDeposit refetches a deposit, tracks its status and journals the credit
// once it is settled.
func (s *AppService) SyncDeposit(ctx context.Context, depositId string) (*models.SyncResult, error) {
	deposit, err := s.client.GetDeposit(ctx, depositId)
	if err != nil {
		return nil, fmt.Errorf("unable to get deposit %s: %w", depositId, err)
	}
	return s.applyDeposit(ctx, *deposit)
}

func (s *AppService) applyDeposit(ctx context.Context, deposit trtl.Deposit) (*models.SyncResult, error) {
	advanced, err := s.tracker.TrackDeposit(ctx, deposit)
	if err != nil {
		return nil, err
	}
	journaled, err := s.journal.RecordDeposit(ctx, deposit)
	if err != nil {
		return nil, err
	}

	if journaled {
		zap.L().Info("Deposit credited",
			zap.String("deposit_id", deposit.ID),
			zap.String("account_id", deposit.AccountID),
			zap.Int64("amount", deposit.CreditedAmount))
	}

	return &models.SyncResult{
		Kind:      "deposit",
		Id:        deposit.ID,
		AccountId: deposit.AccountID,
		Status:    string(deposit.Status),
		Advanced:  advanced,
		Journaled: journaled,
		Terminal:  deposit.Finished(),
	}, nil
}

// HandleEvent syncs the entity a webhook event refers to. The payload is only
// used for its id; the current state is always fetched from the service.
func (s *AppService) HandleEvent(ctx context.Context, event webhook.Event) (*models.SyncResult, error) {
	id, err := event.EntityID()
	if err != nil {
		return nil, err
	}

	zap.L().Info("Processing webhook event",
		zap.String("code", event.Code),
		zap.String("entity_id", id))

	switch event.Kind() {
	case webhook.KindDeposit:
		return s.SyncDeposit(ctx, id)
	case webhook.KindWithdrawal:
		return s.SyncWithdrawal(ctx, id)
	}
	return nil, fmt.Errorf("%w: %q", webhook.ErrUnknownEvent, event.Code)
}
