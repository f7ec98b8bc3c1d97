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

	"github.com/zoidbergZA/trtl-apps-go/internal/store"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

// Client is the part of *trtl.Client the app service depends on.
type Client interface {
	CreateAccount(ctx context.Context) (*trtl.Account, error)
	GetAccount(ctx context.Context, accountID string) (*trtl.Account, error)
	SetWithdrawAddress(ctx context.Context, accountID, address string) (string, error)
	TransferMany(ctx context.Context, senderID string, recipients []trtl.Recipient) (*trtl.Transfer, error)
	GetDeposit(ctx context.Context, depositID string) (*trtl.Deposit, error)
	WithdrawalPreview(ctx context.Context, accountID string, amount int64, sendAddress string) (*trtl.WithdrawalPreview, error)
	Withdraw(ctx context.Context, previewID string) (*trtl.Withdrawal, error)
	GetWithdrawal(ctx context.Context, withdrawalID string) (*trtl.Withdrawal, error)
	GetFee(ctx context.Context) (int64, error)
	ValidateAddress(ctx context.Context, address string, allowIntegrated bool) (bool, error)
}

var _ Client = (*trtl.Client)(nil)

// AppService ties the remote app to the local registry, tracker and journal.
type AppService struct {
	client   Client
	registry store.Registry
	tracker  store.Tracker
	journal  store.Journal
}

func NewAppService(client Client, registry store.Registry, tracker store.Tracker, journal store.Journal) *AppService {
	return &AppService{
		client:   client,
		registry: registry,
		tracker:  tracker,
		journal:  journal,
	}
}

// HealthCheck verifies the credentials by fetching the current node fee.
func (s *AppService) HealthCheck(ctx context.Context) error {
	if _, err := s.client.GetFee(ctx); err != nil {
		return fmt.Errorf("trtl apps health check failed: %w", err)
	}
	return nil
}

// NodeFee returns the current node fee in atomic units.
func (s *AppService) NodeFee(ctx context.Context) (int64, error) {
	return s.client.GetFee(ctx)
}

// ValidateAddress asks the service whether address can receive withdrawals.
func (s *AppService) ValidateAddress(ctx context.Context, address string, allowIntegrated bool) (bool, error) {
	return s.client.ValidateAddress(ctx, address, allowIntegrated)
}
