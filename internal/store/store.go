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

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

// Sentinel errors shared by every backend.
var (
	ErrDuplicateEvent  = errors.New("event already journaled")
	ErrAccountNotFound = errors.New("account not registered")
	ErrLabelTaken      = errors.New("account label already in use")
)

// Registry keeps the local mapping between labels and remote app accounts.
type Registry interface {
	SaveAccount(ctx context.Context, record models.AccountRecord) (*models.AccountRecord, error)
	GetAccount(ctx context.Context, accountId string) (*models.AccountRecord, error)
	GetAccountByLabel(ctx context.Context, label string) (*models.AccountRecord, error)
	ListAccounts(ctx context.Context) ([]models.AccountRecord, error)
	UpdateWithdrawAddress(ctx context.Context, accountId, address string) error
}

// Tracker remembers the last known status of deposits and withdrawals.
// Upserts never move a status backwards; the returned bool reports whether
// the stored row changed.
type Tracker interface {
	TrackDeposit(ctx context.Context, deposit trtl.Deposit) (bool, error)
	TrackWithdrawal(ctx context.Context, withdrawal trtl.Withdrawal) (bool, error)
	PendingDeposits(ctx context.Context) ([]string, error)
	PendingWithdrawals(ctx context.Context) ([]string, error)
}

// Journal records the balance effect of finished events, once per event.
//
// RecordDeposit and RecordWithdrawal return false when the event has nothing
// to journal yet or was journaled before. RecordTransfer returns
// ErrDuplicateEvent for a transfer it has already seen.
type Journal interface {
	RecordDeposit(ctx context.Context, deposit trtl.Deposit) (bool, error)
	RecordWithdrawal(ctx context.Context, withdrawal trtl.Withdrawal) (bool, error)
	RecordTransfer(ctx context.Context, transfer trtl.Transfer) error
	History(ctx context.Context, accountId string, limit, offset int) ([]models.Movement, error)
	Balance(ctx context.Context, accountId string) (int64, error)
	Close()
}

// Store is what the SQLite backend provides in a single database.
type Store interface {
	Registry
	Tracker
	Journal
}

// References used to deduplicate journal entries across backends.
func DepositReference(id string) string    { return "deposit:" + id }
func WithdrawalReference(id string) string { return "withdrawal:" + id }
func TransferReference(id string) string   { return "transfer:" + id }

// Journaled reports whether a deposit should post a movement.
func DepositJournaled(d trtl.Deposit) bool {
	return d.Settled() && d.AccountCredited && d.CreditedAmount > 0
}

// WithdrawalJournaled reports whether a withdrawal should post a movement.
func WithdrawalJournaled(w trtl.Withdrawal) bool {
	return w.Status == trtl.WithdrawalCompleted && !w.Failed
}

// ValidateTransfer checks the fields every backend relies on.
func ValidateTransfer(t trtl.Transfer) error {
	if t.ID == "" || t.SenderID == "" {
		return fmt.Errorf("transfer id and sender are required")
	}
	if len(t.Recipients) == 0 {
		return fmt.Errorf("transfer %s has no recipients", t.ID)
	}
	for _, r := range t.Recipients {
		if r.AccountID == "" || r.Amount <= 0 {
			return fmt.Errorf("transfer %s has an invalid recipient", t.ID)
		}
	}
	return nil
}
