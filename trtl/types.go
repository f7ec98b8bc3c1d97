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

package trtl

import (
	"encoding/json"
	"time"
)

// Account is an app account held by the service. Balances are in atomic units.
type Account struct {
	ID              string          `json:"id"`
	AppID           string          `json:"appId"`
	BalanceUnlocked int64           `json:"balanceUnlocked"`
	BalanceLocked   int64           `json:"balanceLocked"`
	CreatedAt       int64           `json:"createdAt"`
	Deleted         bool            `json:"deleted"`
	PaymentID       string          `json:"paymentId"`
	DepositAddress  string          `json:"depositAddress"`
	DepositQRCode   string          `json:"depositQrCode,omitempty"`
	WithdrawAddress string          `json:"withdrawAddress,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
}

// Created returns the account creation time.
func (a Account) Created() time.Time { return time.UnixMilli(a.CreatedAt) }

// AccountsOrderBy is the property accounts are sorted by when listed.
type AccountsOrderBy string

const (
	OrderByAccountID       AccountsOrderBy = "accountId"
	OrderByCreatedAt       AccountsOrderBy = "createdAt"
	OrderByBalanceUnlocked AccountsOrderBy = "balanceUnlocked"
)

func (o AccountsOrderBy) valid() bool {
	switch o {
	case OrderByAccountID, OrderByCreatedAt, OrderByBalanceUnlocked:
		return true
	}
	return false
}

// ListAccountsOptions controls ordering and pagination of ListAccounts.
// Zero values mean "createdAt", no limit and start from the beginning.
type ListAccountsOptions struct {
	OrderBy    AccountsOrderBy
	Limit      int
	StartAfter string
}

// DepositStatus progresses pending -> confirming -> finalizing -> completed.
type DepositStatus string

const (
	DepositPending    DepositStatus = "pending"
	DepositConfirming DepositStatus = "confirming"
	DepositFinalizing DepositStatus = "finalizing"
	DepositCompleted  DepositStatus = "completed"
)

// Rank orders deposit statuses; unknown statuses rank 0.
func (s DepositStatus) Rank() int {
	switch s {
	case DepositPending:
		return 1
	case DepositConfirming:
		return 2
	case DepositFinalizing:
		return 3
	case DepositCompleted:
		return 4
	}
	return 0
}

func (s DepositStatus) IsTerminal() bool { return s == DepositCompleted }

// CanAdvanceTo reports whether moving from s to next keeps the status monotonic.
func (s DepositStatus) CanAdvanceTo(next DepositStatus) bool {
	return next.Rank() >= s.Rank()
}

// Deposit is an incoming payment attributed to an account via its payment id.
type Deposit struct {
	ID                string        `json:"id"`
	AppID             string        `json:"appId"`
	AccountID         string        `json:"accountId"`
	BlockHeight       int64         `json:"blockHeight"`
	Amount            int64         `json:"amount"`
	AmountConfirmed   int64         `json:"amountConfirmed"`
	AmountUnconfirmed int64         `json:"amountUnconfirmed"`
	DepositAddress    string        `json:"depositAddress"`
	PaymentID         string        `json:"paymentId"`
	IntegratedAddress string        `json:"integratedAddress"`
	Status            DepositStatus `json:"status"`
	TxHashes          []string      `json:"txHashes,omitempty"`
	CreatedDate       int64         `json:"createdDate"`
	ExpireDate        int64         `json:"expireDate,omitempty"`
	Expired           bool          `json:"expired"`
	AccountCredited   bool          `json:"accountCredited"`
	CreditedAmount    int64         `json:"creditedAmount"`
	LastUpdate        int64         `json:"lastUpdate"`
	Cancelled         bool          `json:"cancelled"`
}

// Settled reports whether the deposit reached its completed terminal state.
// Expired and completed are mutually exclusive.
func (d Deposit) Settled() bool {
	return d.Status == DepositCompleted && !d.Expired
}

// Finished reports whether no further status change is expected.
func (d Deposit) Finished() bool {
	return d.Settled() || d.Expired || d.Cancelled
}

// Recipient is one leg of a transfer.
type Recipient struct {
	AccountID string `json:"accountId"`
	Amount    int64  `json:"amount"`
}

// Transfer moves funds from one sender to one or more recipients.
type Transfer struct {
	ID         string      `json:"id"`
	AppID      string      `json:"appId"`
	SenderID   string      `json:"senderId"`
	Recipients []Recipient `json:"recipients"`
	Timestamp  int64       `json:"timestamp"`
}

// Total is the sum of all recipient amounts.
func (t Transfer) Total() int64 {
	var total int64
	for _, r := range t.Recipients {
		total += r.Amount
	}
	return total
}

// Fees is the fee breakdown charged on a withdrawal.
type Fees struct {
	TxFee      int64 `json:"txFee"`
	NodeFee    int64 `json:"nodeFee"`
	ServiceFee int64 `json:"serviceFee"`
}

func (f Fees) Total() int64 { return f.TxFee + f.NodeFee + f.ServiceFee }

// WithdrawalStatus progresses pending -> confirming -> one of completed, faulty, lost.
type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalConfirming WithdrawalStatus = "confirming"
	WithdrawalFaulty     WithdrawalStatus = "faulty"
	WithdrawalLost       WithdrawalStatus = "lost"
	WithdrawalCompleted  WithdrawalStatus = "completed"
)

func (s WithdrawalStatus) Rank() int {
	switch s {
	case WithdrawalPending:
		return 1
	case WithdrawalConfirming:
		return 2
	case WithdrawalFaulty, WithdrawalLost, WithdrawalCompleted:
		return 3
	}
	return 0
}

func (s WithdrawalStatus) IsTerminal() bool { return s.Rank() == 3 }

// CanAdvanceTo reports whether moving from s to next keeps the status
// monotonic. A terminal status only "advances" to itself.
func (s WithdrawalStatus) CanAdvanceTo(next WithdrawalStatus) bool {
	if s.IsTerminal() {
		return s == next
	}
	return next.Rank() >= s.Rank()
}

// PreviewStatus is the state of a withdrawal preview.
type PreviewStatus string

const (
	PreviewPending   PreviewStatus = "pending"
	PreviewConfirmed PreviewStatus = "confirmed"
)

// WithdrawalPreview is a fee quote that must be confirmed with Withdraw.
type WithdrawalPreview struct {
	ID          string        `json:"id"`
	AppID       string        `json:"appId"`
	AccountID   string        `json:"accountId"`
	Amount      int64         `json:"amount"`
	Fees        Fees          `json:"fees"`
	Address     string        `json:"address"`
	Timestamp   int64         `json:"timestamp"`
	BlockHeight int64         `json:"blockHeight"`
	Status      PreviewStatus `json:"status"`
}

// Debit is the amount that leaves the account if the preview is confirmed.
func (p WithdrawalPreview) Debit() int64 { return p.Amount + p.Fees.Total() }

// Withdrawal is an outgoing payment to an external address.
type Withdrawal struct {
	ID                   string           `json:"id"`
	PaymentID            string           `json:"paymentId"`
	AppID                string           `json:"appId"`
	AccountID            string           `json:"accountId"`
	PreparedWithdrawalID string           `json:"preparedWithdrawalId"`
	Amount               int64            `json:"amount"`
	Fees                 Fees             `json:"fees"`
	Address              string           `json:"address"`
	Timestamp            int64            `json:"timestamp"`
	LastUpdate           int64            `json:"lastUpdate"`
	Status               WithdrawalStatus `json:"status"`
	RequestedAtBlock     int64            `json:"requestedAtBlock"`
	BlockHeight          int64            `json:"blockHeight"`
	Failed               bool             `json:"failed"`
	TxHash               string           `json:"txHash,omitempty"`
	DaemonErrorCode      int              `json:"daemonErrorCode,omitempty"`
	Retries              int              `json:"retries"`
}

// Consistent reports whether the withdrawal honours "failed withdrawals carry
// no transaction hash".
func (w Withdrawal) Consistent() bool {
	return !(w.Failed && w.TxHash != "")
}

// Debit is the total amount taken from the account.
func (w Withdrawal) Debit() int64 { return w.Amount + w.Fees.Total() }
