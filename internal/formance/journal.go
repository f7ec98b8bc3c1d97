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

package formance

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	v3 "github.com/formancehq/formance-sdk-go/v3"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/internal/store"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

// ---------------------------------------------------------------------------
// Numscript templates. All metadata is set inside the script via
// set_tx_meta() so each Formance transaction is self-describing.
// ---------------------------------------------------------------------------

const numscriptDeposit = `vars {
  asset $asset
  number $amount
  account $app_id
  account $account_id
  string $trtl_id
  string $source
}

send [$asset $amount] (
  source = @apps:$app_id:network:deposits allowing unbounded overdraft
  destination = @apps:$app_id:accounts:$account_id
)

set_tx_meta("event_type", "deposit")
set_tx_meta("trtl_id", $trtl_id)
set_tx_meta("source", $source)
`

const numscriptWithdrawal = `vars {
  asset $asset
  number $amount
  number $fees
  account $app_id
  account $account_id
  string $trtl_id
  string $address
  string $source
}

send [$asset $amount] (
  source = @apps:$app_id:accounts:$account_id allowing unbounded overdraft
  destination = @apps:$app_id:network:withdrawals
)

send [$asset $fees] (
  source = @apps:$app_id:accounts:$account_id allowing unbounded overdraft
  destination = @apps:$app_id:fees
)

set_tx_meta("event_type", "withdrawal")
set_tx_meta("trtl_id", $trtl_id)
set_tx_meta("address", $address)
set_tx_meta("source", $source)
`

// transferScript renders one send per recipient. Numscript has no loops, so
// the script is generated for the recipient count.
func transferScript(recipients int) string {
	var b strings.Builder
	b.WriteString("vars {\n  asset $asset\n  account $app_id\n  account $sender\n  string $trtl_id\n  string $source\n")
	for i := 0; i < recipients; i++ {
		fmt.Fprintf(&b, "  account $recipient_%d\n  number $amount_%d\n", i, i)
	}
	b.WriteString("}\n")
	for i := 0; i < recipients; i++ {
		fmt.Fprintf(&b, `
send [$asset $amount_%d] (
  source = @apps:$app_id:accounts:$sender allowing unbounded overdraft
  destination = @apps:$app_id:accounts:$recipient_%d
)
`, i, i)
	}
	b.WriteString(`
set_tx_meta("event_type", "transfer")
set_tx_meta("trtl_id", $trtl_id)
set_tx_meta("source", $source)
`)
	return b.String()
}

func (s *Service) RecordDeposit(ctx context.Context, deposit trtl.Deposit) (bool, error) {
	if !store.DepositJournaled(deposit) {
		return false, nil
	}

	postTx := shared.V2PostTransaction{
		Reference: strPtr(store.DepositReference(deposit.ID)),
		Script: &shared.V2PostTransactionScript{
			Plain: numscriptDeposit,
			Vars: map[string]string{
				"asset":      formanceAsset(),
				"amount":     strconv.FormatInt(deposit.CreditedAmount, 10),
				"app_id":     s.appFor(deposit.AppID),
				"account_id": deposit.AccountID,
				"trtl_id":    deposit.ID,
				"source":     models.SyncSource(ctx),
			},
		},
	}
	if deposit.LastUpdate > 0 {
		ts := time.UnixMilli(deposit.LastUpdate).UTC()
		postTx.Timestamp = &ts
	}

	recorded, err := s.post(ctx, postTx)
	if err != nil {
		return false, fmt.Errorf("error recording deposit %s: %w", deposit.ID, err)
	}
	if recorded {
		zap.L().Info("Deposit recorded in Formance",
			zap.String("deposit_id", deposit.ID),
			zap.String("account_id", deposit.AccountID),
			zap.Int64("amount", deposit.CreditedAmount))
	}
	return recorded, nil
}

func (s *Service) RecordWithdrawal(ctx context.Context, withdrawal trtl.Withdrawal) (bool, error) {
	if !store.WithdrawalJournaled(withdrawal) {
		return false, nil
	}

	postTx := shared.V2PostTransaction{
		Reference: strPtr(store.WithdrawalReference(withdrawal.ID)),
		Script: &shared.V2PostTransactionScript{
			Plain: numscriptWithdrawal,
			Vars: map[string]string{
				"asset":      formanceAsset(),
				"amount":     strconv.FormatInt(withdrawal.Amount, 10),
				"fees":       strconv.FormatInt(withdrawal.Fees.Total(), 10),
				"app_id":     s.appFor(withdrawal.AppID),
				"account_id": withdrawal.AccountID,
				"trtl_id":    withdrawal.ID,
				"address":    withdrawal.Address,
				"source":     models.SyncSource(ctx),
			},
		},
	}
	if withdrawal.LastUpdate > 0 {
		ts := time.UnixMilli(withdrawal.LastUpdate).UTC()
		postTx.Timestamp = &ts
	}

	recorded, err := s.post(ctx, postTx)
	if err != nil {
		return false, fmt.Errorf("error recording withdrawal %s: %w", withdrawal.ID, err)
	}
	if recorded {
		zap.L().Info("Withdrawal recorded in Formance",
			zap.String("withdrawal_id", withdrawal.ID),
			zap.String("account_id", withdrawal.AccountID),
			zap.Int64("debit", withdrawal.Debit()))
	}
	return recorded, nil
}

func (s *Service) RecordTransfer(ctx context.Context, transfer trtl.Transfer) error {
	if err := store.ValidateTransfer(transfer); err != nil {
		return err
	}

	postTx := shared.V2PostTransaction{
		Reference: strPtr(store.TransferReference(transfer.ID)),
		Script: &shared.V2PostTransactionScript{
			Plain: transferScript(len(transfer.Recipients)),
			Vars:  transferVars(s.appFor(transfer.AppID), transfer, models.SyncSource(ctx)),
		},
	}
	if transfer.Timestamp > 0 {
		ts := time.UnixMilli(transfer.Timestamp).UTC()
		postTx.Timestamp = &ts
	}

	recorded, err := s.post(ctx, postTx)
	if err != nil {
		return fmt.Errorf("error recording transfer %s: %w", transfer.ID, err)
	}
	if !recorded {
		return fmt.Errorf("%w: transfer %s", store.ErrDuplicateEvent, transfer.ID)
	}

	zap.L().Info("Transfer recorded in Formance",
		zap.String("transfer_id", transfer.ID),
		zap.String("sender_id", transfer.SenderID),
		zap.Int("recipients", len(transfer.Recipients)))
	return nil
}

func transferVars(appId string, transfer trtl.Transfer, source string) map[string]string {
	vars := map[string]string{
		"asset":   formanceAsset(),
		"app_id":  appId,
		"sender":  transfer.SenderID,
		"trtl_id": transfer.ID,
		"source":  source,
	}
	for i, r := range transfer.Recipients {
		vars[fmt.Sprintf("recipient_%d", i)] = r.AccountID
		vars[fmt.Sprintf("amount_%d", i)] = strconv.FormatInt(r.Amount, 10)
	}
	return vars
}

// post creates the transaction; a reference conflict means it already exists.
func (s *Service) post(ctx context.Context, postTx shared.V2PostTransaction) (bool, error) {
	_, err := s.client.Ledger.V2.CreateTransaction(ctx, operations.V2CreateTransactionRequest{
		Ledger:            s.ledger,
		V2PostTransaction: postTx,
	})
	if err != nil {
		if isConflictError(err) {
			zap.L().Debug("Formance reference already exists", zap.String("reference", *postTx.Reference))
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) appFor(appId string) string {
	if appId != "" {
		return appId
	}
	return s.appId
}

// History returns the account's movements, newest first.
func (s *Service) History(ctx context.Context, accountId string, limit, offset int) ([]models.Movement, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	address := accountAddress(s.appId, accountId)
	pageSize := int64(limit + offset) // fetch enough to skip offset

	resp, err := s.client.Ledger.V2.ListTransactions(ctx, operations.V2ListTransactionsRequest{
		Ledger:   s.ledger,
		PageSize: &pageSize,
		RequestBody: map[string]any{
			"$or": []any{
				map[string]any{"$match": map[string]any{"source": address}},
				map[string]any{"$match": map[string]any{"destination": address}},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	movements := []models.Movement{}
	skipped := 0
	for _, tx := range resp.V2TransactionsCursorResponse.Cursor.Data {
		if skipped < offset {
			skipped++
			continue
		}
		if len(movements) == limit {
			break
		}

		postings := make([]posting, 0, len(tx.Postings))
		for _, p := range tx.Postings {
			postings = append(postings, posting{source: p.Source, destination: p.Destination, amount: p.Amount})
		}
		amount := netAmount(address, postings)

		ref := ""
		if tx.Reference != nil {
			ref = *tx.Reference
		}

		movements = append(movements, models.Movement{
			Id:        fmt.Sprintf("%d", tx.ID),
			AccountId: accountId,
			Kind:      movementKind(tx.Metadata["event_type"], amount),
			Amount:    amount,
			Reference: ref,
			Source:    tx.Metadata["source"],
			CreatedAt: tx.Timestamp,
		})
	}
	return movements, nil
}

// Balance returns the account's ledger balance in atomic units.
func (s *Service) Balance(ctx context.Context, accountId string) (int64, error) {
	resp, err := s.client.Ledger.V2.GetAccount(ctx, operations.V2GetAccountRequest{
		Ledger:  s.ledger,
		Address: accountAddress(s.appId, accountId),
		Expand:  v3.Pointer("volumes"),
	})
	if err != nil {
		if isNotFoundError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get account volumes: %w", err)
	}

	bal := volumeBalance(resp.V2AccountResponse.Data.Volumes, formanceAsset())
	if bal == nil {
		return 0, nil
	}
	if !bal.IsInt64() {
		return 0, fmt.Errorf("balance of %s overflows int64", accountId)
	}
	return bal.Int64(), nil
}

type posting struct {
	source      string
	destination string
	amount      *big.Int
}

// netAmount sums the postings that touch address, signed from its point of view.
func netAmount(address string, postings []posting) int64 {
	var total int64
	for _, p := range postings {
		if p.amount == nil {
			continue
		}
		switch address {
		case p.destination:
			total += p.amount.Int64()
		case p.source:
			total -= p.amount.Int64()
		}
	}
	return total
}

func movementKind(eventType string, amount int64) string {
	switch eventType {
	case "deposit":
		return models.MovementDeposit
	case "withdrawal":
		return models.MovementWithdrawal
	case "transfer":
		if amount < 0 {
			return models.MovementTransferOut
		}
		return models.MovementTransferIn
	}
	return eventType
}

// volumeBalance extracts the balance for a specific asset from volumes.
func volumeBalance(vols map[string]shared.V2Volume, fAsset string) *big.Int {
	vol, ok := vols[fAsset]
	if !ok {
		return nil
	}
	if vol.Balance != nil {
		return vol.Balance
	}
	if vol.Input == nil {
		return nil
	}
	result := new(big.Int).Set(vol.Input)
	if vol.Output != nil {
		result.Sub(result, vol.Output)
	}
	return result
}
