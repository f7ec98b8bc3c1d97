package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/internal/store"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

func setupTestDB(t *testing.T) *Service {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	service := NewServiceFromDB(db)
	if err := service.InitSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(service.Close)
	return service
}

func TestNewServiceValidation(t *testing.T) {
	ctx := context.Background()
	valid := models.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, PingTimeout: time.Second}

	tests := []struct {
		name   string
		mutate func(*models.DatabaseConfig)
	}{
		{"empty path", func(c *models.DatabaseConfig) { c.Path = "" }},
		{"zero open conns", func(c *models.DatabaseConfig) { c.MaxOpenConns = 0 }},
		{"negative idle conns", func(c *models.DatabaseConfig) { c.MaxIdleConns = -1 }},
		{"zero ping timeout", func(c *models.DatabaseConfig) { c.PingTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if _, err := NewService(ctx, cfg); err == nil {
				t.Error("expected configuration error")
			}
		})
	}

	service, err := NewService(ctx, valid)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	service.Close()
}

func TestAccountRegistry(t *testing.T) {
	service := setupTestDB(t)
	ctx := context.Background()

	saved, err := service.SaveAccount(ctx, models.AccountRecord{
		Id:             "acc-1",
		AppId:          "app-1",
		Label:          " alice ",
		DepositAddress: "TRTLdeposit",
	})
	if err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}
	if saved.Label != "alice" {
		t.Errorf("Expected trimmed label, got %q", saved.Label)
	}

	if _, err := service.SaveAccount(ctx, models.AccountRecord{Id: "acc-2", AppId: "app-1"}); err != nil {
		t.Fatalf("SaveAccount without label failed: %v", err)
	}
	if _, err := service.SaveAccount(ctx, models.AccountRecord{Id: "acc-3", AppId: "app-1"}); err != nil {
		t.Fatalf("Second unlabeled account failed: %v", err)
	}

	_, err = service.SaveAccount(ctx, models.AccountRecord{Id: "acc-4", AppId: "app-1", Label: "alice"})
	if !errors.Is(err, store.ErrLabelTaken) {
		t.Errorf("Expected ErrLabelTaken, got %v", err)
	}

	rec, err := service.GetAccountByLabel(ctx, "alice")
	if err != nil {
		t.Fatalf("GetAccountByLabel failed: %v", err)
	}
	if rec.Id != "acc-1" || rec.DepositAddress != "TRTLdeposit" {
		t.Errorf("Unexpected record: %+v", rec)
	}

	rec, err = service.GetAccount(ctx, "acc-2")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if rec.Label != "" || rec.DisplayName() != "acc-2" {
		t.Errorf("Unexpected unlabeled record: %+v", rec)
	}

	if _, err := service.GetAccount(ctx, "missing"); !errors.Is(err, store.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}

	if err := service.UpdateWithdrawAddress(ctx, "acc-1", "TRTLwithdraw"); err != nil {
		t.Fatalf("UpdateWithdrawAddress failed: %v", err)
	}
	rec, _ = service.GetAccount(ctx, "acc-1")
	if rec.WithdrawAddress != "TRTLwithdraw" {
		t.Errorf("Expected withdraw address to be stored, got %q", rec.WithdrawAddress)
	}
	if err := service.UpdateWithdrawAddress(ctx, "missing", "x"); !errors.Is(err, store.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}

	accounts, err := service.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 3 {
		t.Errorf("Expected 3 accounts, got %d", len(accounts))
	}
}

func TestTrackDepositMonotonic(t *testing.T) {
	service := setupTestDB(t)
	ctx := context.Background()

	deposit := trtl.Deposit{ID: "dep-1", AccountID: "acc-1", Amount: 500, Status: trtl.DepositConfirming}

	changed, err := service.TrackDeposit(ctx, deposit)
	if err != nil || !changed {
		t.Fatalf("TrackDeposit insert = %v, %v", changed, err)
	}

	changed, err = service.TrackDeposit(ctx, deposit)
	if err != nil || changed {
		t.Errorf("Repeated status should not change row: %v, %v", changed, err)
	}

	stale := deposit
	stale.Status = trtl.DepositPending
	changed, err = service.TrackDeposit(ctx, stale)
	if err != nil || changed {
		t.Errorf("Stale status should be ignored: %v, %v", changed, err)
	}

	pending, err := service.PendingDeposits(ctx)
	if err != nil {
		t.Fatalf("PendingDeposits failed: %v", err)
	}
	if len(pending) != 1 || pending[0] != "dep-1" {
		t.Errorf("Expected dep-1 pending, got %v", pending)
	}

	completed := deposit
	completed.Status = trtl.DepositCompleted
	completed.AccountCredited = true
	completed.CreditedAmount = 500
	changed, err = service.TrackDeposit(ctx, completed)
	if err != nil || !changed {
		t.Fatalf("TrackDeposit completed = %v, %v", changed, err)
	}

	var status string
	if err := service.db.QueryRow("SELECT status FROM deposits WHERE id = ?", "dep-1").Scan(&status); err != nil {
		t.Fatalf("query status: %v", err)
	}
	if status != string(trtl.DepositCompleted) {
		t.Errorf("Expected completed, got %s", status)
	}

	pending, _ = service.PendingDeposits(ctx)
	if len(pending) != 0 {
		t.Errorf("Expected no pending deposits, got %v", pending)
	}
}

func TestTrackDepositExpiredStaysFinished(t *testing.T) {
	service := setupTestDB(t)
	ctx := context.Background()

	expired := trtl.Deposit{ID: "dep-2", AccountID: "acc-1", Amount: 500, Status: trtl.DepositPending, Expired: true}
	if changed, err := service.TrackDeposit(ctx, expired); err != nil || !changed {
		t.Fatalf("TrackDeposit expired = %v, %v", changed, err)
	}

	stale := expired
	stale.Expired = false
	changed, err := service.TrackDeposit(ctx, stale)
	if err != nil || changed {
		t.Errorf("Unexpired update of an expired deposit should be ignored: %v, %v", changed, err)
	}

	pending, err := service.PendingDeposits(ctx)
	if err != nil {
		t.Fatalf("PendingDeposits failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending deposits, got %v", pending)
	}
}

func TestTrackWithdrawalTerminal(t *testing.T) {
	service := setupTestDB(t)
	ctx := context.Background()

	w := trtl.Withdrawal{ID: "wd-1", AccountID: "acc-1", Amount: 100, Status: trtl.WithdrawalPending}
	if _, err := service.TrackWithdrawal(ctx, w); err != nil {
		t.Fatalf("TrackWithdrawal failed: %v", err)
	}

	w.Status = trtl.WithdrawalFaulty
	w.Failed = true
	if changed, err := service.TrackWithdrawal(ctx, w); err != nil || !changed {
		t.Fatalf("TrackWithdrawal faulty = %v, %v", changed, err)
	}

	w.Status = trtl.WithdrawalCompleted
	w.Failed = false
	if changed, _ := service.TrackWithdrawal(ctx, w); changed {
		t.Error("Terminal withdrawal status must not change")
	}

	pending, err := service.PendingWithdrawals(ctx)
	if err != nil {
		t.Fatalf("PendingWithdrawals failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending withdrawals, got %v", pending)
	}
}

func TestJournalDeposit(t *testing.T) {
	service := setupTestDB(t)
	ctx := models.WithSyncSource(context.Background(), models.SourceWebhook)

	deposit := trtl.Deposit{ID: "dep-1", AccountID: "acc-1", Status: trtl.DepositConfirming, CreditedAmount: 0}
	recorded, err := service.RecordDeposit(ctx, deposit)
	if err != nil || recorded {
		t.Fatalf("Unsettled deposit should not be journaled: %v, %v", recorded, err)
	}

	deposit.Status = trtl.DepositCompleted
	deposit.AccountCredited = true
	deposit.CreditedAmount = 750
	recorded, err = service.RecordDeposit(ctx, deposit)
	if err != nil || !recorded {
		t.Fatalf("RecordDeposit = %v, %v", recorded, err)
	}

	recorded, err = service.RecordDeposit(ctx, deposit)
	if err != nil || recorded {
		t.Errorf("Repeated deposit should be a no-op: %v, %v", recorded, err)
	}

	balance, err := service.Balance(ctx, "acc-1")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance != 750 {
		t.Errorf("Expected balance 750, got %d", balance)
	}

	history, err := service.History(ctx, "acc-1", 10, 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 movement, got %d", len(history))
	}
	if history[0].Source != models.SourceWebhook || history[0].Reference != "deposit:dep-1" {
		t.Errorf("Unexpected movement: %+v", history[0])
	}
}

func TestJournalTransferAndWithdrawal(t *testing.T) {
	service := setupTestDB(t)
	ctx := context.Background()

	_, err := service.RecordDeposit(ctx, trtl.Deposit{
		ID: "dep-1", AccountID: "acc-1", Status: trtl.DepositCompleted,
		AccountCredited: true, CreditedAmount: 1000,
	})
	if err != nil {
		t.Fatalf("RecordDeposit failed: %v", err)
	}

	transfer := trtl.Transfer{
		ID:       "tr-1",
		SenderID: "acc-1",
		Recipients: []trtl.Recipient{
			{AccountID: "acc-2", Amount: 150},
			{AccountID: "acc-3", Amount: 50},
		},
	}
	if err := service.RecordTransfer(ctx, transfer); err != nil {
		t.Fatalf("RecordTransfer failed: %v", err)
	}
	if err := service.RecordTransfer(ctx, transfer); !errors.Is(err, store.ErrDuplicateEvent) {
		t.Errorf("Expected ErrDuplicateEvent, got %v", err)
	}

	recorded, err := service.RecordWithdrawal(ctx, trtl.Withdrawal{
		ID: "wd-1", AccountID: "acc-1", Amount: 300,
		Fees:   trtl.Fees{TxFee: 10, NodeFee: 5},
		Status: trtl.WithdrawalCompleted,
	})
	if err != nil || !recorded {
		t.Fatalf("RecordWithdrawal = %v, %v", recorded, err)
	}

	recorded, err = service.RecordWithdrawal(ctx, trtl.Withdrawal{
		ID: "wd-2", AccountID: "acc-1", Amount: 300, Status: trtl.WithdrawalFaulty, Failed: true,
	})
	if err != nil || recorded {
		t.Errorf("Faulty withdrawal should not be journaled: %v, %v", recorded, err)
	}

	expected := map[string]int64{"acc-1": 1000 - 200 - 315, "acc-2": 150, "acc-3": 50}
	for account, want := range expected {
		got, err := service.Balance(ctx, account)
		if err != nil {
			t.Fatalf("Balance(%s) failed: %v", account, err)
		}
		if got != want {
			t.Errorf("Balance(%s) = %d, want %d", account, got, want)
		}
		if err := service.ReconcileBalance(ctx, account); err != nil {
			t.Errorf("ReconcileBalance(%s): %v", account, err)
		}
	}

	history, err := service.History(ctx, "acc-1", 2, 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 movements, got %d", len(history))
	}
	if history[0].Kind != models.MovementWithdrawal || history[0].BalanceAfter != 485 {
		t.Errorf("Unexpected latest movement: %+v", history[0])
	}
}

func TestRecordTransferInvalid(t *testing.T) {
	service := setupTestDB(t)
	err := service.RecordTransfer(context.Background(), trtl.Transfer{ID: "tr-1", SenderID: "acc-1"})
	if err == nil {
		t.Error("Expected error for transfer without recipients")
	}
}

func TestReconcileJournal(t *testing.T) {
	service := setupTestDB(t)
	ctx := context.Background()

	for i, account := range []string{"acc-1", "acc-2"} {
		_, err := service.RecordDeposit(ctx, trtl.Deposit{
			ID: fmt.Sprintf("dep-%d", i), AccountID: account, Status: trtl.DepositCompleted,
			AccountCredited: true, CreditedAmount: 400,
		})
		if err != nil {
			t.Fatalf("RecordDeposit failed: %v", err)
		}
	}

	mismatched, err := service.ReconcileJournal(ctx)
	if err != nil {
		t.Fatalf("ReconcileJournal failed: %v", err)
	}
	if len(mismatched) != 0 {
		t.Errorf("Expected a consistent journal, got %v", mismatched)
	}

	if _, err := service.db.ExecContext(ctx, "UPDATE journal_balances SET balance = 1 WHERE account_id = ?", "acc-2"); err != nil {
		t.Fatalf("corrupt balance: %v", err)
	}

	mismatched, err = service.ReconcileJournal(ctx)
	if err != nil {
		t.Fatalf("ReconcileJournal failed: %v", err)
	}
	if len(mismatched) != 1 || mismatched[0] != "acc-2" {
		t.Errorf("Expected acc-2 to mismatch, got %v", mismatched)
	}
}
