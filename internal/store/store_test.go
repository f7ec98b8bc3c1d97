package store

import (
	"testing"

	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

func TestReferences(t *testing.T) {
	if got := DepositReference("d1"); got != "deposit:d1" {
		t.Errorf("DepositReference = %q", got)
	}
	if got := WithdrawalReference("w1"); got != "withdrawal:w1" {
		t.Errorf("WithdrawalReference = %q", got)
	}
	if got := TransferReference("t1"); got != "transfer:t1" {
		t.Errorf("TransferReference = %q", got)
	}
}

func TestDepositJournaled(t *testing.T) {
	tests := []struct {
		name    string
		deposit trtl.Deposit
		want    bool
	}{
		{"pending", trtl.Deposit{Status: trtl.DepositPending, AccountCredited: true, CreditedAmount: 5}, false},
		{"completed not credited", trtl.Deposit{Status: trtl.DepositCompleted}, false},
		{"completed credited", trtl.Deposit{Status: trtl.DepositCompleted, AccountCredited: true, CreditedAmount: 5}, true},
		{"expired", trtl.Deposit{Status: trtl.DepositCompleted, Expired: true, AccountCredited: true, CreditedAmount: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DepositJournaled(tt.deposit); got != tt.want {
				t.Errorf("DepositJournaled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithdrawalJournaled(t *testing.T) {
	if WithdrawalJournaled(trtl.Withdrawal{Status: trtl.WithdrawalConfirming}) {
		t.Error("confirming withdrawal should not be journaled")
	}
	if WithdrawalJournaled(trtl.Withdrawal{Status: trtl.WithdrawalFaulty, Failed: true}) {
		t.Error("faulty withdrawal should not be journaled")
	}
	if !WithdrawalJournaled(trtl.Withdrawal{Status: trtl.WithdrawalCompleted}) {
		t.Error("completed withdrawal should be journaled")
	}
}

func TestValidateTransfer(t *testing.T) {
	ok := trtl.Transfer{ID: "t1", SenderID: "a", Recipients: []trtl.Recipient{{AccountID: "b", Amount: 1}}}
	if err := ValidateTransfer(ok); err != nil {
		t.Errorf("valid transfer rejected: %v", err)
	}

	bad := ok
	bad.Recipients = []trtl.Recipient{{AccountID: "b", Amount: 0}}
	if err := ValidateTransfer(bad); err == nil {
		t.Error("zero amount accepted")
	}

	bad = ok
	bad.ID = ""
	if err := ValidateTransfer(bad); err == nil {
		t.Error("missing id accepted")
	}
}
