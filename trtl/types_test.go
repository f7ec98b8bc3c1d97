package trtl

import "testing"

func TestDepositStatusMonotonic(t *testing.T) {
	order := []DepositStatus{DepositPending, DepositConfirming, DepositFinalizing, DepositCompleted}
	for i, from := range order {
		for j, to := range order {
			if got, want := from.CanAdvanceTo(to), j >= i; got != want {
				t.Errorf("%s -> %s = %v, want %v", from, to, got, want)
			}
		}
	}
	if !DepositCompleted.IsTerminal() || DepositFinalizing.IsTerminal() {
		t.Error("only completed deposits are terminal")
	}
}

func TestWithdrawalStatusTerminal(t *testing.T) {
	for _, s := range []WithdrawalStatus{WithdrawalFaulty, WithdrawalLost, WithdrawalCompleted} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
		if s.CanAdvanceTo(WithdrawalPending) {
			t.Errorf("%s must not move back to pending", s)
		}
	}
	if WithdrawalCompleted.CanAdvanceTo(WithdrawalFaulty) {
		t.Error("terminal statuses must not change")
	}
	if !WithdrawalPending.CanAdvanceTo(WithdrawalLost) {
		t.Error("pending should advance to lost")
	}
	if WithdrawalConfirming.CanAdvanceTo(WithdrawalPending) {
		t.Error("confirming must not regress")
	}
}

func TestDepositSettled(t *testing.T) {
	tests := []struct {
		name     string
		deposit  Deposit
		settled  bool
		finished bool
	}{
		{"pending", Deposit{Status: DepositPending}, false, false},
		{"completed", Deposit{Status: DepositCompleted}, true, true},
		{"expired", Deposit{Status: DepositPending, Expired: true}, false, true},
		{"cancelled", Deposit{Status: DepositConfirming, Cancelled: true}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.deposit.Settled(); got != tt.settled {
				t.Errorf("Settled() = %v, want %v", got, tt.settled)
			}
			if got := tt.deposit.Finished(); got != tt.finished {
				t.Errorf("Finished() = %v, want %v", got, tt.finished)
			}
		})
	}
}

func TestWithdrawalConsistent(t *testing.T) {
	w := Withdrawal{Failed: true, TxHash: "abc"}
	if w.Consistent() {
		t.Error("failed withdrawal with tx hash should be inconsistent")
	}
	w.TxHash = ""
	if !w.Consistent() {
		t.Error("failed withdrawal without tx hash should be consistent")
	}
}
