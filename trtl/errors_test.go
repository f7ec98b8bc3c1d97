package trtl

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allCodes = []ErrorCode{
	CodeUnknown, CodeNotInitialized, CodeServiceHalted, CodeMasterWalletSyncFailed,
	CodeInvalidAppName, CodeInvalidAppType, CodeAppNotFound, CodeAppDisabled,
	CodeCreateAccountFailed, CodeAccountNotFound, CodeUserNotFound,
	CodeInvalidWithdrawAddress, CodeDepositNotFound, CodeTransferNotFound,
	CodeWithdrawalNotFound, CodePreviewNotFound, CodePreviewConsumed,
	CodeUnauthorized, CodeInvalidParams, CodeInvalidAmount, CodeInsufficientFunds,
}

func TestDefaultMessage(t *testing.T) {
	seen := map[string]ErrorCode{}
	for _, code := range allCodes {
		msg := DefaultMessage(code)
		assert.NotEmpty(t, msg, "code %s", code)
		if code != CodeUnknown {
			assert.NotEqual(t, DefaultMessage(CodeUnknown), msg, "code %s falls through to unknown", code)
		}
		if prev, ok := seen[msg]; ok {
			t.Errorf("codes %s and %s share message %q", prev, code, msg)
		}
		seen[msg] = code
	}

	assert.Equal(t, "Service not initialized.", DefaultMessage(CodeNotInitialized))
	assert.Equal(t, "An unknown error has occurred.", DefaultMessage("nope/not-a-code"))
}

func TestNewServiceError(t *testing.T) {
	se := NewServiceError(CodeInvalidAmount, "")
	assert.Equal(t, CodeInvalidAmount, se.Code)
	assert.Equal(t, DefaultMessage(CodeInvalidAmount), se.Message)

	se = NewServiceError(CodeInvalidAmount, "amount must be at least 1")
	assert.Equal(t, "amount must be at least 1", se.Message)
	assert.Equal(t, "transfer/invalid-amount: amount must be at least 1", se.Error())
}

func TestServiceErrorIs(t *testing.T) {
	err := fmt.Errorf("transfer: %w", NewServiceError(CodeInsufficientFunds, "custom"))

	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.False(t, errors.Is(err, ErrInvalidAmount))
	assert.False(t, errors.Is(errors.New("plain"), ErrUnknown))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("boom")))
	assert.Equal(t, CodeAccountNotFound, CodeOf(fmt.Errorf("wrapped: %w", ErrAccountNotFound)))
}
