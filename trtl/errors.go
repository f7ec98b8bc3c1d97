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

import "errors"

// ErrorCode identifies a failure category reported by the service or by the client.
type ErrorCode string

const (
	CodeUnknown                ErrorCode = "service/unknown-error"
	CodeNotInitialized         ErrorCode = "service/not-initialized"
	CodeServiceHalted          ErrorCode = "service/service-halted"
	CodeMasterWalletSyncFailed ErrorCode = "service/master-wallet-sync-failed"
	CodeInvalidAppName         ErrorCode = "app/invalid-app-name"
	CodeInvalidAppType         ErrorCode = "app/invalid-app-type"
	CodeAppNotFound            ErrorCode = "app/app-not-found"
	CodeAppDisabled            ErrorCode = "app/app-disabled"
	CodeCreateAccountFailed    ErrorCode = "app/create-account-failed"
	CodeAccountNotFound        ErrorCode = "app/account-not-found"
	CodeUserNotFound           ErrorCode = "app/user-not-found"
	CodeInvalidWithdrawAddress ErrorCode = "app/invalid-withdraw-address"
	CodeDepositNotFound        ErrorCode = "app/deposit-not-found"
	CodeTransferNotFound       ErrorCode = "app/transfer-not-found"
	CodeWithdrawalNotFound     ErrorCode = "app/withdrawal-not-found"
	CodePreviewNotFound        ErrorCode = "app/withdrawal-preview-not-found"
	CodePreviewConsumed        ErrorCode = "app/withdrawal-preview-consumed"
	CodeUnauthorized           ErrorCode = "request/unauthorized"
	CodeInvalidParams          ErrorCode = "request/invalid-params"
	CodeInvalidAmount          ErrorCode = "transfer/invalid-amount"
	CodeInsufficientFunds      ErrorCode = "transfer/insufficient-funds"
)

// Sentinels for use with errors.Is. Matching is by code only.
var (
	ErrUnknown                   = &ServiceError{Code: CodeUnknown}
	ErrNotInitialized            = &ServiceError{Code: CodeNotInitialized}
	ErrServiceHalted             = &ServiceError{Code: CodeServiceHalted}
	ErrAccountNotFound           = &ServiceError{Code: CodeAccountNotFound}
	ErrInvalidWithdrawAddress    = &ServiceError{Code: CodeInvalidWithdrawAddress}
	ErrWithdrawalPreviewNotFound = &ServiceError{Code: CodePreviewNotFound}
	ErrUnauthorized              = &ServiceError{Code: CodeUnauthorized}
	ErrInvalidParams             = &ServiceError{Code: CodeInvalidParams}
	ErrInvalidAmount             = &ServiceError{Code: CodeInvalidAmount}
	ErrInsufficientFunds         = &ServiceError{Code: CodeInsufficientFunds}
)

// ServiceError is the single error shape returned by every client operation.
type ServiceError struct {
	Code    ErrorCode `json:"errorCode"`
	Message string    `json:"message"`
}

// NewServiceError builds an error for code. An empty message resolves to the
// code's default message.
func NewServiceError(code ErrorCode, message string) *ServiceError {
	if message == "" {
		message = DefaultMessage(code)
	}
	return &ServiceError{Code: code, Message: message}
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = DefaultMessage(e.Code)
	}
	return string(e.Code) + ": " + msg
}

// Is reports whether target is a *ServiceError with the same code.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// DefaultMessage returns the human readable text for code. It never returns
// an empty string.
func DefaultMessage(code ErrorCode) string {
	switch code {
	case CodeNotInitialized:
		return "Service not initialized."
	case CodeServiceHalted:
		return "Service is currently unavailable, please try again later."
	case CodeMasterWalletSyncFailed:
		return "Failed to sync service master wallet."
	case CodeInvalidAppName:
		return "Invalid app name provided."
	case CodeInvalidAppType:
		return "Invalid app type."
	case CodeAppNotFound:
		return "App not found."
	case CodeAppDisabled:
		return "App is currently disabled."
	case CodeCreateAccountFailed:
		return "Failed to create app account."
	case CodeAccountNotFound:
		return "App account not found."
	case CodeUserNotFound:
		return "App user not found."
	case CodeInvalidWithdrawAddress:
		return "Invalid or missing withdraw address."
	case CodeDepositNotFound:
		return "Deposit not found."
	case CodeTransferNotFound:
		return "Transfer not found."
	case CodeWithdrawalNotFound:
		return "Withdrawal not found."
	case CodePreviewNotFound:
		return "Withdrawal preview not found."
	case CodePreviewConsumed:
		return "Withdrawal preview has already been used."
	case CodeUnauthorized:
		return "Unauthorized request."
	case CodeInvalidParams:
		return "Invalid request parameters provided."
	case CodeInvalidAmount:
		return "Invalid amount specified in transfer request."
	case CodeInsufficientFunds:
		return "Account has insufficient funds for transfer."
	default:
		return "An unknown error has occurred."
	}
}

// CodeOf extracts the code carried by err. Errors that are not a
// *ServiceError report CodeUnknown; a nil error reports "".
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeUnknown
}
