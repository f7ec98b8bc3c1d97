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
	"context"
	"net/http"
)

type previewRequest struct {
	AccountID   string `json:"accountId"`
	Amount      int64  `json:"amount"`
	SendAddress string `json:"sendAddress,omitempty"`
}

type withdrawRequest struct {
	PreparedWithdrawalID string `json:"preparedWithdrawalId"`
}

// WithdrawalPreview quotes a withdrawal of amount atomic units without moving
// any funds. An empty sendAddress uses the account's withdraw address. The
// returned preview id is what Withdraw expects.
func (c *Client) WithdrawalPreview(ctx context.Context, accountID string, amount int64, sendAddress string) (*WithdrawalPreview, error) {
	if !c.IsInitialized() {
		return nil, errNotInitialized()
	}
	if accountID == "" {
		return nil, invalidParams("account id is required")
	}
	if amount <= 0 {
		return nil, NewServiceError(CodeInvalidAmount, "")
	}

	return do[WithdrawalPreview](ctx, c, "withdrawal_preview", http.MethodPost, c.appPath("prepared_withdrawals"), nil, previewRequest{
		AccountID:   accountID,
		Amount:      amount,
		SendAddress: sendAddress,
	})
}

// Withdraw commits a previously created withdrawal preview. A preview id the
// service never issued, or one that was already used, yields an error.
//
//	preview, err := client.WithdrawalPreview(ctx, accountID, 2100, "")
//	if err != nil {
//		return err
//	}
//	withdrawal, err := client.Withdraw(ctx, preview.ID)
func (c *Client) Withdraw(ctx context.Context, previewID string) (*Withdrawal, error) {
	if !c.IsInitialized() {
		return nil, errNotInitialized()
	}
	if previewID == "" {
		return nil, invalidParams("withdrawal preview id is required")
	}

	return do[Withdrawal](ctx, c, "withdraw", http.MethodPost, c.appPath("withdrawals"), nil, withdrawRequest{
		PreparedWithdrawalID: previewID,
	})
}

// GetWithdrawal returns the withdrawal with the given id.
func (c *Client) GetWithdrawal(ctx context.Context, withdrawalID string) (*Withdrawal, error) {
	if !c.IsInitialized() {
		return nil, errNotInitialized()
	}
	if withdrawalID == "" {
		return nil, invalidParams("withdrawal id is required")
	}
	return do[Withdrawal](ctx, c, "get_withdrawal", http.MethodGet, c.appPath("withdrawals", withdrawalID), nil, nil)
}
