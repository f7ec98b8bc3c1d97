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

type transferRequest struct {
	SenderID   string      `json:"senderId"`
	Recipients []Recipient `json:"recipients"`
}

// Transfer moves amount atomic units from sender to receiver.
func (c *Client) Transfer(ctx context.Context, senderID, receiverID string, amount int64) (*Transfer, error) {
	return c.TransferMany(ctx, senderID, []Recipient{{AccountID: receiverID, Amount: amount}})
}

// TransferMany moves funds from one sender to every recipient in a single
// transfer. Non-positive amounts are rejected with transfer/invalid-amount
// before any call; the service rejects transfers the sender's unlocked
// balance cannot cover with transfer/insufficient-funds.
func (c *Client) TransferMany(ctx context.Context, senderID string, recipients []Recipient) (*Transfer, error) {
	if !c.IsInitialized() {
		return nil, errNotInitialized()
	}
	if senderID == "" {
		return nil, invalidParams("sender id is required")
	}
	if len(recipients) == 0 {
		return nil, invalidParams("at least one recipient is required")
	}
	for _, r := range recipients {
		if r.AccountID == "" {
			return nil, invalidParams("recipient account id is required")
		}
		if r.Amount <= 0 {
			return nil, NewServiceError(CodeInvalidAmount, "")
		}
	}

	return do[Transfer](ctx, c, "transfer", http.MethodPost, c.appPath("transfers"), nil, transferRequest{
		SenderID:   senderID,
		Recipients: recipients,
	})
}

// GetTransfer returns the transfer with the given id.
func (c *Client) GetTransfer(ctx context.Context, transferID string) (*Transfer, error) {
	if !c.IsInitialized() {
		return nil, errNotInitialized()
	}
	if transferID == "" {
		return nil, invalidParams("transfer id is required")
	}
	return do[Transfer](ctx, c, "get_transfer", http.MethodGet, c.appPath("transfer", transferID), nil, nil)
}
