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
	"net/url"
	"strconv"
)

// CreateAccount creates a new app account with zero balances and a freshly
// minted deposit address.
//
//	account, err := client.CreateAccount(ctx)
//	if err != nil {
//		return err
//	}
//	fmt.Println("deposit to", account.DepositAddress)
func (c *Client) CreateAccount(ctx context.Context) (*Account, error) {
	return do[Account](ctx, c, "create_account", http.MethodPost, c.appPath("accounts"), nil, nil)
}

// GetAccount returns the account with the given id.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	if !c.IsInitialized() {
		return nil, errNotInitialized()
	}
	if accountID == "" {
		return nil, invalidParams("account id is required")
	}
	return do[Account](ctx, c, "get_account", http.MethodGet, c.appPath("accounts", accountID), nil, nil)
}

// ListAccounts returns a page of app accounts.
func (c *Client) ListAccounts(ctx context.Context, opts ListAccountsOptions) ([]Account, error) {
	if !c.IsInitialized() {
		return nil, errNotInitialized()
	}

	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = OrderByCreatedAt
	}
	if !orderBy.valid() {
		return nil, invalidParams("unsupported orderBy: " + string(orderBy))
	}
	if opts.Limit < 0 {
		return nil, invalidParams("limit cannot be negative")
	}

	query := url.Values{}
	query.Set("orderBy", string(orderBy))
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.StartAfter != "" {
		query.Set("startAfter", opts.StartAfter)
	}

	accounts, err := do[[]Account](ctx, c, "list_accounts", http.MethodGet, c.appPath("accounts"), query, nil)
	if err != nil {
		return nil, err
	}
	return *accounts, nil
}

type withdrawAddressRequest struct {
	Address string `json:"address"`
}

type withdrawAddressResponse struct {
	WithdrawAddress string `json:"withdrawAddress"`
}

// SetWithdrawAddress sets the default address withdrawals from the account are
// sent to and returns the address the service stored. Address validity is
// checked by the service; an invalid address yields
// app/invalid-withdraw-address.
func (c *Client) SetWithdrawAddress(ctx context.Context, accountID, address string) (string, error) {
	if !c.IsInitialized() {
		return "", errNotInitialized()
	}
	if accountID == "" || address == "" {
		return "", invalidParams("account id and address are required")
	}

	resp, err := do[withdrawAddressResponse](ctx, c, "set_withdraw_address", http.MethodPut,
		c.appPath("accounts", accountID, "withdrawaddress"), nil, withdrawAddressRequest{Address: address})
	if err != nil {
		return "", err
	}
	return resp.WithdrawAddress, nil
}
