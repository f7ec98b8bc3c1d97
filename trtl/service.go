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

type feeResponse struct {
	Fee int64 `json:"fee"`
}

type validateAddressRequest struct {
	Address         string `json:"address"`
	AllowIntegrated bool   `json:"allowIntegrated"`
}

type validateAddressResponse struct {
	Valid bool `json:"valid"`
}

// GetFee returns the node fee currently charged on withdrawals, in atomic units.
func (c *Client) GetFee(ctx context.Context) (int64, error) {
	resp, err := do[feeResponse](ctx, c, "get_fee", http.MethodGet, servicePath("service", "nodefee"), nil, nil)
	if err != nil {
		return 0, err
	}
	return resp.Fee, nil
}

// ValidateAddress asks the service whether address is a valid network address.
// Integrated addresses are only accepted when allowIntegrated is set.
func (c *Client) ValidateAddress(ctx context.Context, address string, allowIntegrated bool) (bool, error) {
	if !c.IsInitialized() {
		return false, errNotInitialized()
	}
	if address == "" {
		return false, invalidParams("address is required")
	}

	resp, err := do[validateAddressResponse](ctx, c, "validate_address", http.MethodPost, servicePath("service", "validateaddress"), nil, validateAddressRequest{
		Address:         address,
		AllowIntegrated: allowIntegrated,
	})
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}
