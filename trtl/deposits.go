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

// GetDeposit returns the deposit with the given id.
func (c *Client) GetDeposit(ctx context.Context, depositID string) (*Deposit, error) {
	if !c.IsInitialized() {
		return nil, errNotInitialized()
	}
	if depositID == "" {
		return nil, invalidParams("deposit id is required")
	}
	return do[Deposit](ctx, c, "get_deposit", http.MethodGet, c.appPath("deposits", depositID), nil, nil)
}
