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

package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
)

// AmountDecimals is the number of decimals of one TRTL.
const AmountDecimals = 2

// FormatAmount renders atomic units as TRTL, e.g. 150 -> "1.50".
func FormatAmount(atomic int64) string {
	return decimal.New(atomic, -AmountDecimals).StringFixed(AmountDecimals)
}

// ParseAmount converts a TRTL string into atomic units. It rejects
// non-positive amounts and amounts with more than two decimals.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be positive: %s", s)
	}

	shifted := d.Shift(AmountDecimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimals", s, AmountDecimals)
	}
	if !shifted.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s is too large", s)
	}
	return shifted.IntPart(), nil
}

// ParseTransferLegs parses "label:amount" pairs separated by commas, e.g.
// "bob:1.50,carol:0.25". Amounts are in TRTL.
func ParseTransferLegs(s string) ([]models.TransferLeg, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	var legs []models.TransferLeg
	for _, part := range strings.Split(s, ",") {
		account, amount, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok || account == "" {
			return nil, fmt.Errorf("invalid recipient %q, expected ACCOUNT:AMOUNT", part)
		}
		atomic, err := ParseAmount(amount)
		if err != nil {
			return nil, fmt.Errorf("recipient %s: %w", account, err)
		}
		legs = append(legs, models.TransferLeg{Account: account, Amount: atomic})
	}
	return legs, nil
}
