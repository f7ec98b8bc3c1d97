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

package models

import "time"

// AccountRecord is the local registration of a remote app account
type AccountRecord struct {
	Id              string    `db:"id"`
	AppId           string    `db:"app_id"`
	Label           string    `db:"label"`
	PaymentId       string    `db:"payment_id"`
	DepositAddress  string    `db:"deposit_address"`
	WithdrawAddress string    `db:"withdraw_address"`
	CreatedAt       time.Time `db:"created_at"`
}

// DisplayName is the label when set, otherwise the account id
func (a AccountRecord) DisplayName() string {
	if a.Label != "" {
		return a.Label
	}
	return a.Id
}

// Movement kinds
const (
	MovementDeposit     = "deposit"
	MovementWithdrawal  = "withdrawal"
	MovementTransferIn  = "transfer_in"
	MovementTransferOut = "transfer_out"
)

// Movement is one immutable balance change of an account (cold data).
// Amount is signed and in atomic units.
type Movement struct {
	Id           string    `db:"id"`
	AccountId    string    `db:"account_id"`
	Kind         string    `db:"kind"`
	Amount       int64     `db:"amount"`
	BalanceAfter int64     `db:"balance_after"`
	Reference    string    `db:"reference"`
	Source       string    `db:"source"`
	CreatedAt    time.Time `db:"created_at"`
}
