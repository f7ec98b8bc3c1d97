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

import (
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

// AccountSummary combines the live remote account with local history
type AccountSummary struct {
	Record  AccountRecord `json:"record"`
	Account *trtl.Account `json:"account"`
	History []Movement    `json:"history"`
}

// TransferLeg is one recipient of a transfer, addressed by label or id
type TransferLeg struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

// SyncResult describes what a deposit or withdrawal sync changed
type SyncResult struct {
	Kind      string `json:"kind"`
	Id        string `json:"id"`
	AccountId string `json:"account_id"`
	Status    string `json:"status"`
	Advanced  bool   `json:"advanced"`
	Journaled bool   `json:"journaled"`
	Terminal  bool   `json:"terminal"`
}
