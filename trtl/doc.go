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

// Package trtl is a client for the TRTL Apps hosted wallet API.
//
// Every operation performs at most one HTTP call and returns either a result
// or a *ServiceError, never both. Amounts are integers in atomic units.
//
// Create a client and an account:
//
//	client := trtl.New("YOUR_APP_ID", "YOUR_APP_SECRET")
//
//	account, err := client.CreateAccount(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Withdrawals are two-phase: WithdrawalPreview quotes the fees, Withdraw
// commits the preview by id.
//
// Errors can be matched by code:
//
//	if errors.Is(err, trtl.ErrInsufficientFunds) {
//		// top up first
//	}
package trtl
