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

package database

const (
	// Account registry queries
	queryInsertAccount = `
		INSERT INTO accounts (id, app_id, label, payment_id, deposit_address, withdraw_address, created_at)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?)`

	queryGetAccount = `
		SELECT id, app_id, COALESCE(label, ''), payment_id, deposit_address, withdraw_address, created_at
		FROM accounts
		WHERE id = ?`

	queryGetAccountByLabel = `
		SELECT id, app_id, COALESCE(label, ''), payment_id, deposit_address, withdraw_address, created_at
		FROM accounts
		WHERE label = ?`

	queryListAccounts = `
		SELECT id, app_id, COALESCE(label, ''), payment_id, deposit_address, withdraw_address, created_at
		FROM accounts
		ORDER BY created_at, id`

	queryUpdateWithdrawAddress = `
		UPDATE accounts SET withdraw_address = ? WHERE id = ?`

	// Tracker queries
	queryGetDepositStatus = `
		SELECT status, finished FROM deposits WHERE id = ?`

	queryUpsertDeposit = `
		INSERT INTO deposits (id, account_id, status, amount, credited_amount, expired, cancelled, finished, last_update, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			amount = excluded.amount,
			credited_amount = excluded.credited_amount,
			expired = excluded.expired,
			cancelled = excluded.cancelled,
			finished = excluded.finished,
			last_update = excluded.last_update,
			updated_at = CURRENT_TIMESTAMP`

	queryPendingDeposits = `
		SELECT id FROM deposits WHERE finished = 0 ORDER BY updated_at`

	queryGetWithdrawalStatus = `
		SELECT status FROM withdrawals WHERE id = ?`

	queryUpsertWithdrawal = `
		INSERT INTO withdrawals (id, account_id, status, amount, fees, failed, tx_hash, terminal, last_update, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			amount = excluded.amount,
			fees = excluded.fees,
			failed = excluded.failed,
			tx_hash = excluded.tx_hash,
			terminal = excluded.terminal,
			last_update = excluded.last_update,
			updated_at = CURRENT_TIMESTAMP`

	queryPendingWithdrawals = `
		SELECT id FROM withdrawals WHERE terminal = 0 ORDER BY updated_at`

	// Journal queries
	queryInsertJournalEvent = `
		INSERT OR IGNORE INTO journal_events (reference, source) VALUES (?, ?)`

	queryGetJournalBalance = `
		SELECT balance, version FROM journal_balances WHERE account_id = ?`

	queryInsertJournalBalance = `
		INSERT INTO journal_balances (account_id, balance, version) VALUES (?, 0, 1)`

	queryUpdateJournalBalance = `
		UPDATE journal_balances
		SET balance = ?, last_movement_id = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE account_id = ? AND version = ?`

	queryInsertMovement = `
		INSERT INTO movements (id, account_id, kind, amount, balance_after, reference, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetMovementHistory = `
		SELECT id, account_id, kind, amount, balance_after, reference, source, created_at
		FROM movements
		WHERE account_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`

	queryGetBalance = `
		SELECT balance FROM journal_balances WHERE account_id = ?`

	queryReconcileBalance = `
		SELECT COALESCE(SUM(amount), 0) FROM movements WHERE account_id = ?`

	queryJournalAccounts = `
		SELECT account_id FROM journal_balances ORDER BY account_id`
)
