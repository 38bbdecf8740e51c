/**
 * Copyright 2025-present Coinbase Global, Inc.
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

// Queries use ? placeholders and go through Rebind before execution.

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		name TEXT PRIMARY KEY,
		balance TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS transfers (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		giver TEXT NOT NULL,
		receiver TEXT NOT NULL,
		amount TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_giver ON transfers(giver)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_receiver ON transfers(receiver)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		name TEXT PRIMARY KEY,
		balance TEXT NOT NULL,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS transfers (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		giver TEXT NOT NULL,
		receiver TEXT NOT NULL,
		amount TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_giver ON transfers(giver)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_receiver ON transfers(receiver)`,
}

const (
	// Account queries
	queryGetAccount = `
		SELECT name, balance
		FROM accounts
		WHERE name = ?`

	queryListAccounts = `
		SELECT name, balance
		FROM accounts
		ORDER BY name`

	queryUpsertAccount = `
		INSERT INTO accounts (name, balance)
		VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE
		SET balance = excluded.balance, version = accounts.version + 1, updated_at = CURRENT_TIMESTAMP`

	// Transfer journal queries
	queryInsertTransfer = `
		INSERT INTO transfers (id, giver, receiver, amount, created_at)
		VALUES (?, ?, ?, ?, ?)`

	queryListTransfers = `
		SELECT id, giver, receiver, amount, created_at
		FROM transfers
		WHERE giver = ? OR receiver = ?
		ORDER BY seq DESC
		LIMIT ? OFFSET ?`
)
