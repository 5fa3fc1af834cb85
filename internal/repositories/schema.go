package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS agents (
		id    SERIAL PRIMARY KEY,
		name  TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		id            SERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS team_members_email_idx ON team_members (LOWER(email))`,
	`CREATE TABLE IF NOT EXISTS leads (
		id             SERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		phone          TEXT NOT NULL,
		source         TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL,
		assigned_to_id INTEGER,
		notes          TEXT NOT NULL DEFAULT '',
		client_id      INTEGER,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lead_follow_ups (
		id      BIGSERIAL PRIMARY KEY,
		lead_id INTEGER NOT NULL REFERENCES leads(id),
		date    TIMESTAMPTZ NOT NULL,
		note    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id              SERIAL PRIMARY KEY,
		submission_date DATE NOT NULL,
		passport_no     TEXT NOT NULL,
		name            TEXT NOT NULL,
		agent_id        INTEGER,
		country         TEXT NOT NULL DEFAULT '',
		job             TEXT NOT NULL DEFAULT '',
		provider        TEXT NOT NULL DEFAULT '',
		total_fee       BIGINT NOT NULL CHECK (total_fee >= 0),
		statuses        JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS client_payments (
		id        BIGSERIAL PRIMARY KEY,
		client_id INTEGER NOT NULL REFERENCES clients(id),
		date      DATE NOT NULL,
		amount    BIGINT NOT NULL CHECK (amount >= 0),
		method    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS client_expenses (
		id        BIGSERIAL PRIMARY KEY,
		client_id INTEGER NOT NULL REFERENCES clients(id),
		date      DATE NOT NULL,
		amount    BIGINT NOT NULL CHECK (amount >= 0),
		type      TEXT NOT NULL DEFAULT ''
	)`,
}

// Migrate creates the tables used by the postgres repositories.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// NewPostgresStore wires the postgres repositories on db.
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Leads:   NewLeadRepository(db),
		Clients: NewClientRepository(db),
		Agents:  NewAgentRepository(db),
		Team:    NewTeamRepository(db),
	}
}
