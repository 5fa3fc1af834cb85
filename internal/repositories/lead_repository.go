package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"visaflow/internal/models"
)

type leadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) LeadRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		INSERT INTO leads (name, phone, source, status, assigned_to_id, notes, client_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, q,
		lead.Name, lead.Phone, lead.Source, lead.Status,
		nullInt(lead.AssignedToID), lead.Notes, nullInt(lead.ClientID), lead.CreatedAt,
	).Scan(&lead.ID); err != nil {
		return fmt.Errorf("create lead: %w", err)
	}

	// FollowUps are newest-first; insert oldest first so id order matches time order.
	for i := len(lead.FollowUps) - 1; i >= 0; i-- {
		f := lead.FollowUps[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lead_follow_ups (lead_id, date, note) VALUES ($1, $2, $3)`,
			lead.ID, f.Date, f.Note,
		); err != nil {
			return fmt.Errorf("create lead follow-up: %w", err)
		}
	}
	return tx.Commit()
}

func (r *leadRepository) GetByID(ctx context.Context, id int) (*models.Lead, error) {
	const q = `
		SELECT id, name, phone, source, status, assigned_to_id, notes, client_id, created_at
		FROM leads
		WHERE id = $1
	`
	lead, err := scanLead(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT date, note FROM lead_follow_ups WHERE lead_id = $1 ORDER BY id DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("get lead follow-ups: %w", err)
	}
	defer rows.Close()
	lead.FollowUps = []models.FollowUp{}
	for rows.Next() {
		var f models.FollowUp
		if err := rows.Scan(&f.Date, &f.Note); err != nil {
			return nil, err
		}
		lead.FollowUps = append(lead.FollowUps, f)
	}
	return lead, rows.Err()
}

func (r *leadRepository) List(ctx context.Context) ([]*models.Lead, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, source, status, assigned_to_id, notes, client_id, created_at
		FROM leads
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	out := []*models.Lead{}
	byID := map[int]*models.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		lead.FollowUps = []models.FollowUp{}
		out = append(out, lead)
		byID[lead.ID] = lead
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fRows, err := r.db.QueryContext(ctx,
		`SELECT lead_id, date, note FROM lead_follow_ups ORDER BY lead_id, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list lead follow-ups: %w", err)
	}
	defer fRows.Close()
	for fRows.Next() {
		var leadID int
		var f models.FollowUp
		if err := fRows.Scan(&leadID, &f.Date, &f.Note); err != nil {
			return nil, err
		}
		if l, ok := byID[leadID]; ok {
			l.FollowUps = append(l.FollowUps, f)
		}
	}
	return out, fRows.Err()
}

func (r *leadRepository) UpdateStatus(ctx context.Context, id int, status models.LeadStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE leads SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	return requireRow(res)
}

func (r *leadRepository) UpdateAssignee(ctx context.Context, id int, assigneeID *int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE leads SET assigned_to_id = $1 WHERE id = $2`, nullInt(assigneeID), id)
	if err != nil {
		return fmt.Errorf("update lead assignee: %w", err)
	}
	return requireRow(res)
}

func (r *leadRepository) PrependFollowUp(ctx context.Context, id int, followUp models.FollowUp) error {
	const q = `
		INSERT INTO lead_follow_ups (lead_id, date, note)
		SELECT $1, $2, $3
		WHERE EXISTS (SELECT 1 FROM leads WHERE id = $1)
	`
	res, err := r.db.ExecContext(ctx, q, id, followUp.Date, followUp.Note)
	if err != nil {
		return fmt.Errorf("add follow-up: %w", err)
	}
	return requireRow(res)
}

func (r *leadRepository) MarkConverted(ctx context.Context, id, clientID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leads SET client_id = $1 WHERE id = $2 AND client_id IS NULL`, clientID, id)
	if err != nil {
		return fmt.Errorf("mark lead converted: %w", err)
	}
	if err := requireRow(res); err == nil {
		return nil
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("mark lead converted: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*models.Lead, error) {
	var (
		l        models.Lead
		assigned sql.NullInt64
		clientID sql.NullInt64
	)
	if err := row.Scan(&l.ID, &l.Name, &l.Phone, &l.Source, &l.Status, &assigned, &l.Notes, &clientID, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.AssignedToID = intPtr(assigned)
	l.ClientID = intPtr(clientID)
	return &l, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
