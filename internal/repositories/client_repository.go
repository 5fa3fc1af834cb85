package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"visaflow/internal/models"
)

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	statuses, err := json.Marshal(client.Statuses.Normalize())
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		INSERT INTO clients (submission_date, passport_no, name, agent_id, country, job, provider, total_fee, statuses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, q,
		client.SubmissionDate, client.PassportNo, client.Name, nullInt(client.AgentID),
		client.Country, client.Job, client.Provider, client.TotalFee, statuses,
	).Scan(&client.ID); err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	for _, p := range client.Payments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO client_payments (client_id, date, amount, method) VALUES ($1, $2, $3, $4)`,
			client.ID, p.Date, p.Amount, p.Method); err != nil {
			return fmt.Errorf("create client payment: %w", err)
		}
	}
	for _, e := range client.Expenses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO client_expenses (client_id, date, amount, type) VALUES ($1, $2, $3, $4)`,
			client.ID, e.Date, e.Amount, e.Type); err != nil {
			return fmt.Errorf("create client expense: %w", err)
		}
	}
	return tx.Commit()
}

const clientColumns = `id, submission_date, passport_no, name, agent_id, country, job, provider, total_fee, statuses`

func (r *clientRepository) GetByID(ctx context.Context, id int) (*models.Client, error) {
	c, err := scanClient(r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	byID := map[int]*models.Client{c.ID: c}
	if err := r.loadLedger(ctx, byID, pq.Array([]int64{int64(id)})); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *clientRepository) List(ctx context.Context) ([]*models.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	out := []*models.Client{}
	byID := map[int]*models.Client{}
	ids := []int64{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		byID[c.ID] = c
		ids = append(ids, int64(c.ID))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := r.loadLedger(ctx, byID, pq.Array(ids)); err != nil {
		return nil, err
	}
	return out, nil
}

// loadLedger fills payments and expenses in insertion order.
func (r *clientRepository) loadLedger(ctx context.Context, byID map[int]*models.Client, ids any) error {
	pRows, err := r.db.QueryContext(ctx,
		`SELECT client_id, date, amount, method FROM client_payments WHERE client_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load payments: %w", err)
	}
	defer pRows.Close()
	for pRows.Next() {
		var clientID int
		var p models.Payment
		if err := pRows.Scan(&clientID, &p.Date, &p.Amount, &p.Method); err != nil {
			return err
		}
		if c, ok := byID[clientID]; ok {
			c.Payments = append(c.Payments, p)
		}
	}
	if err := pRows.Err(); err != nil {
		return err
	}

	eRows, err := r.db.QueryContext(ctx,
		`SELECT client_id, date, amount, type FROM client_expenses WHERE client_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	defer eRows.Close()
	for eRows.Next() {
		var clientID int
		var e models.Expense
		if err := eRows.Scan(&clientID, &e.Date, &e.Amount, &e.Type); err != nil {
			return err
		}
		if c, ok := byID[clientID]; ok {
			c.Expenses = append(c.Expenses, e)
		}
	}
	return eRows.Err()
}

func (r *clientRepository) UpdateStatus(ctx context.Context, id int, field models.StageField, value models.StageValue) error {
	const q = `UPDATE clients SET statuses = jsonb_set(statuses, $1, to_jsonb($2::text)) WHERE id = $3`
	res, err := r.db.ExecContext(ctx, q, pq.Array([]string{string(field)}), string(value), id)
	if err != nil {
		return fmt.Errorf("update client status: %w", err)
	}
	return requireRow(res)
}

func (r *clientRepository) AppendPayment(ctx context.Context, id int, payment models.Payment) error {
	const q = `
		INSERT INTO client_payments (client_id, date, amount, method)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (SELECT 1 FROM clients WHERE id = $1)
	`
	res, err := r.db.ExecContext(ctx, q, id, payment.Date, payment.Amount, payment.Method)
	if err != nil {
		return fmt.Errorf("add payment: %w", err)
	}
	return requireRow(res)
}

func (r *clientRepository) AppendExpense(ctx context.Context, id int, expense models.Expense) error {
	const q = `
		INSERT INTO client_expenses (client_id, date, amount, type)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (SELECT 1 FROM clients WHERE id = $1)
	`
	res, err := r.db.ExecContext(ctx, q, id, expense.Date, expense.Amount, expense.Type)
	if err != nil {
		return fmt.Errorf("add expense: %w", err)
	}
	return requireRow(res)
}

func scanClient(row rowScanner) (*models.Client, error) {
	var (
		c         models.Client
		agentID   sql.NullInt64
		raw       []byte
		submitted time.Time
	)
	if err := row.Scan(&c.ID, &submitted, &c.PassportNo, &c.Name, &agentID,
		&c.Country, &c.Job, &c.Provider, &c.TotalFee, &raw); err != nil {
		return nil, err
	}
	var statuses models.Statuses
	if err := json.Unmarshal(raw, &statuses); err != nil {
		return nil, fmt.Errorf("decode statuses of client %d: %w", c.ID, err)
	}
	c.SubmissionDate = submitted
	c.AgentID = intPtr(agentID)
	c.Statuses = statuses.Normalize()
	c.Payments = []models.Payment{}
	c.Expenses = []models.Expense{}
	return &c, nil
}
