package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"visaflow/internal/models"
)

type agentRepository struct {
	db *sql.DB
}

func NewAgentRepository(db *sql.DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *models.Agent) error {
	const q = `INSERT INTO agents (name, phone) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowContext(ctx, q, agent.Name, agent.Phone).Scan(&agent.ID); err != nil {
		return fmt.Errorf("create agent: %w", err)
	}
	return nil
}

func (r *agentRepository) GetByID(ctx context.Context, id int) (*models.Agent, error) {
	var a models.Agent
	err := r.db.QueryRowContext(ctx, `SELECT id, name, phone FROM agents WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}
	return &a, nil
}

func (r *agentRepository) List(ctx context.Context) ([]*models.Agent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, phone FROM agents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	out := []*models.Agent{}
	for rows.Next() {
		var a models.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Phone); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

type teamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) TeamRepository {
	return &teamRepository{db: db}
}

// uniqueViolation is the postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

func (r *teamRepository) Create(ctx context.Context, member *models.TeamMember) error {
	const q = `
		INSERT INTO team_members (name, role, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, q, member.Name, member.Role, member.Email, member.PasswordHash).Scan(&member.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create team member: %w", err)
	}
	return nil
}

const teamColumns = `id, name, role, email, password_hash`

func (r *teamRepository) getOne(ctx context.Context, where string, arg any) (*models.TeamMember, error) {
	var m models.TeamMember
	err := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM team_members WHERE `+where, arg).
		Scan(&m.ID, &m.Name, &m.Role, &m.Email, &m.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team member: %w", err)
	}
	return &m, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int) (*models.TeamMember, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *teamRepository) GetByEmail(ctx context.Context, email string) (*models.TeamMember, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", strings.TrimSpace(email))
}

func (r *teamRepository) List(ctx context.Context) ([]*models.TeamMember, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM team_members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	out := []*models.TeamMember{}
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Email, &m.PasswordHash); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
