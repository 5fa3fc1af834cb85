package repositories

import (
	"context"
	"errors"

	"visaflow/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with existing data")
)

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id int) (*models.Lead, error)
	List(ctx context.Context) ([]*models.Lead, error)
	UpdateStatus(ctx context.Context, id int, status models.LeadStatus) error
	UpdateAssignee(ctx context.Context, id int, assigneeID *int) error
	PrependFollowUp(ctx context.Context, id int, followUp models.FollowUp) error
	// MarkConverted links the lead to a client; ErrConflict if already linked.
	MarkConverted(ctx context.Context, id, clientID int) error
}

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id int) (*models.Client, error)
	List(ctx context.Context) ([]*models.Client, error)
	UpdateStatus(ctx context.Context, id int, field models.StageField, value models.StageValue) error
	AppendPayment(ctx context.Context, id int, payment models.Payment) error
	AppendExpense(ctx context.Context, id int, expense models.Expense) error
}

type AgentRepository interface {
	Create(ctx context.Context, agent *models.Agent) error
	GetByID(ctx context.Context, id int) (*models.Agent, error)
	List(ctx context.Context) ([]*models.Agent, error)
}

type TeamRepository interface {
	Create(ctx context.Context, member *models.TeamMember) error
	GetByID(ctx context.Context, id int) (*models.TeamMember, error)
	GetByEmail(ctx context.Context, email string) (*models.TeamMember, error)
	List(ctx context.Context) ([]*models.TeamMember, error)
}

// Store bundles the per-entity repositories handed to the services.
type Store struct {
	Leads   LeadRepository
	Clients ClientRepository
	Agents  AgentRepository
	Team    TeamRepository
}
