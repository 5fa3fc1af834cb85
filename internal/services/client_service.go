package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"visaflow/internal/metrics"
	"visaflow/internal/models"
	"visaflow/internal/repositories"
)

type CreateClientInput struct {
	Name           string     `json:"name"`
	PassportNo     string     `json:"passport_no"`
	TotalFee       *int64     `json:"total_fee"`
	AgentID        *int       `json:"agent_id"`
	Provider       string     `json:"provider"`
	Country        string     `json:"country"`
	Job            string     `json:"job"`
	SubmissionDate *time.Time `json:"submission_date"`
}

type ClientService struct {
	Repo    repositories.ClientRepository
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewClientService(repo repositories.ClientRepository, m *metrics.Metrics) *ClientService {
	return &ClientService{Repo: repo, Metrics: m, Now: time.Now}
}

func (s *ClientService) Create(ctx context.Context, in CreateClientInput) (*models.Client, error) {
	name := strings.TrimSpace(in.Name)
	passport := strings.TrimSpace(in.PassportNo)
	switch {
	case name == "":
		return nil, invalid("name", "is required")
	case passport == "":
		return nil, invalid("passport_no", "is required")
	case in.TotalFee == nil:
		return nil, invalid("total_fee", "is required")
	case *in.TotalFee < 0:
		return nil, invalid("total_fee", "must not be negative")
	}

	submitted := s.Now()
	if in.SubmissionDate != nil && !in.SubmissionDate.IsZero() {
		submitted = *in.SubmissionDate
	}
	client := &models.Client{
		SubmissionDate: truncateToDay(submitted),
		PassportNo:     passport,
		Name:           name,
		AgentID:        in.AgentID,
		Country:        strings.TrimSpace(in.Country),
		Job:            strings.TrimSpace(in.Job),
		Provider:       strings.TrimSpace(in.Provider),
		TotalFee:       *in.TotalFee,
		Statuses:       models.NewStatuses(),
		Payments:       []models.Payment{},
		Expenses:       []models.Expense{},
	}
	if err := s.Repo.Create(ctx, client); err != nil {
		return nil, err
	}
	s.Metrics.ClientCreated()
	log.Printf("[client][create] id=%d agent=%v fee=%d", client.ID, derefOr(client.AgentID, 0), client.TotalFee)
	return client, nil
}

func (s *ClientService) GetByID(ctx context.Context, id int) (*models.Client, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "client", id)
	}
	return c, nil
}

func (s *ClientService) List(ctx context.Context) ([]*models.Client, error) {
	return s.Repo.List(ctx)
}

// SetStatus changes one processing stage. Stages are independent of each other.
func (s *ClientService) SetStatus(ctx context.Context, id int, field, value string) error {
	f := models.StageField(field)
	if !f.Valid() {
		return fmt.Errorf("%q: %w", field, ErrInvalidField)
	}
	v := models.StageValue(value)
	if !v.Valid() {
		return fmt.Errorf("%q: %w", value, ErrInvalidValue)
	}
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return translate(err, "client", id)
	}
	if !canTransition(current.Statuses[f], v, StageTransitions) {
		return fmt.Errorf("client %d %s: %s -> %s: %w", id, f, current.Statuses[f], v, ErrInvalidState)
	}
	if err := s.Repo.UpdateStatus(ctx, id, f, v); err != nil {
		return translate(err, "client", id)
	}
	log.Printf("[client][status] id=%d field=%s value=%s", id, f, v)
	return nil
}

func (s *ClientService) AddPayment(ctx context.Context, id int, date time.Time, amount int64, method string) error {
	if err := validateLedgerEntry(date, amount); err != nil {
		return err
	}
	p := models.Payment{Date: truncateToDay(date), Amount: amount, Method: strings.TrimSpace(method)}
	if err := s.Repo.AppendPayment(ctx, id, p); err != nil {
		return translate(err, "client", id)
	}
	s.Metrics.LedgerEntry("payment", amount)
	log.Printf("[client][payment] id=%d amount=%d method=%q", id, amount, p.Method)
	return nil
}

func (s *ClientService) AddExpense(ctx context.Context, id int, date time.Time, amount int64, expenseType string) error {
	if err := validateLedgerEntry(date, amount); err != nil {
		return err
	}
	e := models.Expense{Date: truncateToDay(date), Amount: amount, Type: strings.TrimSpace(expenseType)}
	if err := s.Repo.AppendExpense(ctx, id, e); err != nil {
		return translate(err, "client", id)
	}
	s.Metrics.LedgerEntry("expense", amount)
	log.Printf("[client][expense] id=%d amount=%d type=%q", id, amount, e.Type)
	return nil
}

func validateLedgerEntry(date time.Time, amount int64) error {
	if date.IsZero() {
		return invalid("date", "is required")
	}
	if amount < 0 {
		return invalid("amount", "must not be negative")
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
