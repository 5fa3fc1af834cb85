package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"sync"
	"time"

	"visaflow/internal/metrics"
	"visaflow/internal/models"
	"visaflow/internal/repositories"
)

const leadCreatedNote = "Lead created."

type CreateLeadInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Source       string `json:"source"`
	AssignedToID *int   `json:"assigned_to_id"`
	Notes        string `json:"notes"`
}

// BoardColumn is one status column of the lead board.
type BoardColumn struct {
	Status models.LeadStatus `json:"status"`
	Leads  []*models.Lead    `json:"leads"`
}

type LeadService struct {
	Repo     repositories.LeadRepository
	Team     repositories.TeamRepository
	Clients  *ClientService
	Notifier Notifier
	Metrics  *metrics.Metrics
	Now      func() time.Time

	// convertLocks holds one *sync.Mutex per lead id.
	convertLocks sync.Map
}

func NewLeadService(repo repositories.LeadRepository, team repositories.TeamRepository, clients *ClientService, notifier Notifier, m *metrics.Metrics) *LeadService {
	if notifier == nil {
		notifier = NoopNotifier()
	}
	return &LeadService{Repo: repo, Team: team, Clients: clients, Notifier: notifier, Metrics: m, Now: time.Now}
}

func (s *LeadService) Create(ctx context.Context, in CreateLeadInput) (*models.Lead, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if phone == "" {
		return nil, invalid("phone", "is required")
	}

	now := s.Now()
	lead := &models.Lead{
		Name:         name,
		Phone:        phone,
		Source:       strings.TrimSpace(in.Source),
		Status:       models.LeadStatusNew,
		AssignedToID: in.AssignedToID,
		Notes:        in.Notes,
		FollowUps:    []models.FollowUp{{Date: now, Note: leadCreatedNote}},
		CreatedAt:    now,
	}
	if err := s.Repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	s.Metrics.LeadCreated()
	log.Printf("[lead][create] id=%d source=%q assigned_to=%v", lead.ID, lead.Source, derefOr(lead.AssignedToID, 0))

	s.notify(ctx, fmt.Sprintf("New lead #%d <b>%s</b> (%s), assigned to %s",
		lead.ID, html.EscapeString(lead.Name), html.EscapeString(lead.Source), html.EscapeString(s.memberName(ctx, lead.AssignedToID))))
	return lead, nil
}

func (s *LeadService) GetByID(ctx context.Context, id int) (*models.Lead, error) {
	lead, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "lead", id)
	}
	return lead, nil
}

func (s *LeadService) List(ctx context.Context) ([]*models.Lead, error) {
	return s.Repo.List(ctx)
}

// Board groups the leads into the fixed status columns.
func (s *LeadService) Board(ctx context.Context) ([]BoardColumn, error) {
	leads, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	cols := make([]BoardColumn, len(models.LeadStatuses))
	index := make(map[models.LeadStatus]int, len(models.LeadStatuses))
	for i, st := range models.LeadStatuses {
		cols[i] = BoardColumn{Status: st, Leads: []*models.Lead{}}
		index[st] = i
	}
	for _, l := range leads {
		if i, ok := index[l.Status]; ok {
			cols[i].Leads = append(cols[i].Leads, l)
		}
	}
	return cols, nil
}

// Move sets the lead status. Any status may follow any other.
func (s *LeadService) Move(ctx context.Context, id int, to models.LeadStatus) error {
	if !to.Valid() {
		return fmt.Errorf("lead status %q: %w", to, ErrInvalidValue)
	}
	lead, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return translate(err, "lead", id)
	}
	if !canTransition(lead.Status, to, LeadTransitions) {
		return fmt.Errorf("lead %d: %s -> %s: %w", id, lead.Status, to, ErrInvalidState)
	}
	if err := s.Repo.UpdateStatus(ctx, id, to); err != nil {
		return translate(err, "lead", id)
	}
	s.Metrics.LeadMoved(string(to))
	log.Printf("[lead][move] id=%d from=%q to=%q", id, lead.Status, to)
	return nil
}

// AddFollowUp prepends note as given. A blank note is silently ignored.
func (s *LeadService) AddFollowUp(ctx context.Context, id int, note string) error {
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		return translate(err, "lead", id)
	}
	if strings.TrimSpace(note) == "" {
		return nil
	}
	if err := s.Repo.PrependFollowUp(ctx, id, models.FollowUp{Date: s.Now(), Note: note}); err != nil {
		return translate(err, "lead", id)
	}
	log.Printf("[lead][follow-up] id=%d len=%d", id, len(note))
	return nil
}

// Assign sets or clears (nil) the responsible team member.
func (s *LeadService) Assign(ctx context.Context, id int, memberID *int) error {
	if err := s.Repo.UpdateAssignee(ctx, id, memberID); err != nil {
		return translate(err, "lead", id)
	}
	log.Printf("[lead][assign] id=%d assigned_to=%v", id, derefOr(memberID, 0))
	if memberID != nil {
		s.notify(ctx, fmt.Sprintf("Lead #%d assigned to %s", id, html.EscapeString(s.memberName(ctx, memberID))))
	}
	return nil
}

// ConvertToClient creates a client from in for a Qualified lead. Nothing is
// copied from the lead itself; the lead keeps its status and records the
// client id.
func (s *LeadService) ConvertToClient(ctx context.Context, id int, in CreateClientInput) (*models.Client, error) {
	if s.Clients == nil {
		return nil, fmt.Errorf("client service not configured")
	}
	mu, _ := s.convertLocks.LoadOrStore(id, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	lead, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "lead", id)
	}
	if lead.Status != models.LeadStatusQualified {
		return nil, fmt.Errorf("lead %d is %s, only Qualified leads convert: %w", id, lead.Status, ErrInvalidState)
	}
	if lead.ClientID != nil {
		return nil, fmt.Errorf("lead %d already converted to client %d: %w", id, *lead.ClientID, ErrConflict)
	}

	client, err := s.Clients.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.MarkConverted(ctx, id, client.ID); err != nil {
		log.Printf("[lead][convert] mark lead=%d client=%d failed: %v", id, client.ID, err)
		return nil, translate(err, "lead", id)
	}
	note := fmt.Sprintf("Converted to client #%d.", client.ID)
	if err := s.Repo.PrependFollowUp(ctx, id, models.FollowUp{Date: s.Now(), Note: note}); err != nil {
		log.Printf("[lead][convert] follow-up for lead=%d failed: %v", id, err)
	}
	log.Printf("[lead][convert] lead=%d client=%d", id, client.ID)
	return client, nil
}

func (s *LeadService) memberName(ctx context.Context, id *int) string {
	if id == nil || s.Team == nil {
		return DefaultMemberName
	}
	m, err := s.Team.GetByID(ctx, *id)
	if err != nil {
		return DefaultMemberName
	}
	return m.Name
}

func (s *LeadService) notify(ctx context.Context, text string) {
	if err := s.Notifier.Notify(ctx, text); err != nil {
		log.Printf("[lead][notify] warning: %v", err)
	}
}

func derefOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
