package repositories

import (
	"context"
	"strings"
	"sync"

	"visaflow/internal/models"
)

// NewMemoryStore returns empty in-memory repositories. Every read hands
// out deep copies, every write happens under the collection lock.
func NewMemoryStore() *Store {
	return &Store{
		Leads:   NewMemoryLeadRepository(),
		Clients: NewMemoryClientRepository(),
		Agents:  NewMemoryAgentRepository(),
		Team:    NewMemoryTeamRepository(),
	}
}

// --- leads

type memoryLeadRepository struct {
	mu     sync.RWMutex
	nextID int
	order  []int
	leads  map[int]*models.Lead
}

func NewMemoryLeadRepository() LeadRepository {
	return &memoryLeadRepository{nextID: 1, leads: make(map[int]*models.Lead)}
}

func (r *memoryLeadRepository) Create(_ context.Context, lead *models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead.ID = r.nextID
	r.nextID++
	r.leads[lead.ID] = lead.Clone()
	r.order = append(r.order, lead.ID)
	return nil
}

func (r *memoryLeadRepository) GetByID(_ context.Context, id int) (*models.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.leads[id]
	if !ok {
		return nil, ErrNotFound
	}
	return l.Clone(), nil
}

func (r *memoryLeadRepository) List(_ context.Context) ([]*models.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Lead, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.leads[id].Clone())
	}
	return out, nil
}

func (r *memoryLeadRepository) update(id int, fn func(l *models.Lead) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return ErrNotFound
	}
	return fn(l)
}

func (r *memoryLeadRepository) UpdateStatus(_ context.Context, id int, status models.LeadStatus) error {
	return r.update(id, func(l *models.Lead) error {
		l.Status = status
		return nil
	})
}

func (r *memoryLeadRepository) UpdateAssignee(_ context.Context, id int, assigneeID *int) error {
	return r.update(id, func(l *models.Lead) error {
		if assigneeID == nil {
			l.AssignedToID = nil
			return nil
		}
		v := *assigneeID
		l.AssignedToID = &v
		return nil
	})
}

func (r *memoryLeadRepository) PrependFollowUp(_ context.Context, id int, followUp models.FollowUp) error {
	return r.update(id, func(l *models.Lead) error {
		l.FollowUps = append([]models.FollowUp{followUp}, l.FollowUps...)
		return nil
	})
}

func (r *memoryLeadRepository) MarkConverted(_ context.Context, id, clientID int) error {
	return r.update(id, func(l *models.Lead) error {
		if l.ClientID != nil {
			return ErrConflict
		}
		l.ClientID = &clientID
		return nil
	})
}

// --- clients

type memoryClientRepository struct {
	mu      sync.RWMutex
	nextID  int
	order   []int
	clients map[int]*models.Client
}

func NewMemoryClientRepository() ClientRepository {
	return &memoryClientRepository{nextID: 1, clients: make(map[int]*models.Client)}
}

func (r *memoryClientRepository) Create(_ context.Context, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	client.ID = r.nextID
	r.nextID++
	stored := client.Clone()
	stored.Statuses = client.Statuses.Normalize()
	r.clients[client.ID] = stored
	r.order = append(r.order, client.ID)
	return nil
}

func (r *memoryClientRepository) GetByID(_ context.Context, id int) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

func (r *memoryClientRepository) List(_ context.Context) ([]*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Client, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.clients[id].Clone())
	}
	return out, nil
}

func (r *memoryClientRepository) update(id int, fn func(c *models.Client)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return ErrNotFound
	}
	fn(c)
	return nil
}

func (r *memoryClientRepository) UpdateStatus(_ context.Context, id int, field models.StageField, value models.StageValue) error {
	return r.update(id, func(c *models.Client) { c.Statuses[field] = value })
}

func (r *memoryClientRepository) AppendPayment(_ context.Context, id int, payment models.Payment) error {
	return r.update(id, func(c *models.Client) { c.Payments = append(c.Payments, payment) })
}

func (r *memoryClientRepository) AppendExpense(_ context.Context, id int, expense models.Expense) error {
	return r.update(id, func(c *models.Client) { c.Expenses = append(c.Expenses, expense) })
}

// --- agents

type memoryAgentRepository struct {
	mu     sync.RWMutex
	agents []models.Agent
}

func NewMemoryAgentRepository() AgentRepository {
	return &memoryAgentRepository{}
}

func (r *memoryAgentRepository) Create(_ context.Context, agent *models.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent.ID = len(r.agents) + 1
	r.agents = append(r.agents, *agent)
	return nil
}

func (r *memoryAgentRepository) GetByID(_ context.Context, id int) (*models.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.agents {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryAgentRepository) List(_ context.Context) ([]*models.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Agent, 0, len(r.agents))
	for i := range r.agents {
		a := r.agents[i]
		out = append(out, &a)
	}
	return out, nil
}

// --- team

type memoryTeamRepository struct {
	mu      sync.RWMutex
	members []models.TeamMember
}

func NewMemoryTeamRepository() TeamRepository {
	return &memoryTeamRepository{}
}

func (r *memoryTeamRepository) Create(_ context.Context, member *models.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if strings.EqualFold(m.Email, member.Email) {
			return ErrConflict
		}
	}
	member.ID = len(r.members) + 1
	r.members = append(r.members, *member)
	return nil
}

func (r *memoryTeamRepository) GetByID(_ context.Context, id int) (*models.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryTeamRepository) GetByEmail(_ context.Context, email string) (*models.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if strings.EqualFold(m.Email, strings.TrimSpace(email)) {
			m := m
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryTeamRepository) List(_ context.Context) ([]*models.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.TeamMember, 0, len(r.members))
	for i := range r.members {
		m := r.members[i]
		out = append(out, &m)
	}
	return out, nil
}
