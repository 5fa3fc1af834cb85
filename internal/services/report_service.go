package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"visaflow/internal/authz"
	"visaflow/internal/models"
	"visaflow/internal/repositories"
)

// DashboardLimit caps the outstanding and top-agent lists on the dashboard.
const DashboardLimit = 5

type AgentRanking struct {
	Agent       models.Agent `json:"agent"`
	ClientCount int          `json:"client_count"`
}

type MemberPerformance struct {
	MemberID        int                       `json:"member_id"`
	Name            string                    `json:"name"`
	Role            authz.Role                `json:"role"`
	LeadCount       int                       `json:"lead_count"`
	StatusBreakdown map[models.LeadStatus]int `json:"status_breakdown"`
}

type OutstandingBalance struct {
	ClientID   int    `json:"client_id"`
	Name       string `json:"name"`
	AgentName  string `json:"agent_name"`
	TotalFee   int64  `json:"total_fee"`
	TotalPaid  int64  `json:"total_paid"`
	BalanceDue int64  `json:"balance_due"`
}

type TransactionType string

const (
	TransactionPayment TransactionType = "payment"
	TransactionExpense TransactionType = "expense"
)

// Transaction is one ledger line of the merged feed. Detail carries the
// payment method or the expense type.
type Transaction struct {
	Type       TransactionType `json:"type"`
	Date       time.Time       `json:"date"`
	Amount     int64           `json:"amount"`
	Detail     string          `json:"detail"`
	ClientID   int             `json:"client_id"`
	ClientName string          `json:"client_name"`
}

// TopAgents ranks agents by referred clients, descending. Ties keep the
// agent order. n < 0 returns every agent.
func TopAgents(agents []models.Agent, clients []*models.Client, n int) []AgentRanking {
	counts := make(map[int]int, len(agents))
	for _, c := range clients {
		if c.AgentID != nil {
			counts[*c.AgentID]++
		}
	}
	out := make([]AgentRanking, 0, len(agents))
	for _, a := range agents {
		out = append(out, AgentRanking{Agent: a, ClientCount: counts[a.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ClientCount > out[j].ClientCount
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TeamPerformance counts assigned leads per member. The breakdown only has
// statuses with at least one lead.
func TeamPerformance(team []models.TeamMember, leads []*models.Lead) []MemberPerformance {
	out := make([]MemberPerformance, 0, len(team))
	for _, m := range team {
		perf := MemberPerformance{
			MemberID:        m.ID,
			Name:            m.Name,
			Role:            m.Role,
			StatusBreakdown: map[models.LeadStatus]int{},
		}
		for _, l := range leads {
			if l.AssignedToID != nil && *l.AssignedToID == m.ID {
				perf.LeadCount++
				perf.StatusBreakdown[l.Status]++
			}
		}
		out = append(out, perf)
	}
	return out
}

// OutstandingBalances lists clients that still owe money, in client order,
// capped at n (n < 0 for all).
func OutstandingBalances(clients []*models.Client, dir *Directory, n int) []OutstandingBalance {
	out := []OutstandingBalance{}
	for _, c := range clients {
		if n >= 0 && len(out) == n {
			break
		}
		t := CalculateClientTotals(c)
		if t.BalanceDue <= 0 {
			continue
		}
		out = append(out, OutstandingBalance{
			ClientID:   c.ID,
			Name:       c.Name,
			AgentName:  dir.AgentName(c.AgentID),
			TotalFee:   c.TotalFee,
			TotalPaid:  t.TotalPaid,
			BalanceDue: t.BalanceDue,
		})
	}
	return out
}

// Transactions merges every payment and expense, newest first. An empty
// filter keeps both types.
func Transactions(clients []*models.Client, filter TransactionType) []Transaction {
	out := []Transaction{}
	for _, c := range clients {
		if filter == "" || filter == TransactionPayment {
			for _, p := range c.Payments {
				out = append(out, Transaction{Type: TransactionPayment, Date: p.Date, Amount: p.Amount, Detail: p.Method, ClientID: c.ID, ClientName: c.Name})
			}
		}
		if filter == "" || filter == TransactionExpense {
			for _, e := range c.Expenses {
				out = append(out, Transaction{Type: TransactionExpense, Date: e.Date, Amount: e.Amount, Detail: e.Type, ClientID: c.ID, ClientName: c.Name})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

type ReportService struct {
	Leads     repositories.LeadRepository
	Clients   repositories.ClientRepository
	Directory *DirectoryService
}

func NewReportService(leads repositories.LeadRepository, clients repositories.ClientRepository, dir *DirectoryService) *ReportService {
	return &ReportService{Leads: leads, Clients: clients, Directory: dir}
}

func (s *ReportService) Outstanding(ctx context.Context, n int) ([]OutstandingBalance, error) {
	clients, err := s.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := s.Directory.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return OutstandingBalances(clients, dir, n), nil
}

func (s *ReportService) TopAgents(ctx context.Context, n int) ([]AgentRanking, error) {
	clients, err := s.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := s.Directory.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return TopAgents(dir.Agents(), clients, n), nil
}

// AgentReferrals is the untruncated ranking shown on the agent list.
func (s *ReportService) AgentReferrals(ctx context.Context) ([]AgentRanking, error) {
	return s.TopAgents(ctx, -1)
}

func (s *ReportService) TeamPerformance(ctx context.Context) ([]MemberPerformance, error) {
	leads, err := s.Leads.List(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := s.Directory.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return TeamPerformance(dir.Team(), leads), nil
}

func (s *ReportService) Transactions(ctx context.Context, filter TransactionType) ([]Transaction, error) {
	switch filter {
	case "", TransactionPayment, TransactionExpense:
	default:
		return nil, invalid("type", fmt.Sprintf("must be %s or %s", TransactionPayment, TransactionExpense))
	}
	clients, err := s.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	return Transactions(clients, filter), nil
}

// Dashboard assembles the landing page for a caller holding caps.
func (s *ReportService) Dashboard(ctx context.Context, caps authz.Capabilities) (*DashboardView, error) {
	leads, err := s.Leads.List(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := s.Directory.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return NewDashboardView(leads, clients, dir, caps), nil
}
