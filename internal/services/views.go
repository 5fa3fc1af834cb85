package services

import (
	"time"

	"visaflow/internal/authz"
	"visaflow/internal/models"
)

// ClientView is a client as returned over HTTP. Financial fields are nil,
// and therefore absent from JSON, unless the caller may see financials.
type ClientView struct {
	ID             int               `json:"id"`
	SubmissionDate time.Time         `json:"submission_date"`
	PassportNo     string            `json:"passport_no"`
	Name           string            `json:"name"`
	AgentID        *int              `json:"agent_id"`
	AgentName      string            `json:"agent_name"`
	Country        string            `json:"country"`
	Job            string            `json:"job"`
	Provider       string            `json:"provider"`
	TotalFee       int64             `json:"total_fee"`
	Statuses       models.Statuses   `json:"statuses"`
	Payments       []models.Payment  `json:"payments"`
	Expenses       *[]models.Expense `json:"expenses,omitempty"`
	TotalPaid      int64             `json:"total_paid"`
	BalanceDue     int64             `json:"balance_due"`
	TotalExpenses  *int64            `json:"total_expenses,omitempty"`
	NetProfit      *int64            `json:"net_profit,omitempty"`
}

func NewClientView(c *models.Client, dir *Directory, caps authz.Capabilities) ClientView {
	t := CalculateClientTotals(c)
	v := ClientView{
		ID:             c.ID,
		SubmissionDate: c.SubmissionDate,
		PassportNo:     c.PassportNo,
		Name:           c.Name,
		AgentID:        c.AgentID,
		AgentName:      dir.AgentName(c.AgentID),
		Country:        c.Country,
		Job:            c.Job,
		Provider:       c.Provider,
		TotalFee:       c.TotalFee,
		Statuses:       c.Statuses,
		Payments:       c.Payments,
		TotalPaid:      t.TotalPaid,
		BalanceDue:     t.BalanceDue,
	}
	if v.Payments == nil {
		v.Payments = []models.Payment{}
	}
	if caps.CanSeeFinancials {
		expenses := c.Expenses
		if expenses == nil {
			expenses = []models.Expense{}
		}
		v.Expenses = &expenses
		v.TotalExpenses = &t.TotalExpenses
		v.NetProfit = &t.NetProfit
	}
	return v
}

func NewClientViews(clients []*models.Client, dir *Directory, caps authz.Capabilities) []ClientView {
	out := make([]ClientView, 0, len(clients))
	for _, c := range clients {
		out = append(out, NewClientView(c, dir, caps))
	}
	return out
}

type DashboardCounts struct {
	Leads   *int `json:"leads,omitempty"`
	Clients *int `json:"clients,omitempty"`
	Agents  *int `json:"agents,omitempty"`
}

type DashboardTotals struct {
	TotalPaid     int64  `json:"total_paid"`
	TotalExpenses *int64 `json:"total_expenses,omitempty"`
	NetProfit     *int64 `json:"net_profit,omitempty"`
}

type DashboardView struct {
	Counts      DashboardCounts      `json:"counts"`
	Totals      DashboardTotals      `json:"totals"`
	Outstanding []OutstandingBalance `json:"outstanding,omitempty"`
	TopAgents   []AgentRanking       `json:"top_agents,omitempty"`
}

func NewDashboardView(leads []*models.Lead, clients []*models.Client, dir *Directory, caps authz.Capabilities) *DashboardView {
	v := &DashboardView{}
	if caps.CanSeeLeads {
		n := len(leads)
		v.Counts.Leads = &n
	}
	if caps.CanSeeClients {
		n := len(clients)
		v.Counts.Clients = &n
		v.Outstanding = OutstandingBalances(clients, dir, DashboardLimit)
	}
	if caps.CanSeeAgents {
		n := len(dir.Agents())
		v.Counts.Agents = &n
		v.TopAgents = TopAgents(dir.Agents(), clients, DashboardLimit)
	}

	totals := CalculatePortfolioTotals(clients)
	v.Totals.TotalPaid = totals.TotalPaid
	if caps.CanSeeFinancials {
		v.Totals.TotalExpenses = &totals.TotalExpenses
		v.Totals.NetProfit = &totals.NetProfit
	}
	return v
}
