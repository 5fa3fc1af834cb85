package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visaflow/internal/authz"
	"visaflow/internal/models"
	"visaflow/internal/repositories"
)

func intp(v int) *int { return &v }

func TestTopAgentsStableDescending(t *testing.T) {
	agents := []models.Agent{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}}
	var clients []*models.Client
	for _, id := range []int{1, 1, 1, 2, 2, 2, 3} {
		clients = append(clients, &models.Client{AgentID: intp(id)})
	}
	clients = append(clients, &models.Client{})

	got := TopAgents(agents, clients, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Agent.Name)
	assert.Equal(t, 3, got[0].ClientCount)
	assert.Equal(t, "B", got[1].Agent.Name)
	assert.Equal(t, "C", got[2].Agent.Name)
	assert.Equal(t, 1, got[2].ClientCount)

	all := TopAgents(agents, clients, -1)
	require.Len(t, all, 4)
	assert.Equal(t, "D", all[3].Agent.Name)
	assert.Zero(t, all[3].ClientCount)

	assert.Len(t, TopAgents(agents, clients, 0), 0)
	assert.Len(t, TopAgents(agents[:2], clients, 5), 2)
}

func TestTeamPerformance(t *testing.T) {
	team := []models.TeamMember{{ID: 1, Name: "Admin", Role: authz.RoleAdministrator}, {ID: 2, Name: "Sales", Role: authz.RoleSales}}
	leads := []*models.Lead{
		{AssignedToID: intp(2), Status: models.LeadStatusNew},
		{AssignedToID: intp(2), Status: models.LeadStatusNew},
		{AssignedToID: intp(2), Status: models.LeadStatusLost},
		{Status: models.LeadStatusContacted},
	}

	got := TeamPerformance(team, leads)
	require.Len(t, got, 2)
	assert.Zero(t, got[0].LeadCount)
	assert.Empty(t, got[0].StatusBreakdown)
	assert.Equal(t, 3, got[1].LeadCount)
	assert.Equal(t, map[models.LeadStatus]int{models.LeadStatusNew: 2, models.LeadStatusLost: 1}, got[1].StatusBreakdown)
}

func TestOutstandingBalances(t *testing.T) {
	dir := NewDirectory([]models.Agent{{ID: 7, Name: "Rafiq"}}, nil)
	clients := []*models.Client{
		{ID: 1, Name: "Paid up", TotalFee: 100, Payments: []models.Payment{{Amount: 100}}},
		{ID: 2, Name: "Owes", TotalFee: 300, AgentID: intp(7), Payments: []models.Payment{{Amount: 100}}},
		{ID: 3, Name: "Overpaid", TotalFee: 100, Payments: []models.Payment{{Amount: 150}}},
		{ID: 4, Name: "Direct", TotalFee: 50},
	}

	got := OutstandingBalances(clients, dir, 5)
	require.Len(t, got, 2)
	assert.Equal(t, OutstandingBalance{ClientID: 2, Name: "Owes", AgentName: "Rafiq", TotalFee: 300, TotalPaid: 100, BalanceDue: 200}, got[0])
	assert.Equal(t, DefaultAgentName, got[1].AgentName)

	assert.Len(t, OutstandingBalances(clients, dir, 1), 1)
}

func TestTransactionsNewestFirst(t *testing.T) {
	d := func(s string) time.Time {
		v, err := time.Parse(time.DateOnly, s)
		require.NoError(t, err)
		return v
	}
	clients := []*models.Client{
		{ID: 1, Name: "One",
			Payments: []models.Payment{{Date: d("2024-01-10"), Amount: 10, Method: "Cash"}},
			Expenses: []models.Expense{{Date: d("2024-02-01"), Amount: 3, Type: "Visa"}}},
		{ID: 2, Name: "Two",
			Payments: []models.Payment{{Date: d("2024-01-10"), Amount: 20, Method: "Bank"}}},
	}

	all := Transactions(clients, "")
	require.Len(t, all, 3)
	assert.Equal(t, TransactionExpense, all[0].Type)
	assert.Equal(t, "Visa", all[0].Detail)
	// same date keeps client order
	assert.Equal(t, 1, all[1].ClientID)
	assert.Equal(t, 2, all[2].ClientID)
	assert.Equal(t, "Two", all[2].ClientName)

	payments := Transactions(clients, TransactionPayment)
	require.Len(t, payments, 2)
	for _, tx := range payments {
		assert.Equal(t, TransactionPayment, tx.Type)
	}
	assert.Len(t, Transactions(clients, TransactionExpense), 1)
}

func seededReports(t *testing.T) *ReportService {
	t.Helper()
	store := repositories.NewMemoryStore()
	require.NoError(t, repositories.Seed(context.Background(), store, func(p string) (string, error) { return "hash:" + p, nil }))
	return NewReportService(store.Leads, store.Clients, NewDirectoryService(store.Agents, store.Team))
}

func TestDashboardAdministrator(t *testing.T) {
	svc := seededReports(t)
	v, err := svc.Dashboard(context.Background(), authz.CapabilitiesFor(authz.RoleAdministrator))
	require.NoError(t, err)

	require.NotNil(t, v.Counts.Leads)
	assert.Equal(t, 6, *v.Counts.Leads)
	assert.Equal(t, 3, *v.Counts.Clients)
	assert.Equal(t, 4, *v.Counts.Agents)
	require.NotNil(t, v.Totals.TotalExpenses)
	require.NotNil(t, v.Totals.NetProfit)
	assert.Equal(t, v.Totals.TotalPaid-*v.Totals.TotalExpenses, *v.Totals.NetProfit)
	assert.LessOrEqual(t, len(v.TopAgents), DashboardLimit)
	assert.LessOrEqual(t, len(v.Outstanding), DashboardLimit)
}

func TestDashboardSalesHasNoFinancials(t *testing.T) {
	svc := seededReports(t)
	v, err := svc.Dashboard(context.Background(), authz.CapabilitiesFor(authz.RoleSales))
	require.NoError(t, err)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "total_expenses")
	assert.NotContains(t, string(raw), "net_profit")
	assert.Contains(t, string(raw), "total_paid")
}

func TestDashboardWithoutCapabilities(t *testing.T) {
	svc := seededReports(t)
	v, err := svc.Dashboard(context.Background(), authz.Capabilities{})
	require.NoError(t, err)
	assert.Nil(t, v.Counts.Leads)
	assert.Nil(t, v.Counts.Clients)
	assert.Nil(t, v.Counts.Agents)
	assert.Empty(t, v.TopAgents)
}

func TestReportTransactionsRejectsUnknownFilter(t *testing.T) {
	svc := seededReports(t)
	_, err := svc.Transactions(context.Background(), TransactionType("refund"))
	assert.ErrorIs(t, err, ErrValidation)

	all, err := svc.Transactions(context.Background(), "")
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Date.After(all[i-1].Date))
	}
}

func TestClientViewFiltersFinancials(t *testing.T) {
	c := clientWith(500000, []int64{200000, 150000}, []int64{5500, 2100, 250000})
	c.AgentID = intp(1)
	dir := NewDirectory([]models.Agent{{ID: 1, Name: "Rafiq"}}, nil)

	admin := NewClientView(c, dir, authz.CapabilitiesFor(authz.RoleAdministrator))
	require.NotNil(t, admin.NetProfit)
	assert.Equal(t, int64(92400), *admin.NetProfit)
	assert.Equal(t, int64(257600), *admin.TotalExpenses)
	assert.Equal(t, int64(150000), admin.BalanceDue)
	assert.Equal(t, "Rafiq", admin.AgentName)
	require.NotNil(t, admin.Expenses)
	assert.Len(t, *admin.Expenses, 3)

	sales := NewClientView(c, dir, authz.CapabilitiesFor(authz.RoleSales))
	raw, err := json.Marshal(sales)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "expenses")
	assert.NotContains(t, fields, "total_expenses")
	assert.NotContains(t, fields, "net_profit")
	assert.Equal(t, float64(350000), fields["total_paid"])
}

func TestClientViewEmptyLedgersAreArrays(t *testing.T) {
	c := &models.Client{ID: 1, Statuses: models.NewStatuses()}
	raw, err := json.Marshal(NewClientView(c, NewDirectory(nil, nil), authz.CapabilitiesFor(authz.RoleAdministrator)))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"payments":[]`)
	assert.Contains(t, string(raw), `"expenses":[]`)
	assert.Contains(t, string(raw), `"agent_name":"Direct Client"`)
}
