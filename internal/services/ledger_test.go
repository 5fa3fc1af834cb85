package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"visaflow/internal/models"
)

func clientWith(fee int64, payments []int64, expenses []int64) *models.Client {
	c := &models.Client{TotalFee: fee, Statuses: models.NewStatuses()}
	for _, p := range payments {
		c.Payments = append(c.Payments, models.Payment{Amount: p})
	}
	for _, e := range expenses {
		c.Expenses = append(c.Expenses, models.Expense{Amount: e})
	}
	return c
}

func TestCalculateClientTotals(t *testing.T) {
	tests := []struct {
		name     string
		client   *models.Client
		expected ClientTotals
	}{
		{
			name:     "empty ledgers",
			client:   clientWith(1000, nil, nil),
			expected: ClientTotals{BalanceDue: 1000},
		},
		{
			name:   "reference client",
			client: clientWith(500000, []int64{200000, 150000}, []int64{5500, 2100, 250000}),
			expected: ClientTotals{
				TotalPaid: 350000, TotalExpenses: 257600, NetProfit: 92400, BalanceDue: 150000,
			},
		},
		{
			name:     "overpaid client has negative balance",
			client:   clientWith(100, []int64{150}, nil),
			expected: ClientTotals{TotalPaid: 150, NetProfit: 150, BalanceDue: -50},
		},
		{
			name:     "loss-making client has negative profit",
			client:   clientWith(100, []int64{50}, []int64{80}),
			expected: ClientTotals{TotalPaid: 50, TotalExpenses: 80, NetProfit: -30, BalanceDue: 50},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateClientTotals(tt.client)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, CalculateClientTotals(tt.client), "must be idempotent")
		})
	}
}

func TestCalculatePortfolioTotals(t *testing.T) {
	clients := []*models.Client{
		clientWith(500000, []int64{200000, 150000}, []int64{5500, 2100, 250000}),
		clientWith(450000, []int64{450000}, []int64{380000}),
		clientWith(480000, []int64{100000}, []int64{6000}),
	}
	got := CalculatePortfolioTotals(clients)
	assert.Equal(t, PortfolioTotals{TotalPaid: 900000, TotalExpenses: 643600, NetProfit: 256400}, got)

	clients[2].Payments = append(clients[2].Payments, models.Payment{Amount: 1})
	assert.Equal(t, int64(900001), CalculatePortfolioTotals(clients).TotalPaid, "recomputed from current state")

	assert.Equal(t, PortfolioTotals{}, CalculatePortfolioTotals(nil))
}

func TestTransitionTablesArePermissive(t *testing.T) {
	for _, from := range models.LeadStatuses {
		for _, to := range models.LeadStatuses {
			assert.True(t, canTransition(from, to, LeadTransitions), "%s -> %s", from, to)
		}
	}
	assert.True(t, canTransition("", models.LeadStatusLost, LeadTransitions))
	assert.False(t, canTransition(models.LeadStatus("Archived"), models.LeadStatusNew, LeadTransitions))
	assert.True(t, canTransition(models.StageDone, models.StagePending, StageTransitions))
}
