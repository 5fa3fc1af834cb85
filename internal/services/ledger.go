package services

import "visaflow/internal/models"

// ClientTotals are the derived ledger figures of one client. NetProfit and
// BalanceDue are not clamped and go negative on losses or overpayment.
type ClientTotals struct {
	TotalPaid     int64 `json:"total_paid"`
	TotalExpenses int64 `json:"total_expenses"`
	NetProfit     int64 `json:"net_profit"`
	BalanceDue    int64 `json:"balance_due"`
}

type PortfolioTotals struct {
	TotalPaid     int64 `json:"total_paid"`
	TotalExpenses int64 `json:"total_expenses"`
	NetProfit     int64 `json:"net_profit"`
}

func sumPayments(payments []models.Payment) int64 {
	var total int64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

func sumExpenses(expenses []models.Expense) int64 {
	var total int64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

func CalculateClientTotals(c *models.Client) ClientTotals {
	paid := sumPayments(c.Payments)
	spent := sumExpenses(c.Expenses)
	return ClientTotals{
		TotalPaid:     paid,
		TotalExpenses: spent,
		NetProfit:     paid - spent,
		BalanceDue:    c.TotalFee - paid,
	}
}

// CalculatePortfolioTotals sums CalculateClientTotals over clients.
func CalculatePortfolioTotals(clients []*models.Client) PortfolioTotals {
	var out PortfolioTotals
	for _, c := range clients {
		t := CalculateClientTotals(c)
		out.TotalPaid += t.TotalPaid
		out.TotalExpenses += t.TotalExpenses
	}
	out.NetProfit = out.TotalPaid - out.TotalExpenses
	return out
}
