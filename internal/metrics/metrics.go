package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the business counters of the back-office.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LeadsCreated   prometheus.Counter
	LeadMoves      *prometheus.CounterVec
	ClientsCreated prometheus.Counter
	LedgerEntries  *prometheus.CounterVec
	LedgerAmount   *prometheus.CounterVec
	LoginsFailed   prometheus.Counter
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LeadsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "visaflow_leads_created_total",
			Help: "Total number of leads created",
		}),
		LeadMoves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visaflow_lead_moves_total",
			Help: "Lead status changes by target status",
		}, []string{"status"}),
		ClientsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "visaflow_clients_created_total",
			Help: "Total number of clients created",
		}),
		LedgerEntries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visaflow_ledger_entries_total",
			Help: "Ledger entries recorded by kind (payment, expense)",
		}, []string{"kind"}),
		LedgerAmount: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visaflow_ledger_amount_total",
			Help: "Sum of recorded ledger amounts by kind",
		}, []string{"kind"}),
		LoginsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "visaflow_logins_failed_total",
			Help: "Failed login attempts",
		}),
	}
}

func (m *Metrics) LeadCreated() {
	if m == nil {
		return
	}
	m.LeadsCreated.Inc()
}

func (m *Metrics) LeadMoved(status string) {
	if m == nil {
		return
	}
	m.LeadMoves.WithLabelValues(status).Inc()
}

func (m *Metrics) ClientCreated() {
	if m == nil {
		return
	}
	m.ClientsCreated.Inc()
}

// LedgerEntry counts one payment or expense of amount.
func (m *Metrics) LedgerEntry(kind string, amount int64) {
	if m == nil {
		return
	}
	m.LedgerEntries.WithLabelValues(kind).Inc()
	m.LedgerAmount.WithLabelValues(kind).Add(float64(amount))
}

func (m *Metrics) LoginFailed() {
	if m == nil {
		return
	}
	m.LoginsFailed.Inc()
}
