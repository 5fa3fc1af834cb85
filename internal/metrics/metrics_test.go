package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.LeadCreated()
	m.LeadCreated()
	m.LeadMoved("Lost")
	m.LedgerEntry("payment", 150)
	m.LedgerEntry("payment", 50)
	m.LedgerEntry("expense", 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LeadsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LeadMoves.WithLabelValues("Lost")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerEntries.WithLabelValues("payment")))
	assert.Equal(t, 200.0, testutil.ToFloat64(m.LedgerAmount.WithLabelValues("payment")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.LedgerAmount.WithLabelValues("expense")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.LeadCreated()
		m.LeadMoved("New")
		m.ClientCreated()
		m.LedgerEntry("payment", 1)
		m.LoginFailed()
	})
}
