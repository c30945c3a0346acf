package tally

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/tallyhq/tally/model"
)

// Metrics counts ledger activity. A Metrics built without a registerer
// records nothing.
type Metrics struct {
	entries     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	settlements *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	entries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_entries_created_total",
		Help: "Ledger entries recorded, by kind.",
	}, []string{"kind"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_entry_transitions_total",
		Help: "Ledger entry status changes, by target status.",
	}, []string{"status"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_settlement_attempts_total",
		Help: "Profile approval status changes, by outcome.",
	}, []string{"outcome"})

	return &Metrics{
		entries:     register(reg, entries),
		transitions: register(reg, transitions),
		settlements: register(reg, settlements),
	}
}

// register reuses an already registered collector so several services can
// share the default registry.
func register(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing
		}
	}
	logrus.WithError(err).Warn("failed to register metric")
	return c
}

func (m *Metrics) EntryCreated(e model.LedgerEntry) {
	if m == nil || m.entries == nil {
		return
	}
	kind := "shared"
	if e.IsSelfNote() {
		kind = "self_note"
	}
	m.entries.WithLabelValues(kind).Inc()
}

func (m *Metrics) Transitioned(to model.LedgerStatus, n int) {
	if m == nil || m.transitions == nil || n <= 0 {
		return
	}
	m.transitions.WithLabelValues(string(to)).Add(float64(n))
}

// Settlement records an approval status attempt. Outcome is one of
// settled, cleared, refused or reopened.
func (m *Metrics) Settlement(outcome string) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.WithLabelValues(outcome).Inc()
}
