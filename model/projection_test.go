package model

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func entry(t TransactionType, s LedgerStatus, amount int64) LedgerEntry {
	return LedgerEntry{TransactionType: t, Status: s, Amount: amount, Currency: "USD"}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		entries []LedgerEntry
		want    BalanceSummary
	}{
		{
			name: "empty",
			want: BalanceSummary{},
		},
		{
			name: "pending excluded",
			entries: []LedgerEntry{
				entry(Debit, StatusApproved, 500),
				entry(Credit, StatusApproved, 200),
				entry(Debit, StatusPending, 100),
			},
			want: BalanceSummary{TotalLent: 500, TotalRepaid: 200, RemainingDue: 300},
		},
		{
			name: "rejected and archived excluded",
			entries: []LedgerEntry{
				entry(Debit, StatusRejected, 900),
				entry(Debit, StatusArchived, 400),
				entry(Credit, StatusArchived, 400),
				entry(Debit, StatusApproved, 50),
			},
			want: BalanceSummary{TotalLent: 50, RemainingDue: 50},
		},
		{
			name: "overpaid",
			entries: []LedgerEntry{
				entry(Debit, StatusApproved, 100),
				entry(Credit, StatusApproved, 250),
			},
			want: BalanceSummary{TotalLent: 100, TotalRepaid: 250, TotalOwed: 150, RemainingDue: -150},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.entries))
		})
	}
}

func TestSummarizeRemainingDueProperty(t *testing.T) {
	statuses := []LedgerStatus{StatusPending, StatusApproved, StatusRejected, StatusArchived}
	types := []TransactionType{Debit, Credit}

	for i := 0; i < 50; i++ {
		var entries []LedgerEntry
		var lent, repaid int64
		n := gofakeit.Number(0, 20)
		for j := 0; j < n; j++ {
			e := entry(types[gofakeit.Number(0, 1)], statuses[gofakeit.Number(0, 3)], int64(gofakeit.Number(1, 100000)))
			if e.Status == StatusApproved {
				if e.TransactionType == Debit {
					lent += e.Amount
				} else {
					repaid += e.Amount
				}
			}
			entries = append(entries, e)
		}

		s := Summarize(entries)
		assert.Equal(t, lent, s.TotalLent)
		assert.Equal(t, repaid, s.TotalRepaid)
		assert.Equal(t, s.TotalLent-s.TotalRepaid, s.RemainingDue)
		assert.GreaterOrEqual(t, s.TotalOwed, int64(0))
	}
}

func TestArchiveLeavesHistoryTotals(t *testing.T) {
	entries := []LedgerEntry{
		entry(Debit, StatusApproved, 500),
		entry(Credit, StatusApproved, 200),
	}
	before := HistoryTotals(entries)
	live := Summarize(entries)

	archived, err := Archive(entries[0])
	assert.NoError(t, err)
	entries[0] = archived

	assert.Equal(t, before, HistoryTotals(entries))
	assert.Equal(t, live.TotalLent-500, Summarize(entries).TotalLent)
	assert.Equal(t, int64(-200), Summarize(entries).RemainingDue)
}

func TestBuildDashboard(t *testing.T) {
	people := []PersonProfile{
		{ID: 1, Name: "Ada"},
		{ID: 2, Name: "Bob", ApprovalStatus: true},
		{ID: 3, Name: "Cy"},
		{ID: 4, Name: "Dee", ApprovalStatus: true},
	}
	entries := map[int64][]LedgerEntry{
		1: {entry(Debit, StatusApproved, 1000), entry(Credit, StatusApproved, 250)},
		2: {entry(Debit, StatusArchived, 300)},
		3: {entry(Debit, StatusPending, 80)},
		4: {entry(Debit, StatusApproved, 200), entry(Credit, StatusApproved, 200)},
	}

	dash := BuildDashboard(people, entries)
	assert.Equal(t, int64(1200), dash.TotalLent)
	assert.Equal(t, int64(450), dash.TotalRepaid)
	assert.Equal(t, int64(750), dash.RemainingDue)
	assert.Equal(t, 1, dash.ActiveProfiles)
	assert.Equal(t, 2, dash.SettledProfiles)
	assert.Equal(t, 1, dash.PendingEntries)
	assert.InDelta(t, 37.5, dash.RecoveryRate, 0.0001)
	assert.InDelta(t, 62.5, dash.OutstandingRatio, 0.0001)
	assert.Len(t, dash.Profiles, 4)
}

func TestBuildDashboardEmpty(t *testing.T) {
	dash := BuildDashboard(nil, nil)
	assert.Equal(t, BalanceSummary{}, dash.BalanceSummary)
	assert.Zero(t, dash.RecoveryRate)
	assert.NotNil(t, dash.Profiles)
}

func TestCheckSettlement(t *testing.T) {
	assert.NoError(t, CheckSettlement(BalanceSummary{}, true))
	assert.NoError(t, CheckSettlement(BalanceSummary{TotalLent: 10, RemainingDue: 10}, false))

	for _, due := range []int64{1, -1, 300} {
		err := CheckSettlement(BalanceSummary{RemainingDue: due}, true)
		assert.EqualError(t, err, "INVARIANT_VIOLATION: balance must be zero")
	}
}
