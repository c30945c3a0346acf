package model

// BalanceSummary is the live position of one book, derived from approved
// entries only.
type BalanceSummary struct {
	TotalLent    int64 `json:"total_lent"`
	TotalRepaid  int64 `json:"total_repaid"`
	TotalOwed    int64 `json:"total_owed"`
	RemainingDue int64 `json:"remaining_due"`
}

// Summarize reduces entries into a BalanceSummary. Pending, rejected and
// archived entries do not count.
func Summarize(entries []LedgerEntry) BalanceSummary {
	return reduce(entries, func(s LedgerStatus) bool { return s == StatusApproved })
}

// HistoryTotals is the same reduction over every entry that was ever
// realized, so archiving an entry does not change it.
func HistoryTotals(entries []LedgerEntry) BalanceSummary {
	return reduce(entries, func(s LedgerStatus) bool {
		return s == StatusApproved || s == StatusArchived
	})
}

func reduce(entries []LedgerEntry, counts func(LedgerStatus) bool) BalanceSummary {
	var summary BalanceSummary
	for _, e := range entries {
		if !counts(e.Status) {
			continue
		}
		switch e.TransactionType {
		case Debit:
			summary.TotalLent += e.Amount
		case Credit:
			summary.TotalRepaid += e.Amount
		}
	}
	return summary.withDerived()
}

func (s BalanceSummary) withDerived() BalanceSummary {
	s.RemainingDue = s.TotalLent - s.TotalRepaid
	s.TotalOwed = 0
	if s.RemainingDue < 0 {
		s.TotalOwed = -s.RemainingDue
	}
	return s
}

// Add combines two summaries, recomputing the derived fields.
func (s BalanceSummary) Add(o BalanceSummary) BalanceSummary {
	return BalanceSummary{
		TotalLent:   s.TotalLent + o.TotalLent,
		TotalRepaid: s.TotalRepaid + o.TotalRepaid,
	}.withDerived()
}

func (s BalanceSummary) IsSettled() bool {
	return s.RemainingDue == 0
}

// ProfileSummary pairs a profile with its live balance.
type ProfileSummary struct {
	Person       PersonProfile  `json:"person"`
	Balance      BalanceSummary `json:"balance"`
	PendingCount int            `json:"pending_count"`
}

// Dashboard is the caller wide view over all active profiles.
type Dashboard struct {
	BalanceSummary
	RecoveryRate     float64          `json:"recovery_rate"`
	OutstandingRatio float64          `json:"outstanding_ratio"`
	ActiveProfiles   int              `json:"active_profiles"`
	SettledProfiles  int              `json:"settled_profiles"`
	PendingEntries   int              `json:"pending_entries"`
	Profiles         []ProfileSummary `json:"profiles"`
}

// BuildDashboard aggregates per profile entries into a Dashboard. entries is
// keyed by person id; profiles without entries still appear.
func BuildDashboard(people []PersonProfile, entries map[int64][]LedgerEntry) Dashboard {
	dash := Dashboard{Profiles: make([]ProfileSummary, 0, len(people))}
	for _, p := range people {
		list := entries[p.ID]
		ps := ProfileSummary{Person: p, Balance: Summarize(list)}
		for _, e := range list {
			if e.Status == StatusPending {
				ps.PendingCount++
			}
		}

		dash.BalanceSummary = dash.BalanceSummary.Add(ps.Balance)
		dash.PendingEntries += ps.PendingCount
		if !ps.Balance.IsSettled() {
			dash.ActiveProfiles++
		} else if ps.PendingCount == 0 && p.ApprovalStatus {
			dash.SettledProfiles++
		}
		dash.Profiles = append(dash.Profiles, ps)
	}

	if dash.TotalLent > 0 {
		dash.RecoveryRate = percent(dash.TotalRepaid, dash.TotalLent)
		dash.OutstandingRatio = percent(dash.RemainingDue, dash.TotalLent)
	}
	return dash
}

func percent(part, whole int64) float64 {
	return float64(part) * 100 / float64(whole)
}
