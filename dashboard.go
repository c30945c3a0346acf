package tally

import (
	"context"

	"github.com/tallyhq/tally/model"
)

// GetSummaryDashboard aggregates every active profile of the caller.
func (l *Tally) GetSummaryDashboard(ctx context.Context, caller model.Principal) (model.Dashboard, error) {
	ctx, span := tracer.Start(ctx, "GetSummaryDashboard")
	defer span.End()

	return cached(ctx, l.queries, caller, "dashboard", func(ctx context.Context) (model.Dashboard, error) {
		people, err := l.datasource.GetPeople(ctx, caller)
		if err != nil {
			return model.Dashboard{}, logAndRecordError(span, "failed to list people", err)
		}
		entries, err := l.datasource.GetEntriesByOwner(ctx, caller)
		if err != nil {
			return model.Dashboard{}, logAndRecordError(span, "failed to list entries", err)
		}

		byPerson := make(map[int64][]model.LedgerEntry, len(people))
		for _, e := range entries {
			byPerson[e.PersonID] = append(byPerson[e.PersonID], e)
		}
		return model.BuildDashboard(people, byPerson), nil
	})
}

// ResetDashboard clears the caller's books: pending entries are rejected
// together with their mirrors, approved entries are archived and every
// profile is removed. Nothing is deleted.
func (l *Tally) ResetDashboard(ctx context.Context, caller model.Principal) (model.ResetSummary, error) {
	ctx, span := tracer.Start(ctx, "ResetDashboard")
	defer span.End()

	summary, err := l.datasource.ResetOwner(ctx, caller)
	if err != nil {
		return model.ResetSummary{}, logAndRecordError(span, "failed to reset dashboard", err)
	}
	l.metrics.Transitioned(model.StatusRejected, int(summary.Rejected))
	l.metrics.Transitioned(model.StatusArchived, int(summary.Archived))
	l.invalidate(ctx, append([]model.Principal{caller}, summary.Counterparties...)...)
	return summary, nil
}
