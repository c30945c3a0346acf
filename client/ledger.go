package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wacul/ptr"

	apimodel "github.com/tallyhq/tally/api/model"
	"github.com/tallyhq/tally/model"
)

func (c *Client) CreatePerson(ctx context.Context, name string) (model.PersonProfile, error) {
	req := apimodel.PersonRequest{Name: name}
	if err := req.Validate(); err != nil {
		return model.PersonProfile{}, invalid(err)
	}
	var person model.PersonProfile
	err := c.mutate(ctx, http.MethodPost, "/people", req, &person)
	return person, err
}

// GetPeople lists the caller's profiles, fuzzily filtered by search when it
// is not empty.
func (c *Client) GetPeople(ctx context.Context, search string) ([]model.PersonProfile, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": {search}}
	}
	var people []model.PersonProfile
	err := c.get(ctx, "/people", query, &people)
	return people, err
}

func (c *Client) GetPerson(ctx context.Context, id int64) (model.PersonProfile, error) {
	var person model.PersonProfile
	err := c.get(ctx, fmt.Sprintf("/people/%d", id), nil, &person)
	return person, err
}

func (c *Client) EditPerson(ctx context.Context, id int64, name string) (model.PersonProfile, error) {
	req := apimodel.PersonRequest{Name: name}
	if err := req.Validate(); err != nil {
		return model.PersonProfile{}, invalid(err)
	}
	var person model.PersonProfile
	err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/people/%d", id), req, &person)
	return person, err
}

func (c *Client) DeletePerson(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/people/%d", id), nil, nil)
}

// SetApprovalStatus marks a profile as settled. The server refuses with
// INVARIANT_VIOLATION while the profile carries a balance.
func (c *Client) SetApprovalStatus(ctx context.Context, id int64, approve bool) (model.PersonProfile, error) {
	var person model.PersonProfile
	err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/people/%d/approval", id),
		apimodel.ApprovalRequest{ApprovalStatus: ptr.Bool(approve)}, &person)
	return person, err
}

func (c *Client) GetProfileBalance(ctx context.Context, id int64) (model.BalanceSummary, error) {
	var balance model.BalanceSummary
	err := c.get(ctx, fmt.Sprintf("/people/%d/balance", id), nil, &balance)
	return balance, err
}

func (c *Client) GetHistoryTotals(ctx context.Context, id int64) (model.BalanceSummary, error) {
	var totals model.BalanceSummary
	err := c.get(ctx, fmt.Sprintf("/people/%d/totals", id), nil, &totals)
	return totals, err
}

func (c *Client) GetTransactionHistory(ctx context.Context, id int64) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := c.get(ctx, fmt.Sprintf("/people/%d/entries", id), nil, &entries)
	return entries, err
}

// AddLedgerEntry records an entry on a profile. The reply carries the id of
// the mirrored entry when the entry names a counterparty.
func (c *Client) AddLedgerEntry(ctx context.Context, personID int64, entry apimodel.CreateEntry) (apimodel.EntryCreated, error) {
	if err := entry.Validate(); err != nil {
		return apimodel.EntryCreated{}, invalid(err)
	}
	var created apimodel.EntryCreated
	err := c.mutate(ctx, http.MethodPost, fmt.Sprintf("/people/%d/entries", personID), entry, &created)
	return created, err
}

func (c *Client) GetPendingEntries(ctx context.Context) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := c.get(ctx, "/entries/pending", nil, &entries)
	return entries, err
}

func (c *Client) ApproveLedgerEntry(ctx context.Context, id int64) (model.LedgerEntry, error) {
	return c.entryAction(ctx, id, "approve")
}

func (c *Client) RejectLedgerEntry(ctx context.Context, id int64) (model.LedgerEntry, error) {
	return c.entryAction(ctx, id, "reject")
}

func (c *Client) ArchiveEntry(ctx context.Context, id int64) (model.LedgerEntry, error) {
	return c.entryAction(ctx, id, "archive")
}

func (c *Client) MarkAsRepaid(ctx context.Context, id int64) (model.LedgerEntry, error) {
	return c.entryAction(ctx, id, "repaid")
}

func (c *Client) entryAction(ctx context.Context, id int64, action string) (model.LedgerEntry, error) {
	var entry model.LedgerEntry
	err := c.mutate(ctx, http.MethodPost, fmt.Sprintf("/entries/%d/%s", id, action), nil, &entry)
	return entry, err
}

func (c *Client) GetSummaryDashboard(ctx context.Context) (model.Dashboard, error) {
	var dashboard model.Dashboard
	err := c.get(ctx, "/dashboard", nil, &dashboard)
	return dashboard, err
}

func (c *Client) ResetDashboard(ctx context.Context) (model.ResetSummary, error) {
	var summary model.ResetSummary
	err := c.mutate(ctx, http.MethodPost, "/dashboard/reset", nil, &summary)
	return summary, err
}

func (c *Client) GetCallerUserProfile(ctx context.Context) (model.UserProfile, error) {
	var profile model.UserProfile
	err := c.get(ctx, "/me", nil, &profile)
	return profile, err
}

func (c *Client) SaveCallerUserProfile(ctx context.Context, req apimodel.UserProfileRequest) (model.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return model.UserProfile{}, invalid(err)
	}
	var profile model.UserProfile
	err := c.mutate(ctx, http.MethodPut, "/me", req, &profile)
	return profile, err
}
