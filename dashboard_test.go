package tally

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/model"
)

func TestGetSummaryDashboard(t *testing.T) {
	tt := newTestTally(t, false)
	people := []model.PersonProfile{
		{ID: 1, Owner: alice, Name: "Bob"},
		{ID: 2, Owner: alice, Name: "Carol", ApprovalStatus: true},
	}
	settled := []model.LedgerEntry{
		{PersonID: 2, TransactionType: model.Debit, Status: model.StatusApproved, Amount: 300},
		{PersonID: 2, TransactionType: model.Credit, Status: model.StatusApproved, Amount: 300},
	}
	open := []model.LedgerEntry{
		{PersonID: 1, TransactionType: model.Debit, Status: model.StatusApproved, Amount: 500},
		{PersonID: 1, TransactionType: model.Credit, Status: model.StatusApproved, Amount: 200},
		{PersonID: 1, TransactionType: model.Debit, Status: model.StatusPending, Amount: 100},
	}
	tt.ds.On("GetPeople", anyCtx, alice).Return(people, nil)
	tt.ds.On("GetEntriesByOwner", anyCtx, alice).Return(append(open, settled...), nil)

	dashboard, err := tt.GetSummaryDashboard(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, int64(800), dashboard.TotalLent)
	assert.Equal(t, int64(500), dashboard.TotalRepaid)
	assert.Equal(t, int64(300), dashboard.RemainingDue)
	assert.Equal(t, 1, dashboard.ActiveProfiles)
	assert.Equal(t, 1, dashboard.SettledProfiles)
	assert.Equal(t, 1, dashboard.PendingEntries)
	assert.Len(t, dashboard.Profiles, 2)
}

func TestResetDashboard_InvalidatesCounterparties(t *testing.T) {
	tt := newTestTally(t, true)
	// bob's pending entry sits on a profile removed before the reset
	reset := model.ResetSummary{Rejected: 1, Archived: 1, ProfilesRemoved: 0, Counterparties: []model.Principal{bob, model.AnonymousPrincipal}}
	tt.ds.On("ResetOwner", anyCtx, alice).Return(reset, nil)

	summary, err := tt.ResetDashboard(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, reset, summary)
	tt.ds.AssertNotCalled(t, "GetEntriesByOwner", mock.Anything, mock.Anything)
	tt.mr.CheckGet(t, generationKey(alice), "1")
	tt.mr.CheckGet(t, generationKey(bob), "1")
	assert.False(t, tt.mr.Exists(generationKey(model.AnonymousPrincipal)))
}
