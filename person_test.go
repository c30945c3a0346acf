package tally

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/model"
)

func TestCreatePerson(t *testing.T) {
	tt := newTestTally(t, true)
	ctx := context.Background()

	_, err := tt.CreatePerson(ctx, alice, "  ")
	requireCode(t, err, apierror.ErrInvalidInput)

	tt.ds.On("CreatePerson", anyCtx, model.PersonProfile{Owner: alice, Name: "Bob"}).
		Return(model.PersonProfile{ID: 1, Owner: alice, Name: "Bob"}, nil)
	person, err := tt.CreatePerson(ctx, alice, " Bob ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), person.ID)
	tt.mr.CheckGet(t, generationKey(alice), "1")
}

func TestGetPeople_CachedUntilMutation(t *testing.T) {
	tt := newTestTally(t, true)
	ctx := context.Background()

	tt.ds.On("GetPeople", anyCtx, alice).Return([]model.PersonProfile{{ID: 1, Owner: alice, Name: "Bob"}}, nil).Twice()
	tt.ds.On("DeletePerson", anyCtx, alice, int64(2)).Return(nil)

	for i := 0; i < 3; i++ {
		people, err := tt.GetPeople(ctx, alice, "")
		require.NoError(t, err)
		require.Len(t, people, 1)
	}
	require.NoError(t, tt.DeletePerson(ctx, alice, 2))
	_, err := tt.GetPeople(ctx, alice, "")
	require.NoError(t, err)

	tt.ds.AssertNumberOfCalls(t, "GetPeople", 2)
}

func TestGetPeople_Search(t *testing.T) {
	tt := newTestTally(t, false)
	tt.ds.On("GetPeople", anyCtx, alice).Return([]model.PersonProfile{
		{ID: 1, Name: "Alice Cooper"},
		{ID: 2, Name: "Bob Marley"},
		{ID: 3, Name: "Alise"},
		{ID: 4, Name: "Charlie"},
	}, nil)

	people, err := tt.GetPeople(context.Background(), alice, "alice")
	require.NoError(t, err)
	ids := make([]int64, 0, len(people))
	for _, p := range people {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestNameMatch(t *testing.T) {
	tests := []struct {
		name, term string
		distance   int
		ok         bool
	}{
		{"bob marley", "marl", 0, true},
		{"jonathan", "jonathen", 1, true},
		{"bob marley", "marlee", 1, true},
		{"bob", "zed", 0, false},
	}
	for _, tc := range tests {
		d, ok := nameMatch(tc.name, tc.term)
		assert.Equal(t, tc.ok, ok, tc.term)
		if tc.ok {
			assert.Equal(t, tc.distance, d, tc.term)
		}
	}
}

func TestEditPerson(t *testing.T) {
	tt := newTestTally(t, false)
	ctx := context.Background()
	tt.ds.On("GetPerson", anyCtx, alice, int64(1)).Return(&model.PersonProfile{ID: 1, Owner: alice, Name: "Bob"}, nil)
	tt.ds.On("UpdatePerson", anyCtx, mock.MatchedBy(func(p *model.PersonProfile) bool { return p.Name == "Robert" })).Return(nil)

	person, err := tt.EditPerson(ctx, alice, 1, "Robert")
	require.NoError(t, err)
	assert.Equal(t, "Robert", person.Name)
}

func TestProfileBalanceAndHistoryTotals(t *testing.T) {
	tt := newTestTally(t, false)
	ctx := context.Background()
	archived := approvedEntry(model.Debit, 300)
	archived.Status = model.StatusArchived
	pending := approvedEntry(model.Debit, 100)
	pending.Status = model.StatusPending

	tt.ds.On("GetPerson", anyCtx, alice, int64(1)).Return(&model.PersonProfile{ID: 1, Owner: alice}, nil)
	tt.ds.On("GetPerson", anyCtx, alice, int64(9)).Return(nil, notFound())
	tt.ds.On("GetEntriesByPerson", anyCtx, alice, int64(1)).Return([]model.LedgerEntry{
		approvedEntry(model.Debit, 500),
		approvedEntry(model.Credit, 200),
		pending,
		archived,
	}, nil)

	balance, err := tt.GetProfileBalance(ctx, alice, 1)
	require.NoError(t, err)
	assert.Equal(t, model.BalanceSummary{TotalLent: 500, TotalRepaid: 200, RemainingDue: 300}, balance)

	totals, err := tt.GetHistoryTotals(ctx, alice, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(800), totals.TotalLent)
	assert.Equal(t, int64(600), totals.RemainingDue)

	_, err = tt.GetProfileBalance(ctx, alice, 9)
	requireCode(t, err, apierror.ErrNotFound)
}

func TestDeletePerson(t *testing.T) {
	tt := newTestTally(t, true)
	ctx := context.Background()

	tt.ds.On("DeletePerson", anyCtx, alice, int64(1)).Return(nil).Once()
	require.NoError(t, tt.DeletePerson(ctx, alice, 1))
	tt.mr.CheckGet(t, generationKey(alice), "1")

	tt.ds.On("GetPerson", anyCtx, alice, int64(1)).Return(nil, notFound()).Once()
	_, err := tt.GetTransactionHistory(ctx, alice, 1)
	requireCode(t, err, apierror.ErrNotFound)
	tt.ds.AssertNotCalled(t, "GetEntriesByPerson", anyCtx, alice, int64(1))
}
