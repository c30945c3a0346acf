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

func tripGroup() *model.TravelGroup {
	return &model.TravelGroup{
		ID:       5,
		Owner:    alice,
		Name:     "Lisbon",
		Currency: "EUR",
		Members: []model.GroupMember{
			{ID: 1, GroupID: 5, Name: "Alice"},
			{ID: 2, GroupID: 5, Name: "Bob"},
			{ID: 3, GroupID: 5, Name: "Carol"},
		},
		Expenses: []model.GroupExpense{
			{ID: 1, GroupID: 5, PaidBy: 1, Amount: 9000, Currency: "EUR"},
			{ID: 2, GroupID: 5, PaidBy: 2, Amount: 3000, Currency: "EUR"},
		},
	}
}

func TestCreateGroup_DefaultsCurrency(t *testing.T) {
	tt := newTestTally(t, false)
	tt.ds.On("GetUserProfile", anyCtx, alice).Return(&model.UserProfile{Principal: alice, CurrencyPreference: "INR"}, nil)
	tt.ds.On("CreateGroup", anyCtx, model.TravelGroup{Owner: alice, Name: "Goa", Currency: "INR"}).
		Return(model.TravelGroup{ID: 1, Owner: alice, Name: "Goa", Currency: "INR"}, nil)

	group, err := tt.CreateGroup(context.Background(), alice, "Goa", "")
	require.NoError(t, err)
	assert.Equal(t, "INR", group.Currency)

	_, err = tt.CreateGroup(context.Background(), alice, "", "EUR")
	requireCode(t, err, apierror.ErrInvalidInput)
}

func TestAddExpense(t *testing.T) {
	tt := newTestTally(t, false)
	ctx := context.Background()
	tt.ds.On("GetGroup", anyCtx, alice, int64(5)).Return(tripGroup(), nil)
	tt.ds.On("AddExpense", anyCtx, mock.MatchedBy(func(e model.GroupExpense) bool {
		return e.GroupID == 5 && e.PaidBy == 3 && e.Currency == "EUR" && e.Date != 0
	})).Return(model.GroupExpense{ID: 3, GroupID: 5, PaidBy: 3, Amount: 1500, Currency: "EUR"}, nil)

	_, err := tt.AddExpense(ctx, alice, 5, model.GroupExpense{PaidBy: 9, Amount: 100})
	requireCode(t, err, apierror.ErrInvalidInput)

	_, err = tt.AddExpense(ctx, alice, 5, model.GroupExpense{PaidBy: 3, Amount: 0})
	requireCode(t, err, apierror.ErrInvalidInput)

	expense, err := tt.AddExpense(ctx, alice, 5, model.GroupExpense{PaidBy: 3, Amount: 1500, Description: "dinner"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), expense.ID)
}

func TestEditExpenseAndMembers(t *testing.T) {
	tt := newTestTally(t, false)
	ctx := context.Background()
	tt.ds.On("GetGroup", anyCtx, alice, int64(5)).Return(tripGroup(), nil)
	tt.ds.On("UpdateExpense", anyCtx, mock.MatchedBy(func(e *model.GroupExpense) bool {
		return e.ID == 2 && e.Amount == 4000 && e.PaidBy == 1
	})).Return(nil)
	tt.ds.On("UpdateMember", anyCtx, mock.MatchedBy(func(m *model.GroupMember) bool {
		return m.ID == 2 && m.Name == "Robert" && m.Principal == bob
	})).Return(nil)
	tt.ds.On("RemoveMember", anyCtx, int64(5), int64(1)).
		Return(apierror.NewAPIError(apierror.ErrConflict, "Group member is still referenced", nil))

	_, err := tt.EditExpense(ctx, alice, 5, 42, model.GroupExpense{PaidBy: 1, Amount: 4000})
	requireCode(t, err, apierror.ErrNotFound)

	expense, err := tt.EditExpense(ctx, alice, 5, 2, model.GroupExpense{PaidBy: 1, Amount: 4000})
	require.NoError(t, err)
	assert.Equal(t, "EUR", expense.Currency)

	member, err := tt.UpdateMember(ctx, alice, 5, 2, "Robert", bob.String())
	require.NoError(t, err)
	assert.Equal(t, bob, member.Principal)

	_, err = tt.UpdateMember(ctx, alice, 5, 2, "Robert", "nope")
	requireCode(t, err, apierror.ErrInvalidInput)

	err = tt.RemoveMember(ctx, alice, 5, 1)
	requireCode(t, err, apierror.ErrConflict)
}

func TestCalculateGroupBalance(t *testing.T) {
	tt := newTestTally(t, false)
	tt.ds.On("GetGroup", anyCtx, alice, int64(5)).Return(tripGroup(), nil)

	balance, err := tt.CalculateGroupBalance(context.Background(), alice, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), balance.TotalExpenses)

	var net int64
	for _, m := range balance.Members {
		assert.Equal(t, int64(4000), m.Share)
		net += m.Net
	}
	assert.Zero(t, net)
	assert.Equal(t, []model.Transfer{{From: 3, To: 1, Amount: 4000}, {From: 2, To: 1, Amount: 1000}}, balance.Transfers)
}
