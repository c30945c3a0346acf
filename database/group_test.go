package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/model"
)

func TestCreateGroup(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectQuery("INSERT INTO tally.travel_groups").
		WithArgs(alice.String(), "Lisbon", "EUR", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	g, err := ds.CreateGroup(context.Background(), model.TravelGroup{Owner: alice, Name: "Lisbon", Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), g.ID)
	assert.NotNil(t, g.Members)
	assert.NotNil(t, g.Expenses)
}

func TestGetGroup_LoadsMembersAndExpenses(t *testing.T) {
	ds, mock := newMockDatasource(t)
	now := time.Now()

	mock.ExpectQuery("FROM tally.travel_groups").
		WithArgs(int64(3), alice.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner", "name", "currency", "created_at"}).
			AddRow(3, alice.String(), "Lisbon", "EUR", now))
	mock.ExpectQuery("FROM tally.group_members").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "name", "principal", "joined_at"}).
			AddRow(10, 3, "Ada", "", now).
			AddRow(11, 3, "Bob", bob.String(), now))
	mock.ExpectQuery("FROM tally.group_expenses").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "paid_by", "amount", "currency", "description", "date", "created_at"}).
			AddRow(1, 3, 10, 3000, "EUR", "hotel", int64(5), now))

	g, err := ds.GetGroup(context.Background(), alice, 3)
	require.NoError(t, err)
	require.Len(t, g.Members, 2)
	require.Len(t, g.Expenses, 1)
	assert.Equal(t, bob, g.Members[1].Principal)
	assert.Equal(t, int64(1500), model.CalculateGroupBalance(*g).Members[0].Net)
}

func TestGetGroup_NotFound(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectQuery("FROM tally.travel_groups").
		WithArgs(int64(3), bob.String()).
		WillReturnError(sql.ErrNoRows)

	_, err := ds.GetGroup(context.Background(), bob, 3)
	assertCode(t, err, apierror.ErrNotFound)
}

func TestGetGroups_Empty(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectQuery("FROM tally.travel_groups").
		WithArgs(alice.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner", "name", "currency", "created_at"}))

	groups, err := ds.GetGroups(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestRemoveMember_WithExpensesConflicts(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectExec("DELETE FROM tally.group_members").
		WithArgs(int64(10), int64(3)).
		WillReturnError(&pq.Error{Code: "23503", Message: "foreign_key_violation"})

	err := ds.RemoveMember(context.Background(), 3, 10)
	assertCode(t, err, apierror.ErrConflict)
}

func TestUpdateExpense(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectExec("UPDATE tally.group_expenses").
		WithArgs(int64(11), int64(900), "EUR", "taxi", int64(7), int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ds.UpdateExpense(context.Background(), &model.GroupExpense{
		ID: 1, GroupID: 3, PaidBy: 11, Amount: 900, Currency: "EUR", Description: "taxi", Date: 7,
	})
	assert.NoError(t, err)
}

func TestDeleteGroup_NotFound(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectExec("DELETE FROM tally.travel_groups").
		WithArgs(int64(3), bob.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assertCode(t, ds.DeleteGroup(context.Background(), bob, 3), apierror.ErrNotFound)
}
