/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

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

const (
	alice = model.Principal("kw6ia-hibai-bq")
	bob   = model.Principal("ivwno-rqaae-bagba-faydq-qci")
)

func newMockDatasource(t *testing.T) (Datasource, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return Datasource{Conn: db}, mock
}

func assertCode(t *testing.T, err error, code apierror.ErrorCode) {
	t.Helper()
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok, "expected APIError, got %v", err)
	assert.Equal(t, code, apiErr.Code)
}

func TestCreatePerson_Success(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectQuery("INSERT INTO tally.people").
		WithArgs(alice.String(), "Ada", false, sql.NullString{}, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	p, err := ds.CreatePerson(context.Background(), model.PersonProfile{Owner: alice, Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.ID)
	assert.WithinDuration(t, time.Now(), p.CreatedAt, time.Second)
}

func TestCreatePerson_UniqueViolation(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectQuery("INSERT INTO tally.people").
		WillReturnError(&pq.Error{Code: "23505", Message: "unique_violation"})

	_, err := ds.CreatePerson(context.Background(), model.PersonProfile{Owner: alice, Name: "Ada", LinkedPrincipal: bob})
	assertCode(t, err, apierror.ErrConflict)
}

func TestGetPerson(t *testing.T) {
	ds, mock := newMockDatasource(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, owner, name, approval_status").
		WithArgs(int64(4), alice.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner", "name", "approval_status", "linked_principal", "created_at"}).
			AddRow(4, alice.String(), "Ada", true, bob.String(), now))

	p, err := ds.GetPerson(context.Background(), alice, 4)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.True(t, p.ApprovalStatus)
	assert.Equal(t, bob, p.LinkedPrincipal)
	assert.Equal(t, alice, p.Owner)
}

func TestGetPerson_NotFound(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectQuery("SELECT id, owner, name, approval_status").
		WithArgs(int64(9), alice.String()).
		WillReturnError(sql.ErrNoRows)

	_, err := ds.GetPerson(context.Background(), alice, 9)
	assertCode(t, err, apierror.ErrNotFound)
}

func TestGetPeople(t *testing.T) {
	ds, mock := newMockDatasource(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, owner, name, approval_status").
		WithArgs(alice.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner", "name", "approval_status", "linked_principal", "created_at"}).
			AddRow(1, alice.String(), "Ada", false, "", now).
			AddRow(2, alice.String(), "Bob", false, bob.String(), now))

	people, err := ds.GetPeople(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, people, 2)
	assert.Equal(t, model.Principal(""), people[0].LinkedPrincipal)
}

func TestUpdatePerson_NotFound(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectExec("UPDATE tally.people").
		WithArgs("Ada L", int64(3), alice.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := ds.UpdatePerson(context.Background(), &model.PersonProfile{ID: 3, Owner: alice, Name: "Ada L"})
	assertCode(t, err, apierror.ErrNotFound)
}

func TestSetApprovalStatus(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectExec("UPDATE tally.people").
		WithArgs(true, int64(3), alice.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, ds.SetApprovalStatus(context.Background(), alice, 3, true))
}

func TestDeletePerson_IsSoft(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectExec("UPDATE tally.people SET deleted_at").
		WithArgs(sqlmock.AnyArg(), int64(3), alice.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, ds.DeletePerson(context.Background(), alice, 3))
}
