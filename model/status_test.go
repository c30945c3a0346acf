package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/apierror"
)

func TestTransitions(t *testing.T) {
	all := []LedgerStatus{StatusPending, StatusApproved, StatusRejected, StatusArchived}
	allowed := map[[2]LedgerStatus]bool{
		{StatusPending, StatusApproved}:  true,
		{StatusPending, StatusRejected}:  true,
		{StatusApproved, StatusArchived}: true,
	}

	for _, from := range all {
		for _, to := range all {
			e := LedgerEntry{ID: 7, Status: from}
			next, err := Transition(e, to)
			if allowed[[2]LedgerStatus{from, to}] {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, next.Status)
				assert.Equal(t, from, e.Status)
				continue
			}
			assert.True(t, apierror.Is(err, apierror.ErrInvariantViolation), "%s -> %s", from, to)
		}
	}
}

func TestRejectedIsTerminal(t *testing.T) {
	rejected, err := Reject(LedgerEntry{Status: StatusPending})
	require.NoError(t, err)
	assert.True(t, rejected.Status.IsTerminal())

	_, err = Approve(rejected)
	assert.True(t, apierror.Is(err, apierror.ErrInvariantViolation))
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusApproved, InitialStatus(""))
	assert.Equal(t, StatusApproved, InitialStatus(AnonymousPrincipal))
	assert.Equal(t, StatusPending, InitialStatus("kw6ia-hibai-bq"))
}

func TestMirror(t *testing.T) {
	e := LedgerEntry{
		ID:              3,
		PersonID:        1,
		Owner:           "aaaaa-aa",
		CreatedBy:       "aaaaa-aa",
		TransactionType: Debit,
		Status:          StatusPending,
		Amount:          500,
		Currency:        "EUR",
		Counterparty:    "kw6ia-hibai-bq",
	}
	m := e.Mirror(9)
	assert.Equal(t, int64(9), m.PersonID)
	assert.Equal(t, Credit, m.TransactionType)
	assert.Equal(t, e.Counterparty, m.Owner)
	assert.Equal(t, e.Owner, m.Counterparty)
	assert.Equal(t, e.CreatedBy, m.CreatedBy)
	assert.Equal(t, e.Amount, m.Amount)
	assert.Zero(t, m.ID)
}

func TestParseTransactionType(t *testing.T) {
	tt, err := ParseTransactionType(" Debit ")
	require.NoError(t, err)
	assert.Equal(t, Debit, tt)
	assert.Equal(t, Credit, tt.Opposite())

	_, err = ParseTransactionType("transfer")
	assert.Error(t, err)
}
