package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/model"
)

const entryColumns = `id, person_id, owner, created_by, transaction_type, status, amount, currency, date, description, counterparty, counterpart_id, created_at, updated_at`

const insertEntry = `
	INSERT INTO tally.ledger_entries (id, person_id, owner, created_by, transaction_type, status, amount, currency, date, description, counterparty, counterpart_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func scanEntry(row rowScanner) (model.LedgerEntry, error) {
	var e model.LedgerEntry
	var owner, createdBy, txType, status, counterparty string
	var counterpartID sql.NullInt64
	var date int64

	err := row.Scan(&e.ID, &e.PersonID, &owner, &createdBy, &txType, &status, &e.Amount, &e.Currency,
		&date, &e.Description, &counterparty, &counterpartID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}

	e.Owner = model.Principal(owner)
	e.CreatedBy = model.Principal(createdBy)
	e.TransactionType = model.TransactionType(txType)
	e.Status = model.LedgerStatus(status)
	e.Date = model.Timestamp(date)
	e.Counterparty = model.Principal(counterparty)
	if counterpartID.Valid {
		id := counterpartID.Int64
		e.CounterpartID = &id
	}
	return e, nil
}

func writeEntry(ctx context.Context, ex execer, e model.LedgerEntry) error {
	var counterpart sql.NullInt64
	if e.CounterpartID != nil {
		counterpart = sql.NullInt64{Int64: *e.CounterpartID, Valid: true}
	}
	_, err := ex.ExecContext(ctx, insertEntry,
		e.ID, e.PersonID, e.Owner.String(), e.CreatedBy.String(), string(e.TransactionType), string(e.Status),
		e.Amount, e.Currency, int64(e.Date), e.Description, e.Counterparty.String(), counterpart, e.CreatedAt)
	return err
}

// RecordEntry stores a single entry with a freshly allocated id.
func (d Datasource) RecordEntry(ctx context.Context, e model.LedgerEntry) (model.LedgerEntry, error) {
	if err := d.Conn.QueryRowContext(ctx, `SELECT nextval('tally.ledger_entries_id_seq')`).Scan(&e.ID); err != nil {
		return model.LedgerEntry{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to allocate entry id", err)
	}

	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	if err := writeEntry(ctx, d.Conn, e); err != nil {
		return model.LedgerEntry{}, mapWriteError(err, "Ledger entry")
	}
	return e, nil
}

// RecordEntryPair stores e together with its mirror on the counterparty's
// books in one transaction. The mirror lands on the counterparty's profile
// linked to e.Owner, which is created with mirrorPersonName if missing.
func (d Datasource) RecordEntryPair(ctx context.Context, e model.LedgerEntry, mirrorPersonName string) (model.LedgerEntry, model.LedgerEntry, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return model.LedgerEntry{}, model.LedgerEntry{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	mirrorPersonID, err := linkedPersonID(ctx, tx, e.Counterparty, e.Owner, mirrorPersonName)
	if err != nil {
		return model.LedgerEntry{}, model.LedgerEntry{}, err
	}

	var id, mirrorID int64
	err = tx.QueryRowContext(ctx, `SELECT nextval('tally.ledger_entries_id_seq'), nextval('tally.ledger_entries_id_seq')`).Scan(&id, &mirrorID)
	if err != nil {
		return model.LedgerEntry{}, model.LedgerEntry{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to allocate entry ids", err)
	}

	now := time.Now().UTC()
	mirror := e.Mirror(mirrorPersonID)
	e.ID, e.CounterpartID, e.CreatedAt, e.UpdatedAt = id, &mirrorID, now, now
	mirror.ID, mirror.CounterpartID, mirror.CreatedAt, mirror.UpdatedAt = mirrorID, &id, now, now

	if err := writeEntry(ctx, tx, e); err != nil {
		return model.LedgerEntry{}, model.LedgerEntry{}, mapWriteError(err, "Ledger entry")
	}
	if err := writeEntry(ctx, tx, mirror); err != nil {
		return model.LedgerEntry{}, model.LedgerEntry{}, mapWriteError(err, "Ledger entry")
	}

	if err := tx.Commit(); err != nil {
		return model.LedgerEntry{}, model.LedgerEntry{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}
	return e, mirror, nil
}

func linkedPersonID(ctx context.Context, tx *sql.Tx, owner, linked model.Principal, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM tally.people
		WHERE owner = $1 AND linked_principal = $2 AND deleted_at IS NULL
	`, owner.String(), linked.String()).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to look up counterparty profile", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO tally.people (owner, name, approval_status, linked_principal, created_at)
		VALUES ($1, $2, FALSE, $3, $4)
		RETURNING id
	`, owner.String(), name, linked.String(), time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, mapWriteError(err, "Counterparty profile")
	}
	return id, nil
}

func (d Datasource) GetEntry(ctx context.Context, id int64) (*model.LedgerEntry, error) {
	row := d.Conn.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM tally.ledger_entries WHERE id = $1`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Ledger entry with ID '%d' not found", id), nil)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve ledger entry", err)
	}
	return &e, nil
}

func (d Datasource) queryEntries(ctx context.Context, query string, args ...interface{}) ([]model.LedgerEntry, error) {
	rows, err := d.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve ledger entries", err)
	}
	defer rows.Close()

	entries := []model.LedgerEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan ledger entry", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over ledger entries", err)
	}
	return entries, nil
}

// GetEntriesByPerson returns a profile's entries, newest first.
func (d Datasource) GetEntriesByPerson(ctx context.Context, owner model.Principal, personID int64) ([]model.LedgerEntry, error) {
	return d.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM tally.ledger_entries
		WHERE owner = $1 AND person_id = $2
		ORDER BY date DESC, id DESC
	`, owner.String(), personID)
}

// GetEntriesByOwner returns every entry on the owner's active profiles.
func (d Datasource) GetEntriesByOwner(ctx context.Context, owner model.Principal) ([]model.LedgerEntry, error) {
	return d.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM tally.ledger_entries
		WHERE owner = $1 AND person_id IN (
			SELECT id FROM tally.people WHERE owner = $1 AND deleted_at IS NULL
		)
		ORDER BY id
	`, owner.String())
}

// GetPendingEntries returns entries on the principal's books that wait for
// the principal's decision.
func (d Datasource) GetPendingEntries(ctx context.Context, principal model.Principal) ([]model.LedgerEntry, error) {
	return d.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM tally.ledger_entries
		WHERE owner = $1 AND status = 'pending' AND created_by <> $1
		ORDER BY id
	`, principal.String())
}

// UpdateEntryStatus moves every entry in ids from one status to another in a
// single transaction. If any of them is no longer in the from status nothing
// changes and an invariant violation is returned.
func (d Datasource) UpdateEntryStatus(ctx context.Context, ids []int64, from, to model.LedgerStatus) error {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE tally.ledger_entries
		SET status = $1, updated_at = $2
		WHERE id = ANY($3) AND status = $4
	`, string(to), time.Now().UTC(), pq.Array(ids), string(from))
	if err != nil {
		return mapWriteError(err, "Ledger entry")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to read affected rows", err)
	}
	if n != int64(len(ids)) {
		return apierror.Invariant(fmt.Sprintf("entry is no longer %s", from))
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}
	return nil
}

// ResetOwner clears the owner's dashboard: pending entries (and their
// mirrors) are rejected, approved entries archived and profiles hidden.
func (d Datasource) ResetOwner(ctx context.Context, owner model.Principal) (model.ResetSummary, error) {
	var summary model.ResetSummary
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return summary, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT DISTINCT counterparty FROM tally.ledger_entries
		WHERE owner = $1 AND status = 'pending'`, owner.String())
	if err != nil {
		return summary, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list counterparties", err)
	}
	for rows.Next() {
		var counterparty string
		if err := rows.Scan(&counterparty); err != nil {
			rows.Close()
			return summary, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan counterparty", err)
		}
		summary.Counterparties = append(summary.Counterparties, model.Principal(counterparty))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return model.ResetSummary{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list counterparties", err)
	}

	now := time.Now().UTC()
	steps := []struct {
		query string
		count *int64
	}{
		{`
		UPDATE tally.ledger_entries
		SET status = 'rejected', updated_at = $2
		WHERE status = 'pending' AND (owner = $1 OR counterpart_id IN (
			SELECT id FROM tally.ledger_entries WHERE owner = $1 AND status = 'pending'
		))`, &summary.Rejected},
		{`
		UPDATE tally.ledger_entries
		SET status = 'archived', updated_at = $2
		WHERE owner = $1 AND status = 'approved'`, &summary.Archived},
		{`
		UPDATE tally.people
		SET deleted_at = $2
		WHERE owner = $1 AND deleted_at IS NULL`, &summary.ProfilesRemoved},
	}

	for _, step := range steps {
		res, err := tx.ExecContext(ctx, step.query, owner.String(), now)
		if err != nil {
			return model.ResetSummary{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to reset dashboard", err)
		}
		if *step.count, err = res.RowsAffected(); err != nil {
			return model.ResetSummary{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to read affected rows", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.ResetSummary{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}
	return summary, nil
}
