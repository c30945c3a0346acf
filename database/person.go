package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/model"
)

const personColumns = `id, owner, name, approval_status, COALESCE(linked_principal, ''), created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(row rowScanner) (model.PersonProfile, error) {
	var p model.PersonProfile
	var owner, linked string
	err := row.Scan(&p.ID, &owner, &p.Name, &p.ApprovalStatus, &linked, &p.CreatedAt)
	p.Owner = model.Principal(owner)
	p.LinkedPrincipal = model.Principal(linked)
	return p, err
}

func (d Datasource) CreatePerson(ctx context.Context, p model.PersonProfile) (model.PersonProfile, error) {
	p.CreatedAt = time.Now().UTC()
	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO tally.people (owner, name, approval_status, linked_principal, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.Owner.String(), p.Name, p.ApprovalStatus, nullString(p.LinkedPrincipal.String()), p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return model.PersonProfile{}, mapWriteError(err, "Person")
	}
	return p, nil
}

func (d Datasource) GetPerson(ctx context.Context, owner model.Principal, id int64) (*model.PersonProfile, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+personColumns+`
		FROM tally.people
		WHERE id = $1 AND owner = $2 AND deleted_at IS NULL
	`, id, owner.String())

	p, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Person with ID '%d' not found", id), nil)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve person", err)
	}
	return &p, nil
}

func (d Datasource) GetPeople(ctx context.Context, owner model.Principal) ([]model.PersonProfile, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+personColumns+`
		FROM tally.people
		WHERE owner = $1 AND deleted_at IS NULL
		ORDER BY created_at, id
	`, owner.String())
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve people", err)
	}
	defer rows.Close()

	people := []model.PersonProfile{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan person data", err)
		}
		people = append(people, p)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over people", err)
	}
	return people, nil
}

func (d Datasource) UpdatePerson(ctx context.Context, p *model.PersonProfile) error {
	res, err := d.Conn.ExecContext(ctx, `
		UPDATE tally.people
		SET name = $1
		WHERE id = $2 AND owner = $3 AND deleted_at IS NULL
	`, p.Name, p.ID, p.Owner.String())
	if err != nil {
		return mapWriteError(err, "Person")
	}
	return expectOneRow(res, "Person")
}

func (d Datasource) SetApprovalStatus(ctx context.Context, owner model.Principal, id int64, approved bool) error {
	res, err := d.Conn.ExecContext(ctx, `
		UPDATE tally.people
		SET approval_status = $1
		WHERE id = $2 AND owner = $3 AND deleted_at IS NULL
	`, approved, id, owner.String())
	if err != nil {
		return mapWriteError(err, "Person")
	}
	return expectOneRow(res, "Person")
}

// DeletePerson hides the profile. Its entries stay on the ledger.
func (d Datasource) DeletePerson(ctx context.Context, owner model.Principal, id int64) error {
	res, err := d.Conn.ExecContext(ctx, `
		UPDATE tally.people
		SET deleted_at = $1
		WHERE id = $2 AND owner = $3 AND deleted_at IS NULL
	`, time.Now().UTC(), id, owner.String())
	if err != nil {
		return mapWriteError(err, "Person")
	}
	return expectOneRow(res, "Person")
}
