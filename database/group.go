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

func (d Datasource) CreateGroup(ctx context.Context, g model.TravelGroup) (model.TravelGroup, error) {
	g.CreatedAt = time.Now().UTC()
	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO tally.travel_groups (owner, name, currency, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, g.Owner.String(), g.Name, g.Currency, g.CreatedAt).Scan(&g.ID)
	if err != nil {
		return model.TravelGroup{}, mapWriteError(err, "Travel group")
	}
	g.Members = []model.GroupMember{}
	g.Expenses = []model.GroupExpense{}
	return g, nil
}

func (d Datasource) GetGroups(ctx context.Context, owner model.Principal) ([]model.TravelGroup, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, owner, name, currency, created_at
		FROM tally.travel_groups
		WHERE owner = $1
		ORDER BY created_at, id
	`, owner.String())
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve travel groups", err)
	}
	defer rows.Close()

	groups := []model.TravelGroup{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan travel group", err)
		}
		groups = append(groups, g)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over travel groups", err)
	}

	if err := d.loadGroupChildren(ctx, groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (d Datasource) GetGroup(ctx context.Context, owner model.Principal, id int64) (*model.TravelGroup, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, owner, name, currency, created_at
		FROM tally.travel_groups
		WHERE id = $1 AND owner = $2
	`, id, owner.String())
	g, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Travel group with ID '%d' not found", id), nil)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve travel group", err)
	}

	groups := []model.TravelGroup{g}
	if err := d.loadGroupChildren(ctx, groups); err != nil {
		return nil, err
	}
	return &groups[0], nil
}

func scanGroup(row rowScanner) (model.TravelGroup, error) {
	var g model.TravelGroup
	var owner string
	err := row.Scan(&g.ID, &owner, &g.Name, &g.Currency, &g.CreatedAt)
	g.Owner = model.Principal(owner)
	g.Members = []model.GroupMember{}
	g.Expenses = []model.GroupExpense{}
	return g, err
}

// loadGroupChildren fills members and expenses of groups in two queries.
func (d Datasource) loadGroupChildren(ctx context.Context, groups []model.TravelGroup) error {
	if len(groups) == 0 {
		return nil
	}
	ids := make([]int64, len(groups))
	index := make(map[int64]int, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
		index[g.ID] = i
	}

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, group_id, name, principal, joined_at
		FROM tally.group_members
		WHERE group_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve group members", err)
	}
	for rows.Next() {
		var m model.GroupMember
		var principal string
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &principal, &m.JoinedAt); err != nil {
			rows.Close()
			return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan group member", err)
		}
		m.Principal = model.Principal(principal)
		g := &groups[index[m.GroupID]]
		g.Members = append(g.Members, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over group members", err)
	}

	rows, err = d.Conn.QueryContext(ctx, `
		SELECT id, group_id, paid_by, amount, currency, description, date, created_at
		FROM tally.group_expenses
		WHERE group_id = ANY($1)
		ORDER BY date, id
	`, pq.Array(ids))
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve group expenses", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e model.GroupExpense
		var date int64
		if err := rows.Scan(&e.ID, &e.GroupID, &e.PaidBy, &e.Amount, &e.Currency, &e.Description, &date, &e.CreatedAt); err != nil {
			return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan group expense", err)
		}
		e.Date = model.Timestamp(date)
		g := &groups[index[e.GroupID]]
		g.Expenses = append(g.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over group expenses", err)
	}
	return nil
}

func (d Datasource) DeleteGroup(ctx context.Context, owner model.Principal, id int64) error {
	res, err := d.Conn.ExecContext(ctx, `DELETE FROM tally.travel_groups WHERE id = $1 AND owner = $2`, id, owner.String())
	if err != nil {
		return mapWriteError(err, "Travel group")
	}
	return expectOneRow(res, "Travel group")
}

func (d Datasource) AddMember(ctx context.Context, m model.GroupMember) (model.GroupMember, error) {
	m.JoinedAt = time.Now().UTC()
	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO tally.group_members (group_id, name, principal, joined_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, m.GroupID, m.Name, m.Principal.String(), m.JoinedAt).Scan(&m.ID)
	if err != nil {
		return model.GroupMember{}, mapWriteError(err, "Group member")
	}
	return m, nil
}

func (d Datasource) UpdateMember(ctx context.Context, m *model.GroupMember) error {
	res, err := d.Conn.ExecContext(ctx, `
		UPDATE tally.group_members
		SET name = $1, principal = $2
		WHERE id = $3 AND group_id = $4
	`, m.Name, m.Principal.String(), m.ID, m.GroupID)
	if err != nil {
		return mapWriteError(err, "Group member")
	}
	return expectOneRow(res, "Group member")
}

// RemoveMember fails with a conflict while the member still has expenses.
func (d Datasource) RemoveMember(ctx context.Context, groupID, memberID int64) error {
	res, err := d.Conn.ExecContext(ctx, `DELETE FROM tally.group_members WHERE id = $1 AND group_id = $2`, memberID, groupID)
	if err != nil {
		return mapWriteError(err, "Group member")
	}
	return expectOneRow(res, "Group member")
}

func (d Datasource) AddExpense(ctx context.Context, e model.GroupExpense) (model.GroupExpense, error) {
	e.CreatedAt = time.Now().UTC()
	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO tally.group_expenses (group_id, paid_by, amount, currency, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, e.GroupID, e.PaidBy, e.Amount, e.Currency, e.Description, int64(e.Date), e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return model.GroupExpense{}, mapWriteError(err, "Group expense")
	}
	return e, nil
}

func (d Datasource) UpdateExpense(ctx context.Context, e *model.GroupExpense) error {
	res, err := d.Conn.ExecContext(ctx, `
		UPDATE tally.group_expenses
		SET paid_by = $1, amount = $2, currency = $3, description = $4, date = $5
		WHERE id = $6 AND group_id = $7
	`, e.PaidBy, e.Amount, e.Currency, e.Description, int64(e.Date), e.ID, e.GroupID)
	if err != nil {
		return mapWriteError(err, "Group expense")
	}
	return expectOneRow(res, "Group expense")
}

func (d Datasource) RemoveExpense(ctx context.Context, groupID, expenseID int64) error {
	res, err := d.Conn.ExecContext(ctx, `DELETE FROM tally.group_expenses WHERE id = $1 AND group_id = $2`, expenseID, groupID)
	if err != nil {
		return mapWriteError(err, "Group expense")
	}
	return expectOneRow(res, "Group expense")
}
