package tally

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/model"
)

// CreateGroup starts a travel group owned by the caller. The currency
// defaults to the caller's preference.
func (l *Tally) CreateGroup(ctx context.Context, caller model.Principal, name, currency string) (model.TravelGroup, error) {
	ctx, span := tracer.Start(ctx, "CreateGroup")
	defer span.End()

	if err := model.ValidateName(name); err != nil {
		return model.TravelGroup{}, err
	}
	own, err := l.userProfile(ctx, caller)
	if err != nil {
		return model.TravelGroup{}, logAndRecordError(span, "failed to look up caller profile", err)
	}

	group, err := l.datasource.CreateGroup(ctx, model.TravelGroup{
		Owner:    caller,
		Name:     strings.TrimSpace(name),
		Currency: entryCurrency(currency, own),
	})
	if err != nil {
		return model.TravelGroup{}, logAndRecordError(span, "failed to create group", err)
	}
	l.invalidate(ctx, caller)
	return group, nil
}

func (l *Tally) GetGroups(ctx context.Context, caller model.Principal) ([]model.TravelGroup, error) {
	ctx, span := tracer.Start(ctx, "GetGroups")
	defer span.End()

	return cached(ctx, l.queries, caller, "groups", func(ctx context.Context) ([]model.TravelGroup, error) {
		return l.datasource.GetGroups(ctx, caller)
	})
}

func (l *Tally) GetGroup(ctx context.Context, caller model.Principal, id int64) (*model.TravelGroup, error) {
	ctx, span := tracer.Start(ctx, "GetGroup")
	defer span.End()

	return cached(ctx, l.queries, caller, fmt.Sprintf("group:%d", id), func(ctx context.Context) (*model.TravelGroup, error) {
		return l.datasource.GetGroup(ctx, caller, id)
	})
}

// DeleteGroup removes a group with its members and expenses.
func (l *Tally) DeleteGroup(ctx context.Context, caller model.Principal, id int64) error {
	ctx, span := tracer.Start(ctx, "DeleteGroup")
	defer span.End()

	if err := l.datasource.DeleteGroup(ctx, caller, id); err != nil {
		return logAndRecordError(span, "failed to delete group", err)
	}
	l.invalidate(ctx, caller)
	return nil
}

// AddMember adds a named member. Principal is optional and only links the
// member to a registered user.
func (l *Tally) AddMember(ctx context.Context, caller model.Principal, groupID int64, name, principal string) (model.GroupMember, error) {
	ctx, span := tracer.Start(ctx, "AddMember")
	defer span.End()

	member, err := newMember(name, principal)
	if err != nil {
		return model.GroupMember{}, err
	}
	if _, err := l.datasource.GetGroup(ctx, caller, groupID); err != nil {
		return model.GroupMember{}, err
	}

	member.GroupID = groupID
	member, err = l.datasource.AddMember(ctx, member)
	if err != nil {
		return model.GroupMember{}, logAndRecordError(span, "failed to add member", err)
	}
	l.invalidate(ctx, caller)
	return member, nil
}

func (l *Tally) UpdateMember(ctx context.Context, caller model.Principal, groupID, memberID int64, name, principal string) (model.GroupMember, error) {
	ctx, span := tracer.Start(ctx, "UpdateMember")
	defer span.End()

	member, err := newMember(name, principal)
	if err != nil {
		return model.GroupMember{}, err
	}
	group, err := l.datasource.GetGroup(ctx, caller, groupID)
	if err != nil {
		return model.GroupMember{}, err
	}
	existing, ok := findMember(group, memberID)
	if !ok {
		return model.GroupMember{}, memberNotFound(memberID)
	}

	existing.Name, existing.Principal = member.Name, member.Principal
	if err := l.datasource.UpdateMember(ctx, &existing); err != nil {
		return model.GroupMember{}, logAndRecordError(span, "failed to update member", err)
	}
	l.invalidate(ctx, caller)
	return existing, nil
}

// RemoveMember fails with a conflict while the member paid for an expense.
func (l *Tally) RemoveMember(ctx context.Context, caller model.Principal, groupID, memberID int64) error {
	ctx, span := tracer.Start(ctx, "RemoveMember")
	defer span.End()

	if _, err := l.datasource.GetGroup(ctx, caller, groupID); err != nil {
		return err
	}
	if err := l.datasource.RemoveMember(ctx, groupID, memberID); err != nil {
		return logAndRecordError(span, "failed to remove member", err)
	}
	l.invalidate(ctx, caller)
	return nil
}

// AddExpense records what one member paid for the whole group.
func (l *Tally) AddExpense(ctx context.Context, caller model.Principal, groupID int64, expense model.GroupExpense) (model.GroupExpense, error) {
	ctx, span := tracer.Start(ctx, "AddExpense")
	defer span.End()

	group, err := l.datasource.GetGroup(ctx, caller, groupID)
	if err != nil {
		return model.GroupExpense{}, err
	}
	expense.GroupID = groupID
	if err := prepareExpense(group, &expense); err != nil {
		return model.GroupExpense{}, err
	}

	expense, err = l.datasource.AddExpense(ctx, expense)
	if err != nil {
		return model.GroupExpense{}, logAndRecordError(span, "failed to add expense", err)
	}
	l.invalidate(ctx, caller)
	return expense, nil
}

func (l *Tally) EditExpense(ctx context.Context, caller model.Principal, groupID, expenseID int64, expense model.GroupExpense) (model.GroupExpense, error) {
	ctx, span := tracer.Start(ctx, "EditExpense")
	defer span.End()

	group, err := l.datasource.GetGroup(ctx, caller, groupID)
	if err != nil {
		return model.GroupExpense{}, err
	}
	existing, ok := findExpense(group, expenseID)
	if !ok {
		return model.GroupExpense{}, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Group expense with ID '%d' not found", expenseID), nil)
	}

	expense.ID, expense.GroupID, expense.CreatedAt = existing.ID, groupID, existing.CreatedAt
	if err := prepareExpense(group, &expense); err != nil {
		return model.GroupExpense{}, err
	}
	if err := l.datasource.UpdateExpense(ctx, &expense); err != nil {
		return model.GroupExpense{}, logAndRecordError(span, "failed to update expense", err)
	}
	l.invalidate(ctx, caller)
	return expense, nil
}

func (l *Tally) RemoveExpense(ctx context.Context, caller model.Principal, groupID, expenseID int64) error {
	ctx, span := tracer.Start(ctx, "RemoveExpense")
	defer span.End()

	if _, err := l.datasource.GetGroup(ctx, caller, groupID); err != nil {
		return err
	}
	if err := l.datasource.RemoveExpense(ctx, groupID, expenseID); err != nil {
		return logAndRecordError(span, "failed to remove expense", err)
	}
	l.invalidate(ctx, caller)
	return nil
}

// CalculateGroupBalance splits the group's expenses equally and lists the
// transfers that settle everyone.
func (l *Tally) CalculateGroupBalance(ctx context.Context, caller model.Principal, groupID int64) (model.GroupBalance, error) {
	group, err := l.GetGroup(ctx, caller, groupID)
	if err != nil {
		return model.GroupBalance{}, err
	}
	return model.CalculateGroupBalance(*group), nil
}

func newMember(name, principal string) (model.GroupMember, error) {
	if err := model.ValidateName(name); err != nil {
		return model.GroupMember{}, err
	}
	member := model.GroupMember{Name: strings.TrimSpace(name)}
	if strings.TrimSpace(principal) != "" {
		p, err := model.ParsePrincipal(principal)
		if err != nil {
			return model.GroupMember{}, apierror.Validation("member principal is not a valid principal")
		}
		member.Principal = p
	}
	return member, nil
}

func prepareExpense(group *model.TravelGroup, expense *model.GroupExpense) error {
	if expense.Amount <= 0 {
		return apierror.Validation("amount must be positive")
	}
	if _, ok := findMember(group, expense.PaidBy); !ok {
		return apierror.Validation("paid_by is not a member of the group")
	}
	expense.Description = strings.TrimSpace(expense.Description)
	expense.Currency = strings.ToUpper(strings.TrimSpace(expense.Currency))
	if expense.Currency == "" {
		expense.Currency = group.Currency
	}
	if expense.Date == 0 {
		expense.Date = model.TimestampOf(time.Now())
	}
	return nil
}

func findMember(group *model.TravelGroup, id int64) (model.GroupMember, bool) {
	for _, m := range group.Members {
		if m.ID == id {
			return m, true
		}
	}
	return model.GroupMember{}, false
}

func findExpense(group *model.TravelGroup, id int64) (model.GroupExpense, bool) {
	for _, e := range group.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return model.GroupExpense{}, false
}

func memberNotFound(id int64) error {
	return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Group member with ID '%d' not found", id), nil)
}
