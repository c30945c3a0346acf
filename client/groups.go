package client

import (
	"context"
	"fmt"
	"net/http"

	apimodel "github.com/tallyhq/tally/api/model"
	"github.com/tallyhq/tally/model"
)

func (c *Client) CreateGroup(ctx context.Context, req apimodel.GroupRequest) (model.TravelGroup, error) {
	if err := req.Validate(); err != nil {
		return model.TravelGroup{}, invalid(err)
	}
	var group model.TravelGroup
	err := c.mutate(ctx, http.MethodPost, "/groups", req, &group)
	return group, err
}

func (c *Client) GetGroups(ctx context.Context) ([]model.TravelGroup, error) {
	var groups []model.TravelGroup
	err := c.get(ctx, "/groups", nil, &groups)
	return groups, err
}

func (c *Client) GetGroup(ctx context.Context, id int64) (model.TravelGroup, error) {
	var group model.TravelGroup
	err := c.get(ctx, fmt.Sprintf("/groups/%d", id), nil, &group)
	return group, err
}

func (c *Client) DeleteGroup(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d", id), nil, nil)
}

func (c *Client) CalculateGroupBalance(ctx context.Context, id int64) (model.GroupBalance, error) {
	var balance model.GroupBalance
	err := c.get(ctx, fmt.Sprintf("/groups/%d/balance", id), nil, &balance)
	return balance, err
}

func (c *Client) AddMember(ctx context.Context, groupID int64, req apimodel.MemberRequest) (model.GroupMember, error) {
	if err := req.Validate(); err != nil {
		return model.GroupMember{}, invalid(err)
	}
	var member model.GroupMember
	err := c.mutate(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/members", groupID), req, &member)
	return member, err
}

func (c *Client) UpdateMember(ctx context.Context, groupID, memberID int64, req apimodel.MemberRequest) (model.GroupMember, error) {
	if err := req.Validate(); err != nil {
		return model.GroupMember{}, invalid(err)
	}
	var member model.GroupMember
	err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/groups/%d/members/%d", groupID, memberID), req, &member)
	return member, err
}

func (c *Client) RemoveMember(ctx context.Context, groupID, memberID int64) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d/members/%d", groupID, memberID), nil, nil)
}

func (c *Client) AddExpense(ctx context.Context, groupID int64, req apimodel.ExpenseRequest) (model.GroupExpense, error) {
	if err := req.Validate(); err != nil {
		return model.GroupExpense{}, invalid(err)
	}
	var expense model.GroupExpense
	err := c.mutate(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/expenses", groupID), req, &expense)
	return expense, err
}

func (c *Client) EditExpense(ctx context.Context, groupID, expenseID int64, req apimodel.ExpenseRequest) (model.GroupExpense, error) {
	if err := req.Validate(); err != nil {
		return model.GroupExpense{}, invalid(err)
	}
	var expense model.GroupExpense
	err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/groups/%d/expenses/%d", groupID, expenseID), req, &expense)
	return expense, err
}

func (c *Client) RemoveExpense(ctx context.Context, groupID, expenseID int64) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d/expenses/%d", groupID, expenseID), nil, nil)
}
