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
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tallyhq/tally/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Person methods

func (m *MockDataSource) CreatePerson(ctx context.Context, p model.PersonProfile) (model.PersonProfile, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.PersonProfile), args.Error(1)
}

func (m *MockDataSource) GetPerson(ctx context.Context, owner model.Principal, id int64) (*model.PersonProfile, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PersonProfile), args.Error(1)
}

func (m *MockDataSource) GetPeople(ctx context.Context, owner model.Principal) ([]model.PersonProfile, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]model.PersonProfile), args.Error(1)
}

func (m *MockDataSource) UpdatePerson(ctx context.Context, p *model.PersonProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockDataSource) SetApprovalStatus(ctx context.Context, owner model.Principal, id int64, approved bool) error {
	args := m.Called(ctx, owner, id, approved)
	return args.Error(0)
}

func (m *MockDataSource) DeletePerson(ctx context.Context, owner model.Principal, id int64) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

// Entry methods

func (m *MockDataSource) RecordEntry(ctx context.Context, e model.LedgerEntry) (model.LedgerEntry, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(model.LedgerEntry), args.Error(1)
}

func (m *MockDataSource) RecordEntryPair(ctx context.Context, e model.LedgerEntry, mirrorPersonName string) (model.LedgerEntry, model.LedgerEntry, error) {
	args := m.Called(ctx, e, mirrorPersonName)
	return args.Get(0).(model.LedgerEntry), args.Get(1).(model.LedgerEntry), args.Error(2)
}

func (m *MockDataSource) GetEntry(ctx context.Context, id int64) (*model.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerEntry), args.Error(1)
}

func (m *MockDataSource) GetEntriesByPerson(ctx context.Context, owner model.Principal, personID int64) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, owner, personID)
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}

func (m *MockDataSource) GetEntriesByOwner(ctx context.Context, owner model.Principal) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}

func (m *MockDataSource) GetPendingEntries(ctx context.Context, principal model.Principal) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}

func (m *MockDataSource) UpdateEntryStatus(ctx context.Context, ids []int64, from, to model.LedgerStatus) error {
	args := m.Called(ctx, ids, from, to)
	return args.Error(0)
}

func (m *MockDataSource) ResetOwner(ctx context.Context, owner model.Principal) (model.ResetSummary, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(model.ResetSummary), args.Error(1)
}

// User methods

func (m *MockDataSource) SaveUserProfile(ctx context.Context, u model.UserProfile) (model.UserProfile, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.UserProfile), args.Error(1)
}

func (m *MockDataSource) GetUserProfile(ctx context.Context, principal model.Principal) (*model.UserProfile, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

// Group methods

func (m *MockDataSource) CreateGroup(ctx context.Context, g model.TravelGroup) (model.TravelGroup, error) {
	args := m.Called(ctx, g)
	return args.Get(0).(model.TravelGroup), args.Error(1)
}

func (m *MockDataSource) GetGroups(ctx context.Context, owner model.Principal) ([]model.TravelGroup, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]model.TravelGroup), args.Error(1)
}

func (m *MockDataSource) GetGroup(ctx context.Context, owner model.Principal, id int64) (*model.TravelGroup, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TravelGroup), args.Error(1)
}

func (m *MockDataSource) DeleteGroup(ctx context.Context, owner model.Principal, id int64) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

func (m *MockDataSource) AddMember(ctx context.Context, gm model.GroupMember) (model.GroupMember, error) {
	args := m.Called(ctx, gm)
	return args.Get(0).(model.GroupMember), args.Error(1)
}

func (m *MockDataSource) UpdateMember(ctx context.Context, gm *model.GroupMember) error {
	args := m.Called(ctx, gm)
	return args.Error(0)
}

func (m *MockDataSource) RemoveMember(ctx context.Context, groupID, memberID int64) error {
	args := m.Called(ctx, groupID, memberID)
	return args.Error(0)
}

func (m *MockDataSource) AddExpense(ctx context.Context, e model.GroupExpense) (model.GroupExpense, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(model.GroupExpense), args.Error(1)
}

func (m *MockDataSource) UpdateExpense(ctx context.Context, e *model.GroupExpense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockDataSource) RemoveExpense(ctx context.Context, groupID, expenseID int64) error {
	args := m.Called(ctx, groupID, expenseID)
	return args.Error(0)
}
