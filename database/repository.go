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

	"github.com/tallyhq/tally/model"
)

// IDataSource is everything the ledger needs from storage.
type IDataSource interface {
	person
	entry
	user
	group
}

// person holds profile operations. Every lookup is scoped to the owner.
type person interface {
	CreatePerson(ctx context.Context, p model.PersonProfile) (model.PersonProfile, error)
	GetPerson(ctx context.Context, owner model.Principal, id int64) (*model.PersonProfile, error)
	GetPeople(ctx context.Context, owner model.Principal) ([]model.PersonProfile, error)
	UpdatePerson(ctx context.Context, p *model.PersonProfile) error
	SetApprovalStatus(ctx context.Context, owner model.Principal, id int64, approved bool) error
	DeletePerson(ctx context.Context, owner model.Principal, id int64) error
}

// entry holds ledger entry operations. Entries are never deleted and only
// their status changes.
type entry interface {
	RecordEntry(ctx context.Context, e model.LedgerEntry) (model.LedgerEntry, error)
	RecordEntryPair(ctx context.Context, e model.LedgerEntry, mirrorPersonName string) (model.LedgerEntry, model.LedgerEntry, error)
	GetEntry(ctx context.Context, id int64) (*model.LedgerEntry, error)
	GetEntriesByPerson(ctx context.Context, owner model.Principal, personID int64) ([]model.LedgerEntry, error)
	GetEntriesByOwner(ctx context.Context, owner model.Principal) ([]model.LedgerEntry, error)
	GetPendingEntries(ctx context.Context, principal model.Principal) ([]model.LedgerEntry, error)
	UpdateEntryStatus(ctx context.Context, ids []int64, from, to model.LedgerStatus) error
	ResetOwner(ctx context.Context, owner model.Principal) (model.ResetSummary, error)
}

type user interface {
	SaveUserProfile(ctx context.Context, u model.UserProfile) (model.UserProfile, error)
	GetUserProfile(ctx context.Context, principal model.Principal) (*model.UserProfile, error)
}

type group interface {
	CreateGroup(ctx context.Context, g model.TravelGroup) (model.TravelGroup, error)
	GetGroups(ctx context.Context, owner model.Principal) ([]model.TravelGroup, error)
	GetGroup(ctx context.Context, owner model.Principal, id int64) (*model.TravelGroup, error)
	DeleteGroup(ctx context.Context, owner model.Principal, id int64) error
	AddMember(ctx context.Context, m model.GroupMember) (model.GroupMember, error)
	UpdateMember(ctx context.Context, m *model.GroupMember) error
	RemoveMember(ctx context.Context, groupID, memberID int64) error
	AddExpense(ctx context.Context, e model.GroupExpense) (model.GroupExpense, error)
	UpdateExpense(ctx context.Context, e *model.GroupExpense) error
	RemoveExpense(ctx context.Context, groupID, expenseID int64) error
}
