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

package tally

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/model"
)

const defaultCurrency = "USD"

// EntryInput is a new ledger entry as the caller describes it. Counterparty
// is the principal text, empty for a note to self.
type EntryInput struct {
	TransactionType model.TransactionType
	Amount          int64
	Currency        string
	Date            model.Timestamp
	Description     string
	Counterparty    string
}

func (in EntryInput) validate() error {
	if in.TransactionType != model.Debit && in.TransactionType != model.Credit {
		return apierror.Validation("transaction type must be debit or credit")
	}
	if in.Amount <= 0 {
		return apierror.Validation("amount must be positive")
	}
	return nil
}

// userProfile returns the registered profile of p, or nil when p never
// registered.
func (l *Tally) userProfile(ctx context.Context, p model.Principal) (*model.UserProfile, error) {
	profile, err := l.datasource.GetUserProfile(ctx, p)
	if err != nil {
		if apierror.Is(err, apierror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// AddLedgerEntry records an entry on one of the caller's profiles. A note to
// self is approved at once. An entry naming a registered counterparty is
// pending and gets a mirrored pending entry on the counterparty's books.
func (l *Tally) AddLedgerEntry(ctx context.Context, caller model.Principal, personID int64, in EntryInput) (model.LedgerEntry, error) {
	ctx, span := tracer.Start(ctx, "AddLedgerEntry")
	defer span.End()

	if err := in.validate(); err != nil {
		return model.LedgerEntry{}, err
	}
	counterparty, err := model.NormalizeCounterparty(in.Counterparty)
	if err != nil {
		return model.LedgerEntry{}, apierror.Validation("counterparty is not a valid principal")
	}
	if counterparty == caller {
		return model.LedgerEntry{}, apierror.Validation("counterparty cannot be the caller")
	}

	person, err := l.datasource.GetPerson(ctx, caller, personID)
	if err != nil {
		return model.LedgerEntry{}, err
	}

	if !counterparty.IsAnonymous() {
		registered, err := l.userProfile(ctx, counterparty)
		if err != nil {
			return model.LedgerEntry{}, logAndRecordError(span, "failed to look up counterparty", err)
		}
		if registered == nil {
			return model.LedgerEntry{}, apierror.Authorization("counterparty is not a registered user")
		}
	}

	own, err := l.userProfile(ctx, caller)
	if err != nil {
		return model.LedgerEntry{}, logAndRecordError(span, "failed to look up caller profile", err)
	}

	entry := model.LedgerEntry{
		PersonID:        person.ID,
		Owner:           caller,
		CreatedBy:       caller,
		TransactionType: in.TransactionType,
		Status:          model.InitialStatus(counterparty),
		Amount:          in.Amount,
		Currency:        entryCurrency(in.Currency, own),
		Date:            in.Date,
		Description:     strings.TrimSpace(in.Description),
		Counterparty:    counterparty,
	}
	if entry.Date == 0 {
		entry.Date = model.TimestampOf(time.Now())
	}

	if entry.IsSelfNote() {
		entry, err = l.datasource.RecordEntry(ctx, entry)
		if err != nil {
			return model.LedgerEntry{}, logAndRecordError(span, "failed to record entry", err)
		}
		l.invalidate(ctx, caller)
		l.reconcileSettlement(ctx, caller, person.ID)
	} else {
		mirrorName := caller.String()
		if own != nil && strings.TrimSpace(own.Name) != "" {
			mirrorName = own.Name
		}
		entry, _, err = l.datasource.RecordEntryPair(ctx, entry, mirrorName)
		if err != nil {
			return model.LedgerEntry{}, logAndRecordError(span, "failed to record entry pair", err)
		}
		l.invalidate(ctx, caller, counterparty)
	}

	l.metrics.EntryCreated(entry)
	l.sendWebhook(ctx, EventEntryCreated, newEntryEvent(entry))
	return entry, nil
}

// entryCurrency picks the currency of a new entry: the one given, else the
// caller's preference, else USD.
func entryCurrency(given string, own *model.UserProfile) string {
	if code := strings.ToUpper(strings.TrimSpace(given)); code != "" {
		return code
	}
	if own != nil && own.CurrencyPreference != "" {
		return own.CurrencyPreference
	}
	return defaultCurrency
}

// ApproveLedgerEntry accepts an entry someone else recorded against the
// caller. Both sides of the pair become approved together.
func (l *Tally) ApproveLedgerEntry(ctx context.Context, caller model.Principal, id int64) (model.LedgerEntry, error) {
	return l.decide(ctx, caller, id, model.StatusApproved)
}

// RejectLedgerEntry refuses an entry someone else recorded against the
// caller. Both sides of the pair become rejected together.
func (l *Tally) RejectLedgerEntry(ctx context.Context, caller model.Principal, id int64) (model.LedgerEntry, error) {
	return l.decide(ctx, caller, id, model.StatusRejected)
}

func (l *Tally) decide(ctx context.Context, caller model.Principal, id int64, to model.LedgerStatus) (model.LedgerEntry, error) {
	ctx, span := tracer.Start(ctx, "DecideLedgerEntry")
	defer span.End()

	entry, err := l.datasource.GetEntry(ctx, id)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	if caller != entry.Owner && caller != entry.Counterparty {
		return model.LedgerEntry{}, apierror.Authorization("caller is not a party to this entry")
	}
	if caller == entry.CreatedBy {
		return model.LedgerEntry{}, apierror.Authorization("an entry cannot be approved or rejected by its creator")
	}

	unlock, err := l.lock(ctx, entryLockKey(*entry))
	if err != nil {
		return model.LedgerEntry{}, err
	}
	defer unlock()

	updated, err := model.Transition(*entry, to)
	if err != nil {
		return model.LedgerEntry{}, err
	}

	ids := []int64{entry.ID}
	var counterpart *model.LedgerEntry
	if entry.CounterpartID != nil {
		counterpart, err = l.datasource.GetEntry(ctx, *entry.CounterpartID)
		if err != nil {
			return model.LedgerEntry{}, logAndRecordError(span, "failed to load counterpart entry", err)
		}
		ids = append(ids, counterpart.ID)
	}

	if err := l.datasource.UpdateEntryStatus(ctx, ids, entry.Status, to); err != nil {
		return model.LedgerEntry{}, logAndRecordError(span, "failed to update entry status", err)
	}
	updated.UpdatedAt = time.Now().UTC()
	l.metrics.Transitioned(to, len(ids))
	l.invalidate(ctx, entry.Owner, entry.Counterparty)

	if to == model.StatusApproved {
		l.reconcileSettlement(ctx, entry.Owner, entry.PersonID)
		if counterpart != nil {
			l.reconcileSettlement(ctx, counterpart.Owner, counterpart.PersonID)
		}
	}

	l.sendWebhook(ctx, getEventFromStatus(to), newEntryEvent(updated))
	return updated, nil
}

// ArchiveEntry takes an approved entry out of the live balance of the
// caller's profile. Only the caller's own side is archived.
func (l *Tally) ArchiveEntry(ctx context.Context, caller model.Principal, id int64) (model.LedgerEntry, error) {
	ctx, span := tracer.Start(ctx, "ArchiveEntry")
	defer span.End()

	entry, err := l.datasource.GetEntry(ctx, id)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	return l.archive(ctx, caller, *entry)
}

// MarkAsRepaid archives an approved debit once the money came back.
func (l *Tally) MarkAsRepaid(ctx context.Context, caller model.Principal, id int64) (model.LedgerEntry, error) {
	ctx, span := tracer.Start(ctx, "MarkAsRepaid")
	defer span.End()

	entry, err := l.datasource.GetEntry(ctx, id)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	if entry.Owner == caller && entry.TransactionType != model.Debit {
		return model.LedgerEntry{}, apierror.Validation("only a debit can be marked as repaid")
	}
	return l.archive(ctx, caller, *entry)
}

func (l *Tally) archive(ctx context.Context, caller model.Principal, entry model.LedgerEntry) (model.LedgerEntry, error) {
	if entry.Owner != caller {
		return model.LedgerEntry{}, apierror.Authorization("only the owner can archive an entry")
	}

	unlock, err := l.lock(ctx, entryLockKey(entry))
	if err != nil {
		return model.LedgerEntry{}, err
	}
	defer unlock()

	updated, err := model.Archive(entry)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	if err := l.datasource.UpdateEntryStatus(ctx, []int64{entry.ID}, entry.Status, model.StatusArchived); err != nil {
		logrus.WithError(err).WithField("entry", entry.ID).Error("failed to archive entry")
		return model.LedgerEntry{}, err
	}
	updated.UpdatedAt = time.Now().UTC()
	l.metrics.Transitioned(model.StatusArchived, 1)
	l.invalidate(ctx, caller)
	l.reconcileSettlement(ctx, caller, entry.PersonID)

	l.sendWebhook(ctx, EventEntryArchived, newEntryEvent(updated))
	return updated, nil
}

// GetPendingEntries lists the entries waiting for the caller's decision.
func (l *Tally) GetPendingEntries(ctx context.Context, caller model.Principal) ([]model.LedgerEntry, error) {
	ctx, span := tracer.Start(ctx, "GetPendingEntries")
	defer span.End()

	return cached(ctx, l.queries, caller, "entries:pending", func(ctx context.Context) ([]model.LedgerEntry, error) {
		return l.datasource.GetPendingEntries(ctx, caller)
	})
}
