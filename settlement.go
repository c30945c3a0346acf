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
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/internal/notification"
	"github.com/tallyhq/tally/model"
)

// SetApprovalStatus marks a profile as settled or clears the mark. Marking
// fails with an invariant violation while anything remains due.
func (l *Tally) SetApprovalStatus(ctx context.Context, caller model.Principal, personID int64, approve bool) (*model.PersonProfile, error) {
	ctx, span := tracer.Start(ctx, "SetApprovalStatus")
	defer span.End()

	unlock, err := l.lock(ctx, personLockKey(personID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	person, err := l.datasource.GetPerson(ctx, caller, personID)
	if err != nil {
		return nil, err
	}

	// clearing the mark is unconditional, only marking looks at the balance
	var summary model.BalanceSummary
	if approve {
		entries, err := l.datasource.GetEntriesByPerson(ctx, caller, personID)
		if err != nil {
			return nil, logAndRecordError(span, "failed to load entries", err)
		}
		summary = model.Summarize(entries)
		if err := model.CheckSettlement(summary, approve); err != nil {
			l.metrics.Settlement("refused")
			return nil, err
		}
	}
	if err := l.datasource.SetApprovalStatus(ctx, caller, personID, approve); err != nil {
		return nil, logAndRecordError(span, "failed to set approval status", err)
	}
	person.ApprovalStatus = approve
	l.invalidate(ctx, caller)

	if approve {
		l.metrics.Settlement("settled")
		l.sendWebhook(ctx, EventPersonSettled, map[string]interface{}{
			"person":  person,
			"balance": summary,
		})
	} else {
		l.metrics.Settlement("cleared")
	}
	return person, nil
}

// SettlementCheck names a profile whose settled mark must be checked against
// its balance.
type SettlementCheck struct {
	Owner    model.Principal `json:"owner"`
	PersonID int64           `json:"person_id"`
}

// reconcileSettlement clears the settled mark of a profile whose approved
// entries no longer balance. It runs after every change to the approved set
// of a profile and only reports its own failures. When the profile is busy
// the check is handed to the workers.
func (l *Tally) reconcileSettlement(ctx context.Context, owner model.Principal, personID int64) {
	unlock, err := l.lock(ctx, personLockKey(personID))
	if err != nil {
		l.deferSettlementCheck(ctx, SettlementCheck{Owner: owner, PersonID: personID}, err)
		return
	}
	defer unlock()

	if err := l.clearStaleSettlement(ctx, owner, personID); err != nil {
		notification.NotifyError(fmt.Errorf("settlement check for person %d: %w", personID, err))
	}
}

func (l *Tally) deferSettlementCheck(ctx context.Context, check SettlementCheck, cause error) {
	if l.checks == nil {
		notification.NotifyError(fmt.Errorf("settlement check for person %d: %w", check.PersonID, cause))
		return
	}
	if err := l.checks.ScheduleSettlementCheck(ctx, check); err != nil {
		notification.NotifyError(fmt.Errorf("settlement check for person %d not queued: %w", check.PersonID, err))
		return
	}
	logrus.WithField("person", check.PersonID).Info("profile busy, settlement check queued")
}

// clearStaleSettlement does the work of a settlement check. The caller holds
// the profile lock.
func (l *Tally) clearStaleSettlement(ctx context.Context, owner model.Principal, personID int64) error {
	person, err := l.datasource.GetPerson(ctx, owner, personID)
	if apierror.Is(err, apierror.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !person.ApprovalStatus {
		return nil
	}

	entries, err := l.datasource.GetEntriesByPerson(ctx, owner, personID)
	if err != nil {
		return err
	}
	if model.Summarize(entries).IsSettled() {
		return nil
	}

	if err := l.datasource.SetApprovalStatus(ctx, owner, personID, false); err != nil {
		return err
	}
	logrus.WithField("person", personID).Info("balance moved, approval status cleared")
	l.metrics.Settlement("reopened")
	l.invalidate(ctx, owner)
	return nil
}

// ProcessSettlementCheck is the asynq handler for deferred settlement
// checks. A busy profile returns an error so asynq retries the task.
func (l *Tally) ProcessSettlementCheck(ctx context.Context, task *asynq.Task) error {
	var check SettlementCheck
	if err := json.Unmarshal(task.Payload(), &check); err != nil {
		return fmt.Errorf("invalid settlement check payload: %v: %w", err, asynq.SkipRetry)
	}

	unlock, err := l.lock(ctx, personLockKey(check.PersonID))
	if err != nil {
		return err
	}
	defer unlock()
	return l.clearStaleSettlement(ctx, check.Owner, check.PersonID)
}
