package model

import (
	"fmt"
	"time"

	"github.com/tallyhq/tally/internal/apierror"
)

// transitions lists the only status moves an entry may make.
var transitions = map[LedgerStatus][]LedgerStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusArchived},
}

func CanTransition(from, to LedgerStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition returns a copy of entry moved to status to. The input is left
// untouched. Illegal moves return an invariant violation.
func Transition(entry LedgerEntry, to LedgerStatus) (LedgerEntry, error) {
	if !CanTransition(entry.Status, to) {
		return entry, apierror.Invariant(fmt.Sprintf("cannot move entry %d from %s to %s", entry.ID, entry.Status, to))
	}
	next := entry
	next.Status = to
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}

func Approve(entry LedgerEntry) (LedgerEntry, error) {
	return Transition(entry, StatusApproved)
}

func Reject(entry LedgerEntry) (LedgerEntry, error) {
	return Transition(entry, StatusRejected)
}

func Archive(entry LedgerEntry) (LedgerEntry, error) {
	return Transition(entry, StatusArchived)
}
