package model

import (
	"fmt"
	"strings"
	"time"
)

type TransactionType string

const (
	// Debit is money the book owner lent out.
	Debit TransactionType = "debit"
	// Credit is money the book owner received or was repaid.
	Credit TransactionType = "credit"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case Debit:
		return Debit, nil
	case Credit:
		return Credit, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Opposite is the type the same movement of money has on the other party's book.
func (t TransactionType) Opposite() TransactionType {
	if t == Debit {
		return Credit
	}
	return Debit
}

type LedgerStatus string

const (
	StatusPending  LedgerStatus = "pending"
	StatusApproved LedgerStatus = "approved"
	StatusRejected LedgerStatus = "rejected"
	StatusArchived LedgerStatus = "archived"
)

func (s LedgerStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusArchived
}

// Timestamp is a point in time in nanoseconds since the unix epoch.
type Timestamp int64

func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(0, int64(ts)).UTC()
}

// LedgerEntry is one line on a person's book. Only Status ever changes after
// the entry is recorded.
type LedgerEntry struct {
	ID              int64           `json:"id"`
	PersonID        int64           `json:"person_id"`
	Owner           Principal       `json:"owner"`
	CreatedBy       Principal       `json:"created_by"`
	TransactionType TransactionType `json:"transaction_type"`
	Status          LedgerStatus    `json:"status"`
	Amount          int64           `json:"amount"`
	Currency        string          `json:"currency"`
	Date            Timestamp       `json:"date"`
	Description     string          `json:"description"`
	Counterparty    Principal       `json:"counterparty"`
	CounterpartID   *int64          `json:"counterpart_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// IsSelfNote reports whether the entry was recorded without a counterparty.
func (e LedgerEntry) IsSelfNote() bool {
	return e.Counterparty == "" || e.Counterparty.IsAnonymous()
}

// InitialStatus is the status an entry is created with: self notes count
// immediately, collaborative entries wait for the counterparty.
func InitialStatus(counterparty Principal) LedgerStatus {
	if counterparty == "" || counterparty.IsAnonymous() {
		return StatusApproved
	}
	return StatusPending
}

// Mirror builds the counterparty's side of a collaborative entry.
func (e LedgerEntry) Mirror(personID int64) LedgerEntry {
	return LedgerEntry{
		PersonID:        personID,
		Owner:           e.Counterparty,
		CreatedBy:       e.CreatedBy,
		TransactionType: e.TransactionType.Opposite(),
		Status:          e.Status,
		Amount:          e.Amount,
		Currency:        e.Currency,
		Date:            e.Date,
		Description:     e.Description,
		Counterparty:    e.Owner,
	}
}

// ResetSummary reports what a dashboard reset touched.
type ResetSummary struct {
	Rejected        int64 `json:"rejected"`
	Archived        int64 `json:"archived"`
	ProfilesRemoved int64 `json:"profiles_removed"`
	// Counterparties holds the other party of every rejected entry,
	// including entries on profiles removed earlier.
	Counterparties []Principal `json:"-"`
}
