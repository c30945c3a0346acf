package model

import (
	"strings"
	"time"

	"github.com/tallyhq/tally/internal/apierror"
)

// PersonProfile is someone the owner lends to or borrows from.
type PersonProfile struct {
	ID              int64      `json:"id"`
	Owner           Principal  `json:"owner"`
	Name            string     `json:"name"`
	ApprovalStatus  bool       `json:"approval_status"`
	LinkedPrincipal Principal  `json:"linked_principal,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `json:"-"`
}

// UserProfile is the caller's own profile. Saving one registers the caller.
type UserProfile struct {
	Principal          Principal `json:"principal"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone,omitempty"`
	CountryCode        string    `json:"country_code,omitempty"`
	CurrencyPreference string    `json:"currency_preference,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apierror.Validation("name is required")
	}
	return nil
}

// CheckSettlement guards the approval flag: a profile may only be marked
// settled when nothing remains due on it. Clearing the flag is always allowed.
func CheckSettlement(summary BalanceSummary, approve bool) error {
	if approve && !summary.IsSettled() {
		return apierror.Invariant("balance must be zero")
	}
	return nil
}
