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
package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tallyhq/tally/model"
)

// PersonRequest creates or renames a person profile.
type PersonRequest struct {
	Name string `json:"name"`
}

type ApprovalRequest struct {
	ApprovalStatus *bool `json:"approval_status"`
}

// CreateEntry records a ledger entry. Amount is in minor units and Date in
// nanoseconds; a zero Date means now. An empty Counterparty makes the entry
// a note to self.
type CreateEntry struct {
	TransactionType string `json:"transaction_type"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency,omitempty"`
	Date            int64  `json:"date,omitempty"`
	Description     string `json:"description,omitempty"`
	Counterparty    string `json:"counterparty,omitempty"`
}

// EntryCreated is the reply to CreateEntry.
type EntryCreated struct {
	ID            int64  `json:"id"`
	CounterpartID *int64 `json:"counterpart_id"`
}

type UserProfileRequest struct {
	Name               string `json:"name"`
	Phone              string `json:"phone,omitempty"`
	CountryCode        string `json:"country_code,omitempty"`
	CurrencyPreference string `json:"currency_preference,omitempty"`
}

type GroupRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
}

type MemberRequest struct {
	Name      string `json:"name"`
	Principal string `json:"principal,omitempty"`
}

type ExpenseRequest struct {
	PaidBy      int64  `json:"paid_by"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Description string `json:"description,omitempty"`
	Date        int64  `json:"date,omitempty"`
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// principalOrBlank accepts an empty value or a well formed principal.
func principalOrBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := model.ParsePrincipal(s); err != nil {
		return errors.New("must be a valid principal")
	}
	return nil
}

var currencyCode = validation.Length(3, 3).Error("must be a three letter currency code")

func (p *PersonRequest) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.By(notBlank), validation.Length(0, 120)),
	)
}

func (a *ApprovalRequest) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.ApprovalStatus, validation.NotNil),
	)
}

func (e *CreateEntry) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.TransactionType, validation.Required, validation.In(string(model.Debit), string(model.Credit))),
		validation.Field(&e.Amount, validation.Required, validation.Min(int64(1)).Error("must be positive")),
		validation.Field(&e.Currency, currencyCode),
		validation.Field(&e.Date, validation.Min(int64(0))),
		validation.Field(&e.Description, validation.Length(0, 500)),
		validation.Field(&e.Counterparty, validation.By(principalOrBlank)),
	)
}

func (u *UserProfileRequest) Validate() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Name, validation.By(notBlank), validation.Length(0, 120)),
		validation.Field(&u.CountryCode, validation.Length(2, 2)),
		validation.Field(&u.CurrencyPreference, currencyCode),
	)
}

func (g *GroupRequest) Validate() error {
	return validation.ValidateStruct(g,
		validation.Field(&g.Name, validation.By(notBlank)),
		validation.Field(&g.Currency, currencyCode),
	)
}

func (m *MemberRequest) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Name, validation.By(notBlank)),
		validation.Field(&m.Principal, validation.By(principalOrBlank)),
	)
}

func (e *ExpenseRequest) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.PaidBy, validation.Required),
		validation.Field(&e.Amount, validation.Required, validation.Min(int64(1)).Error("must be positive")),
		validation.Field(&e.Currency, currencyCode),
		validation.Field(&e.Date, validation.Min(int64(0))),
	)
}

func (u *UserProfileRequest) ToUserProfile() model.UserProfile {
	return model.UserProfile{
		Name:               u.Name,
		Phone:              u.Phone,
		CountryCode:        u.CountryCode,
		CurrencyPreference: u.CurrencyPreference,
	}
}

func (e *ExpenseRequest) ToGroupExpense() model.GroupExpense {
	return model.GroupExpense{
		PaidBy:      e.PaidBy,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Description: e.Description,
		Date:        model.Timestamp(e.Date),
	}
}
