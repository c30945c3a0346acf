package tally

import (
	"context"
	"strings"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/model"
)

// GetCallerUserProfile returns the caller's own profile.
func (l *Tally) GetCallerUserProfile(ctx context.Context, caller model.Principal) (*model.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "GetCallerUserProfile")
	defer span.End()

	return l.datasource.GetUserProfile(ctx, caller)
}

// SaveCallerUserProfile registers the caller or updates their profile. The
// currency preference defaults to the currency of the country.
func (l *Tally) SaveCallerUserProfile(ctx context.Context, caller model.Principal, profile model.UserProfile) (model.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "SaveCallerUserProfile")
	defer span.End()

	if err := model.ValidateName(profile.Name); err != nil {
		return model.UserProfile{}, err
	}
	profile.Principal = caller
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Phone = strings.TrimSpace(profile.Phone)
	profile.CountryCode = strings.ToUpper(strings.TrimSpace(profile.CountryCode))
	profile.CurrencyPreference = strings.ToUpper(strings.TrimSpace(profile.CurrencyPreference))

	switch {
	case profile.CurrencyPreference != "":
		if _, ok := model.LookupCurrency(profile.CurrencyPreference); !ok {
			return model.UserProfile{}, apierror.Validation("unsupported currency " + profile.CurrencyPreference)
		}
	case profile.CountryCode != "":
		if currency, ok := model.CurrencyForCountry(profile.CountryCode); ok {
			profile.CurrencyPreference = currency.Code
		}
	}

	saved, err := l.datasource.SaveUserProfile(ctx, profile)
	if err != nil {
		return model.UserProfile{}, logAndRecordError(span, "failed to save user profile", err)
	}
	l.invalidate(ctx, caller)
	return saved, nil
}
