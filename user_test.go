package tally

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/model"
)

func TestSaveCallerUserProfile(t *testing.T) {
	tt := newTestTally(t, false)
	ctx := context.Background()
	gbp := model.UserProfile{Principal: alice, Name: "Alice", CountryCode: "GB", CurrencyPreference: "GBP"}
	jpy := model.UserProfile{Principal: alice, Name: "Alice", CountryCode: "GB", CurrencyPreference: "JPY"}
	tt.ds.On("SaveUserProfile", anyCtx, gbp).Return(gbp, nil)
	tt.ds.On("SaveUserProfile", anyCtx, jpy).Return(jpy, nil)

	saved, err := tt.SaveCallerUserProfile(ctx, alice, model.UserProfile{Name: " Alice ", CountryCode: "gb"})
	require.NoError(t, err)
	assert.Equal(t, alice, saved.Principal)
	assert.Equal(t, "Alice", saved.Name)
	assert.Equal(t, "GB", saved.CountryCode)
	assert.Equal(t, "GBP", saved.CurrencyPreference)

	saved, err = tt.SaveCallerUserProfile(ctx, alice, model.UserProfile{Name: "Alice", CountryCode: "GB", CurrencyPreference: "jpy"})
	require.NoError(t, err)
	assert.Equal(t, "JPY", saved.CurrencyPreference)

	_, err = tt.SaveCallerUserProfile(ctx, alice, model.UserProfile{Name: "Alice", CurrencyPreference: "XYZ"})
	requireCode(t, err, apierror.ErrInvalidInput)

	_, err = tt.SaveCallerUserProfile(ctx, alice, model.UserProfile{})
	requireCode(t, err, apierror.ErrInvalidInput)
	tt.ds.AssertNumberOfCalls(t, "SaveUserProfile", 2)
}

func TestGetCallerUserProfile(t *testing.T) {
	tt := newTestTally(t, false)
	tt.ds.On("GetUserProfile", anyCtx, bob).Return(nil, notFound())

	_, err := tt.GetCallerUserProfile(context.Background(), bob)
	requireCode(t, err, apierror.ErrNotFound)
}
