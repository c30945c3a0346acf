package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/internal/cache"
	"github.com/tallyhq/tally/model"
)

var userRowColumns = []string{"principal", "name", "phone", "country_code", "currency_preference", "created_at", "updated_at"}

func TestSaveUserProfile(t *testing.T) {
	ds, mock := newMockDatasource(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO tally.user_profiles").
		WithArgs(alice.String(), "Alice", "555", "IN", "INR", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	u, err := ds.SaveUserProfile(context.Background(), model.UserProfile{
		Principal: alice, Name: "Alice", Phone: "555", CountryCode: "IN", CurrencyPreference: "INR",
	})
	require.NoError(t, err)
	assert.True(t, now.Equal(u.CreatedAt))
}

func TestGetUserProfile_NotFound(t *testing.T) {
	ds, mock := newMockDatasource(t)

	mock.ExpectQuery("FROM tally.user_profiles").
		WithArgs(bob.String()).
		WillReturnError(sql.ErrNoRows)

	_, err := ds.GetUserProfile(context.Background(), bob)
	assertCode(t, err, apierror.ErrNotFound)
}

func TestGetUserProfile_UsesCache(t *testing.T) {
	ds, mock := newMockDatasource(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ds.Cache = cache.NewRedisCache(client, 0)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery("FROM tally.user_profiles").
		WithArgs(alice.String()).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(alice.String(), "Alice", "", "", "USD", now, now))

	first, err := ds.GetUserProfile(context.Background(), alice)
	require.NoError(t, err)
	assert.True(t, mr.Exists(userCacheKey(alice)))

	// served from the cache, no second query expected
	second, err := ds.GetUserProfile(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Principal, second.Principal)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	mock.ExpectQuery("INSERT INTO tally.user_profiles").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	_, err = ds.SaveUserProfile(context.Background(), model.UserProfile{Principal: alice, Name: "Alice B"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(userCacheKey(alice)))
}
