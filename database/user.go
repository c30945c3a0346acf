package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/internal/cache"
	"github.com/tallyhq/tally/model"
)

const userCacheTTL = 5 * time.Minute

func userCacheKey(p model.Principal) string {
	return "user-profile:" + p.String()
}

func (d Datasource) SaveUserProfile(ctx context.Context, u model.UserProfile) (model.UserProfile, error) {
	now := time.Now().UTC()
	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO tally.user_profiles (principal, name, phone, country_code, currency_preference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (principal) DO UPDATE
		SET name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			country_code = EXCLUDED.country_code,
			currency_preference = EXCLUDED.currency_preference,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`, u.Principal.String(), u.Name, u.Phone, u.CountryCode, u.CurrencyPreference, now).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.UserProfile{}, mapWriteError(err, "User profile")
	}

	if d.Cache != nil {
		if err := d.Cache.Delete(ctx, userCacheKey(u.Principal)); err != nil {
			logrus.WithError(err).Warn("failed to evict cached user profile")
		}
	}
	return u, nil
}

func (d Datasource) GetUserProfile(ctx context.Context, principal model.Principal) (*model.UserProfile, error) {
	key := userCacheKey(principal)
	if d.Cache != nil {
		var cached model.UserProfile
		err := d.Cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logrus.WithError(err).Warn("user profile cache lookup failed")
		}
	}

	u := model.UserProfile{}
	var p string
	err := d.Conn.QueryRowContext(ctx, `
		SELECT principal, name, phone, country_code, currency_preference, created_at, updated_at
		FROM tally.user_profiles
		WHERE principal = $1
	`, principal.String()).Scan(&p, &u.Name, &u.Phone, &u.CountryCode, &u.CurrencyPreference, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "User profile not found", nil)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve user profile", err)
	}
	u.Principal = model.Principal(p)

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, key, u, userCacheTTL); err != nil {
			logrus.WithError(err).Warn("failed to cache user profile")
		}
	}
	return &u, nil
}
