package redis_db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		addr     string
		password string
		tls      bool
	}{
		{name: "docker style", url: "redis:6379", addr: "redis:6379"},
		{name: "url with password", url: "redis://:secret@localhost:6379", addr: "localhost:6379", password: "secret"},
		{name: "bare password", url: "redis://secret@localhost:6379", addr: "localhost:6379", password: "secret"},
		{name: "tls", url: "rediss://cache.example.com:6380", addr: "cache.example.com:6380", tls: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRedisURL(tt.url, false)
			require.NoError(t, err)
			assert.Equal(t, tt.addr, got.Addr)
			assert.Equal(t, tt.password, got.Password)
			assert.Equal(t, tt.tls, got.TLSConfig != nil)
		})
	}
}

func TestParseRedisURLSkipVerify(t *testing.T) {
	got, err := ParseRedisURL("rediss://cache.example.com:6380", true)
	require.NoError(t, err)
	assert.True(t, got.TLSConfig.InsecureSkipVerify)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := NewRedisClient(nil, false)
	assert.Error(t, err)

	r, err := NewRedisClient([]string{mr.Addr()}, false)
	require.NoError(t, err)
	assert.NoError(t, r.Client().Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")

	mr.Close()
	_, err = NewRedisClient([]string{mr.Addr()}, false)
	assert.Error(t, err)
}
