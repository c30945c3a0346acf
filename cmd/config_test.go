package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tallyhq/tally/config"
)

func TestMaskedHidesSecrets(t *testing.T) {
	cfg := config.Configuration{
		Server:    config.ServerConfig{SecretKey: "s3cret", Port: "5001"},
		Telemetry: config.TelemetryConfig{Enabled: true, PosthogKey: "phc_key"},
	}

	out := masked(cfg)
	assert.Equal(t, "********", out.Server.SecretKey)
	assert.Equal(t, "********", out.Telemetry.PosthogKey)
	assert.Equal(t, "5001", out.Server.Port)
	assert.Equal(t, "s3cret", cfg.Server.SecretKey)
}

func TestMaskedLeavesEmptySecrets(t *testing.T) {
	out := masked(config.Configuration{})
	assert.Empty(t, out.Server.SecretKey)
	assert.Empty(t, out.Telemetry.PosthogKey)
}
