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

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/caddyserver/certmagic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/api"
	"github.com/tallyhq/tally/config"
	trace "github.com/tallyhq/tally/internal/traces"
)

const certStoragePath = "./certmagic"

// serveTLS serves the router over HTTPS with certificates managed by
// CertMagic. Without a domain it falls back to localhost.
func serveTLS(r *gin.Engine, conf config.ServerConfig) error {
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = conf.Email
	cfg := certmagic.NewDefault()
	cfg.Storage = &certmagic.FileStorage{Path: certStoragePath}

	domains := []string{conf.Domain}
	if conf.Domain == "" {
		log.Println("No domain specified, defaulting to localhost")
		domains = []string{"localhost"}
	}

	if err := cfg.ManageSync(context.Background(), domains); err != nil {
		return err
	}

	server := &http.Server{
		Addr:      ":" + conf.Port,
		Handler:   r,
		TLSConfig: cfg.TLSConfig(),
	}

	log.Printf("Starting HTTPS server on %s\n", conf.Port)
	if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTPS server: %v", err)
	}
	return nil
}

// sendHeartbeat reports that the server is alive every five minutes.
func sendHeartbeat(client posthog.Client, heartbeatID string) {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		for range ticker.C {
			if err := client.Enqueue(posthog.Capture{
				DistinctId: heartbeatID,
				Event:      "server_heartbeat",
				Properties: map[string]interface{}{
					"timestamp": time.Now().UTC(),
				},
			}); err != nil {
				log.Printf("Failed to send heartbeat: %v", err)
			}
		}
	}()
}

func initializeRouter(t *tallyInstance) *gin.Engine {
	return api.NewAPI(t.tally).Router()
}

func initializeTracing(ctx context.Context, cfg *config.Configuration) (func(context.Context) error, error) {
	shutdown, err := trace.SetupOTelSDK(ctx, cfg.ProjectName, cfg.Otel.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("error setting up OTel SDK: %v", err)
	}
	return shutdown, nil
}

// initializePostHog starts the anonymous heartbeat. It needs an explicit
// opt in and a project key.
func initializePostHog(cfg config.TelemetryConfig) (posthog.Client, error) {
	if !cfg.Enabled || cfg.PosthogKey == "" {
		return nil, nil
	}
	client, err := posthog.NewWithConfig(cfg.PosthogKey, posthog.Config{Endpoint: "https://us.i.posthog.com"})
	if err != nil {
		return nil, err
	}
	sendHeartbeat(client, uuid.New().String())
	return client, nil
}

func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	if cfg.SSL {
		return serveTLS(router, cfg)
	}
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

// initializeObservability sets up tracing and telemetry as configured. The
// returned shutdown is never nil.
func initializeObservability(ctx context.Context, cfg *config.Configuration) (posthog.Client, func(context.Context) error, error) {
	shutdown := func(context.Context) error { return nil }
	if cfg.Otel.Enabled {
		var err error
		shutdown, err = initializeTracing(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
	}

	phClient, err := initializePostHog(cfg.Telemetry)
	if err != nil {
		log.Printf("Telemetry disabled: %v", err)
	}
	return phClient, shutdown, nil
}

func serverCommands(t *tallyInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start tally server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			phClient, shutdown, err := initializeObservability(ctx, t.cnf)
			if err != nil {
				log.Fatal(err)
			}
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error during shutdown: %v", err)
				}
			}()
			if phClient != nil {
				defer phClient.Close()
			}

			router := initializeRouter(t)
			if err := startServer(router, t.cnf.Server); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
