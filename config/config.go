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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT             = "5001"
	DEFAULT_CACHE_TTL        = 300
	DEFAULT_WEBHOOK_QUEUE    = "tally_webhook_queue"
	DEFAULT_SETTLEMENT_QUEUE = "tally_settlement_queue"
	DEFAULT_LOCK_TIMEOUT_SEC = 30
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"TALLY_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"TALLY_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"TALLY_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"TALLY_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"TALLY_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"TALLY_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"TALLY_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"TALLY_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"TALLY_REDIS_SKIP_TLS_VERIFY"`
}

// CacheConfig controls the server side query cache.
type CacheConfig struct {
	TTLSeconds int  `json:"ttl_seconds" envconfig:"TALLY_CACHE_TTL_SECONDS"`
	Disabled   bool `json:"disabled" envconfig:"TALLY_CACHE_DISABLED"`
}

type QueueConfig struct {
	WebhookQueue    string `json:"webhook_queue" envconfig:"TALLY_QUEUE_WEBHOOK_QUEUE"`
	SettlementQueue string `json:"settlement_queue" envconfig:"TALLY_QUEUE_SETTLEMENT_QUEUE"`
	LockTimeoutSec  int    `json:"lock_timeout_sec" envconfig:"TALLY_QUEUE_LOCK_TIMEOUT_SEC"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"TALLY_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"TALLY_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"TALLY_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

// WebhookConfig is the endpoint ledger events are delivered to.
type WebhookConfig struct {
	Url     string            `json:"url" envconfig:"TALLY_WEBHOOK_URL"`
	Headers map[string]string `json:"headers"`
}

type Notification struct {
	Slack   SlackWebhook  `json:"slack"`
	Webhook WebhookConfig `json:"webhook"`
}

type OtelConfig struct {
	Enabled  bool   `json:"enabled" envconfig:"TALLY_OTEL_ENABLED"`
	Endpoint string `json:"endpoint" envconfig:"TALLY_OTEL_ENDPOINT"`
}

type TelemetryConfig struct {
	Enabled    bool   `json:"enabled" envconfig:"TALLY_TELEMETRY_ENABLED"`
	PosthogKey string `json:"posthog_key" envconfig:"TALLY_TELEMETRY_POSTHOG_KEY"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"TALLY_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Cache        CacheConfig      `json:"cache"`
	Queue        QueueConfig      `json:"queue"`
	Notification Notification     `json:"notification"`
	RateLimit    RateLimitConfig  `json:"rate_limit"`
	Otel         OtelConfig       `json:"otel"`
	Telemetry    TelemetryConfig  `json:"telemetry"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration

	// a missing .env is not an error, the process env still applies
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not load .env file: %v", err)
	}

	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("tally", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called tally.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Tally Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Server.Secure && cnf.Server.SecretKey == "" {
		return errors.New("secret key is required when server.secure is enabled")
	}

	if cnf.Cache.TTLSeconds <= 0 {
		cnf.Cache.TTLSeconds = DEFAULT_CACHE_TTL
	}

	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = DEFAULT_WEBHOOK_QUEUE
	}
	if cnf.Queue.SettlementQueue == "" {
		cnf.Queue.SettlementQueue = DEFAULT_SETTLEMENT_QUEUE
	}
	if cnf.Queue.LockTimeoutSec <= 0 {
		cnf.Queue.LockTimeoutSec = DEFAULT_LOCK_TIMEOUT_SEC
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
