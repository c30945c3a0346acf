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

package tally

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tallyhq/tally/config"
	"github.com/tallyhq/tally/database"
	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/internal/cache"
	redlock "github.com/tallyhq/tally/internal/lock"
	redis_db "github.com/tallyhq/tally/internal/redis-db"
	"github.com/tallyhq/tally/model"
)

var tracer = otel.Tracer("tally.ledger")

// defaultLockWait bounds how long an operation waits for a contended entry
// or profile before giving up.
const defaultLockWait = 5 * time.Second

//go:embed sql/*.sql
var SQLFiles embed.FS

// WebhookSender delivers ledger events to the configured webhook endpoint.
type WebhookSender interface {
	SendWebhook(ctx context.Context, hook NewWebhook) error
}

// SettlementScheduler defers a settlement check that could not run inline.
type SettlementScheduler interface {
	ScheduleSettlementCheck(ctx context.Context, check SettlementCheck) error
}

// Tally is the ledger service. Every operation acts on behalf of a caller
// principal and only ever sees the caller's own books.
type Tally struct {
	datasource  database.IDataSource
	redis       redis.UniversalClient
	queries     *QueryCache
	hooks       WebhookSender
	checks      SettlementScheduler
	metrics     *Metrics
	lockTimeout time.Duration
	lockWait    time.Duration
}

// Options carries the collaborators of a Tally that are not the datasource.
type Options struct {
	Redis       redis.UniversalClient
	Queries     *QueryCache
	Hooks       WebhookSender
	Checks      SettlementScheduler
	Registerer  prometheus.Registerer
	LockTimeout time.Duration
	LockWait    time.Duration
}

// NewTally builds the service from the loaded configuration: a redis client
// for locks and the query cache, and the webhook queue.
func NewTally(db database.IDataSource) (*Tally, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{configuration.Redis.Dns}, configuration.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}

	var queries *QueryCache
	if !configuration.Cache.Disabled {
		ttl := time.Duration(configuration.Cache.TTLSeconds) * time.Second
		queries = NewQueryCache(redisClient.Client(), cache.NewRedisCache(redisClient.Client(), time.Minute), ttl)
	}

	queue := NewQueue(configuration)
	return New(db, Options{
		Redis:       redisClient.Client(),
		Queries:     queries,
		Hooks:       queue,
		Checks:      queue,
		Registerer:  prometheus.DefaultRegisterer,
		LockTimeout: time.Duration(configuration.Queue.LockTimeoutSec) * time.Second,
	}), nil
}

// New wires a Tally from explicit collaborators. A nil Queries disables the
// query cache, a nil Hooks drops webhook events and a nil Checks reports
// settlement checks that cannot run inline instead of deferring them.
func New(db database.IDataSource, opts Options) *Tally {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = config.DEFAULT_LOCK_TIMEOUT_SEC * time.Second
	}
	if opts.LockWait <= 0 {
		opts.LockWait = defaultLockWait
	}
	return &Tally{
		datasource:  db,
		redis:       opts.Redis,
		queries:     opts.Queries,
		hooks:       opts.Hooks,
		checks:      opts.Checks,
		metrics:     NewMetrics(opts.Registerer),
		lockTimeout: opts.LockTimeout,
		lockWait:    opts.LockWait,
	}
}

func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	logrus.Error(msg, err)
	return err
}

// lock takes the named redis lock, waiting briefly when it is contended. The
// returned function releases it.
func (l *Tally) lock(ctx context.Context, key string) (func(), error) {
	locker := redlock.NewLocker(l.redis, key, model.GenerateUUIDWithSuffix("loc"))
	if err := locker.WaitLock(ctx, l.lockTimeout, l.lockWait); err != nil {
		if errors.Is(err, redlock.ErrLockHeld) {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "resource is busy, try again", err)
		}
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return func() {
		if err := locker.Unlock(context.Background()); err != nil {
			logrus.WithError(err).WithField("key", key).Error("failed to release lock")
		}
	}, nil
}

func entryLockKey(e model.LedgerEntry) string {
	id := e.ID
	if e.CounterpartID != nil && *e.CounterpartID < id {
		id = *e.CounterpartID
	}
	return fmt.Sprintf("tally:entry:%d", id)
}

func personLockKey(id int64) string {
	return fmt.Sprintf("tally:person:%d", id)
}

// invalidate drops every cached query of the given principals. The anonymous
// principal never has a book and is skipped.
func (l *Tally) invalidate(ctx context.Context, principals ...model.Principal) {
	keep := make([]model.Principal, 0, len(principals))
	for _, p := range principals {
		if p != "" && !p.IsAnonymous() {
			keep = append(keep, p)
		}
	}
	l.queries.Invalidate(ctx, keep...)
}
