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
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tallyhq/tally/config"
	redis_db "github.com/tallyhq/tally/internal/redis-db"
	"github.com/tallyhq/tally/model"
)

// settlementCheckDelay is how long a deferred settlement check waits before
// the workers pick it up.
const settlementCheckDelay = 10 * time.Second

// Queue is the asynq producer side used to hand webhook deliveries and
// deferred settlement checks to the workers process.
type Queue struct {
	Client *asynq.Client
	name   string
	checks string
}

// NewQueue connects to the redis configured for the ledger. A malformed
// redis URL is a startup error and ends the process.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	return &Queue{
		Client: asynq.NewClient(queueOptions),
		name:   conf.Queue.WebhookQueue,
		checks: conf.Queue.SettlementQueue,
	}
}

// SendWebhook enqueues hook for delivery. Nothing is enqueued while no
// webhook URL is configured.
func (q *Queue) SendWebhook(ctx context.Context, hook NewWebhook) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}
	if conf.Notification.Webhook.Url == "" {
		return nil
	}

	payload, err := json.Marshal(hook)
	if err != nil {
		return err
	}
	task := asynq.NewTask(q.name, payload,
		asynq.Queue(q.name),
		asynq.TaskID(model.GenerateUUIDWithSuffix("hook")),
		asynq.MaxRetry(5),
	)
	info, err := q.Client.EnqueueContext(ctx, task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued webhook: %s", hook.Event)
	return nil
}

// ScheduleSettlementCheck enqueues check for the workers. asynq retries it
// while the profile stays busy.
func (q *Queue) ScheduleSettlementCheck(ctx context.Context, check SettlementCheck) error {
	payload, err := json.Marshal(check)
	if err != nil {
		return err
	}
	task := asynq.NewTask(q.checks, payload,
		asynq.Queue(q.checks),
		asynq.TaskID(model.GenerateUUIDWithSuffix("chk")),
		asynq.ProcessIn(settlementCheckDelay),
		asynq.MaxRetry(10),
	)
	info, err := q.Client.EnqueueContext(ctx, task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued settlement check for person %d", check.PersonID)
	return nil
}

func (q *Queue) Close() error {
	return q.Client.Close()
}
