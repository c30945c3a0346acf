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
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/config"
	"github.com/tallyhq/tally/model"
)

func queueConfig(mr *miniredis.Miniredis, webhookURL string) *config.Configuration {
	return &config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
		Queue: config.QueueConfig{
			WebhookQueue:    config.DEFAULT_WEBHOOK_QUEUE,
			SettlementQueue: config.DEFAULT_SETTLEMENT_QUEUE,
		},
		Notification: config.Notification{
			Webhook: config.WebhookConfig{Url: webhookURL},
		},
	}
}

func TestQueueSendWebhook(t *testing.T) {
	mr := miniredis.RunT(t)
	conf := queueConfig(mr, "https://hooks.example.com/tally")
	config.MockConfig(conf)

	q := NewQueue(conf)
	t.Cleanup(func() { _ = q.Close() })

	err := q.SendWebhook(context.Background(), NewWebhook{
		Event:   EventEntryCreated,
		Payload: model.LedgerEntry{ID: 1, Owner: alice, Amount: 500},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, mr.Keys())
}

func TestQueueSendWebhook_NoURL(t *testing.T) {
	mr := miniredis.RunT(t)
	conf := queueConfig(mr, "")
	config.MockConfig(conf)

	q := NewQueue(conf)
	t.Cleanup(func() { _ = q.Close() })

	require.NoError(t, q.SendWebhook(context.Background(), NewWebhook{Event: EventEntryCreated}))
	assert.Empty(t, mr.Keys())
}

func TestQueueScheduleSettlementCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	conf := queueConfig(mr, "")
	config.MockConfig(conf)

	q := NewQueue(conf)
	t.Cleanup(func() { _ = q.Close() })

	require.NoError(t, q.ScheduleSettlementCheck(context.Background(), SettlementCheck{Owner: alice, PersonID: 4}))
	assert.Contains(t, mr.Keys(), "asynq:{"+config.DEFAULT_SETTLEMENT_QUEUE+"}:scheduled")
}
