/*
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
	"net/http"

	"github.com/hibiken/asynq"

	"github.com/tallyhq/tally/config"
	"github.com/tallyhq/tally/internal/notification"
	"github.com/tallyhq/tally/internal/request"
	"github.com/tallyhq/tally/model"
)

const (
	EventEntryCreated  = "entry.created"
	EventEntryApproved = "entry.approved"
	EventEntryRejected = "entry.rejected"
	EventEntryArchived = "entry.archived"
	EventPersonSettled = "person.settled"
)

// NewWebhook represents the structure of a webhook notification.
type NewWebhook struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"data"`
}

// EntryEvent is the payload of the entry.* events. FormattedAmount renders
// the amount in the entry's currency, e.g. "$12.50".
type EntryEvent struct {
	model.LedgerEntry
	FormattedAmount string `json:"formatted_amount"`
}

func newEntryEvent(e model.LedgerEntry) EntryEvent {
	return EntryEvent{LedgerEntry: e, FormattedAmount: model.FormatAmount(e.Amount, e.Currency)}
}

// getEventFromStatus maps the status an entry moved to onto its event.
func getEventFromStatus(status model.LedgerStatus) string {
	switch status {
	case model.StatusApproved:
		return EventEntryApproved
	case model.StatusRejected:
		return EventEntryRejected
	case model.StatusArchived:
		return EventEntryArchived
	default:
		return EventEntryCreated
	}
}

// sendWebhook hands an event to the queue. Delivery problems never fail the
// ledger operation that produced the event.
func (l *Tally) sendWebhook(ctx context.Context, event string, payload interface{}) {
	if l.hooks == nil {
		return
	}
	if err := l.hooks.SendWebhook(ctx, NewWebhook{Event: event, Payload: payload}); err != nil {
		notification.NotifyError(err)
	}
}

// processHTTP posts the webhook to the configured endpoint with the
// configured headers.
func processHTTP(ctx context.Context, conf config.WebhookConfig, data NewWebhook) error {
	payload, err := request.ToJsonReq(data)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, conf.Url, payload)
	if err != nil {
		return err
	}
	for key, value := range conf.Headers {
		req.Header.Set(key, value)
	}

	if _, err := request.Call(req, nil); err != nil {
		log.Println("Error sending webhook:", err)
		return err
	}
	log.Println("Webhook notification sent successfully:", data.Event)
	return nil
}

// ProcessWebhook is the asynq handler for queued webhook deliveries. A
// returned error makes asynq retry the task.
func ProcessWebhook(ctx context.Context, task *asynq.Task) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}
	if conf.Notification.Webhook.Url == "" {
		return nil
	}

	var payload NewWebhook
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Printf("Error unmarshaling task payload: %v", err)
		return err
	}
	log.Printf("Processing webhook: %+v\n", payload.Event)
	return processHTTP(ctx, conf.Notification.Webhook, payload)
}
