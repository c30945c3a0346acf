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

package notification

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tallyhq/tally/config"
	"github.com/tallyhq/tally/internal/request"
)

func slackPayload(err error, at time.Time) json.RawMessage {
	message, _ := json.Marshal(fmt.Sprintf("*Error:*\n%v", err))
	when, _ := json.Marshal(fmt.Sprintf("*Time:*\n%v", at.Format(time.RFC822)))
	return json.RawMessage(fmt.Sprintf(`{
		"blocks": [
			{"type": "header", "text": {"type": "plain_text", "text": "Error From Tally 🐞", "emoji": true}},
			{"type": "section", "fields": [{"type": "mrkdwn", "text": %s}]},
			{"type": "section", "fields": [{"type": "mrkdwn", "text": %s}]}
		]
	}`, message, when))
}

// SlackNotification posts err to the configured Slack webhook.
func SlackNotification(err error) error {
	conf, cErr := config.Fetch()
	if cErr != nil {
		return cErr
	}
	if conf.Notification.Slack.WebhookUrl == "" {
		return nil
	}

	payload, pErr := request.ToJsonReq(slackPayload(err, time.Now()))
	if pErr != nil {
		return pErr
	}

	req, rErr := http.NewRequest(http.MethodPost, conf.Notification.Slack.WebhookUrl, payload)
	if rErr != nil {
		return rErr
	}
	_, rErr = request.Call(req, nil)
	return rErr
}

// NotifyError logs systemError and forwards it to Slack without blocking
// the caller.
func NotifyError(systemError error) {
	go func(systemError error) {
		logrus.Error(systemError)
		if err := SlackNotification(systemError); err != nil {
			logrus.WithError(err).Warn("failed to send slack notification")
		}
	}(systemError)
}
