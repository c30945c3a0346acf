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

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.elastic.co/apm/module/apmlogrus/v2"

	"github.com/tallyhq/tally"
	"github.com/tallyhq/tally/config"
	redis_db "github.com/tallyhq/tally/internal/redis-db"
)

func init() {
	logrus.AddHook(&apmlogrus.Hook{})
}

func initializeQueues(conf *config.Configuration) map[string]int {
	return map[string]int{conf.Queue.WebhookQueue: 1, conf.Queue.SettlementQueue: 1}
}

func initializeWorkerServer(conf *config.Configuration, queues map[string]int) (*asynq.Server, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:      redisOption.Addr,
			Password:  redisOption.Password,
			DB:        redisOption.DB,
			TLSConfig: redisOption.TLSConfig,
		},
		asynq.Config{
			Concurrency: 1,
			Queues:      queues,
		},
	), nil
}

func initializeTaskHandlers(conf *config.Configuration, l *tally.Tally, mux *asynq.ServeMux) {
	mux.HandleFunc(conf.Queue.WebhookQueue, tally.ProcessWebhook)
	mux.HandleFunc(conf.Queue.SettlementQueue, l.ProcessSettlementCheck)
}

// workerCommands starts the worker that delivers queued webhooks and runs
// deferred settlement checks.
func workerCommands(t *tallyInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start tally workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			conf := t.cnf

			phClient, shutdown, err := initializeObservability(ctx, conf)
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

			srv, err := initializeWorkerServer(conf, initializeQueues(conf))
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			initializeTaskHandlers(conf, t.tally, mux)

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run server: %v", err)
			}
		},
	}

	return cmd
}
