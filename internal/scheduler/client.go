// Package scheduler provides delayed background jobs on asynq.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"showdesk_backend/platform/config"
)

// Client enqueues background tasks. A nil client schedules nothing, so
// deployments without Redis skip the delayed repairs instead of failing.
type Client struct {
	client *asynq.Client
	queue  string
	delay  time.Duration
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
		delay:  cfg.GetCrewSyncDelay(),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleCrewSync enqueues a delayed crew-plan repair for a handed-over
// deal. The delay lets in-flight proposal edits settle first.
func (c *Client) ScheduleCrewSync(ctx context.Context, workspaceID, dealID, productionID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewCrewSyncTask(CrewSyncPayload{
		WorkspaceID:  workspaceID.String(),
		DealID:       dealID.String(),
		ProductionID: productionID.String(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessIn(c.delay), asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
