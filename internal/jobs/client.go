package jobs

import (
	"context"

	"github.com/hibiken/asynq"
)

// Client enqueues delivery tasks from request handlers. A nil Client is a
// no-op, which keeps handlers testable without redis.
type Client struct {
	client *asynq.Client
}

func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

func (c *Client) EnqueueMail(ctx context.Context, payload SendMailPayload) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewSendMailTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

func (c *Client) EnqueuePush(ctx context.Context, payload SendPushPayload) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewSendPushTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
