package worker

import (
	"context"

	"github.com/inkfolio/internal/logger"
	"github.com/inkfolio/internal/provider"
	"github.com/inkfolio/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPostPublish, c.handlePostPublish)
}

func (c *Consumer) handlePostPublish(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.Container == nil || c.PostService == nil {
		logger.Debugw("worker_post_publish_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParsePostPublishPayload(task)
	if err != nil {
		logger.Warnw("worker_post_publish_unmarshal_failed", "error", err)
		// 载荷损坏重试无意义
		return asynq.SkipRetry
	}
	if payload.PostID == 0 {
		logger.Debugw("worker_post_publish_skip_invalid_payload", "post_id", payload.PostID)
		return nil
	}
	published, err := c.PostService.PublishScheduled(ctx, payload)
	if err != nil {
		logger.Warnw("worker_post_publish_failed", "post_id", payload.PostID, "error", err)
		return err
	}
	if published {
		c.Metrics.RecordScheduledPublished(ctx, "queue", 1)
	}
	return nil
}

// sweepOnce 补偿发布到期文章并清理空闲编辑会话
func (c *Consumer) sweepOnce(ctx context.Context) {
	if c == nil || c.Container == nil {
		return
	}
	if c.PostService != nil {
		count, err := c.PostService.PublishDueScheduled(ctx)
		if err != nil {
			logger.Warnw("worker_publish_due_failed", "error", err)
		}
		if count > 0 {
			logger.Infow("worker_publish_due_done", "count", count)
			c.Metrics.RecordScheduledPublished(ctx, "sweep", count)
		}
	}
	if c.EditorService != nil {
		if expired := c.EditorService.SweepExpired(ctx); expired > 0 {
			logger.Debugw("worker_editor_sessions_expired", "count", expired)
		}
	}
}
