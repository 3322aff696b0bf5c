package queue

import (
	"encoding/json"
	"fmt"

	"github.com/inkfolio/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPostPublish 定时发布文章任务
	TaskPostPublish = constants.TaskPostPublish
)

// PostPublishPayload 定时发布任务载荷，ScheduledAt 为 Unix 秒，用于识别过期任务
type PostPublishPayload struct {
	PostID      uint  `json:"post_id"`
	ScheduledAt int64 `json:"scheduled_at"`
}

// NewPostPublishTask 创建定时发布任务
func NewPostPublishTask(payload PostPublishPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPostPublish, body), nil
}

// ParsePostPublishPayload 解析定时发布任务载荷
func ParsePostPublishPayload(task *asynq.Task) (PostPublishPayload, error) {
	var payload PostPublishPayload
	if task == nil {
		return payload, fmt.Errorf("task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
