package queue

import (
	"testing"
	"time"

	"github.com/inkfolio/internal/config"
)

func TestPostPublishTaskRoundTrip(t *testing.T) {
	task, err := NewPostPublishTask(PostPublishPayload{PostID: 12, ScheduledAt: 1700000000})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskPostPublish {
		t.Fatalf("task type want %s got %s", TaskPostPublish, task.Type())
	}
	payload, err := ParsePostPublishPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.PostID != 12 || payload.ScheduledAt != 1700000000 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueuePostPublish(PostPublishPayload{PostID: 1}, time.Now()); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 0, DB: 2})
	if opt.Addr != "redis:6379" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 2 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
