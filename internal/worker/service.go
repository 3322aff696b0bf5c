package worker

import (
	"context"
	"errors"
	"time"

	"github.com/inkfolio/internal/config"
	"github.com/inkfolio/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	sweepInterval = time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	go s.runSweepLoop(ctx)
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	s.consumer.sweepOnce(ctx)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.consumer.sweepOnce(ctx)
		}
	}
}

// SweepService 未启用队列时的进程内周期清理
type SweepService struct {
	consumer *Consumer
	interval time.Duration
	done     chan struct{}
}

// NewSweepService 创建周期清理服务
func NewSweepService(consumer *Consumer) *SweepService {
	return &SweepService{consumer: consumer, interval: sweepInterval, done: make(chan struct{})}
}

// Name 服务名称
func (s *SweepService) Name() string {
	return "sweeper"
}

// Start 阻塞运行直到 ctx 取消或 Stop 被调用
func (s *SweepService) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("sweeper not initialized")
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
			s.consumer.sweepOnce(ctx)
		}
	}
}

// Stop 停止服务
func (s *SweepService) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return nil
}
