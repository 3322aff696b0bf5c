package provider

import (
	"net/http"

	"github.com/inkfolio/internal/authz"
	"github.com/inkfolio/internal/cache"
	"github.com/inkfolio/internal/config"
	"github.com/inkfolio/internal/logger"
	"github.com/inkfolio/internal/metrics"
	"github.com/inkfolio/internal/models"
	"github.com/inkfolio/internal/queue"
	"github.com/inkfolio/internal/repository"
	"github.com/inkfolio/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	Metrics        *metrics.Metrics
	MetricsHandler http.Handler

	// Repositories
	AdminRepo    repository.AdminRepository
	PostRepo     repository.PostRepository
	TaxonomyRepo repository.TaxonomyRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	CaptchaService  *service.CaptchaService
	PostService     *service.PostService
	TaxonomyService *service.TaxonomyService
	EditorService   *service.EditorService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，未启用时返回禁用态客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initMetrics()
	c.initRepositories(models.DB)
	c.initServices(models.DB)
	return c
}

// NewContainerWithDB 使用指定数据库构建容器（不初始化 Redis/队列）
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	queueClient, _ := queue.NewClient(nil)
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initMetrics()
	c.initRepositories(db)
	c.initServices(db)
	return c
}

func (c *Container) initMetrics() {
	if !c.Config.Metrics.Enabled {
		return
	}
	m, handler, err := metrics.Setup("inkfolio")
	if err != nil {
		logger.Warnw("provider_init_metrics_failed", "error", err)
		return
	}
	c.Metrics = m
	c.MetricsHandler = handler
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.AdminRepo = repository.NewAdminRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.TaxonomyRepo = repository.NewTaxonomyRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.TaxonomyService = service.NewTaxonomyService(c.TaxonomyRepo)
	c.PostService = service.NewPostService(c.PostRepo, c.TaxonomyRepo, c.QueueClient, c.Config.Blog)
	if c.Metrics != nil {
		c.PostService.SetCacheObserver(c.Metrics)
	}
	c.EditorService = service.NewEditorService(c.PostService, c.TaxonomyService, c.Config.Blog)
}
