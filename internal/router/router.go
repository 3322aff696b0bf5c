package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inkfolio/internal/authz"
	"github.com/inkfolio/internal/cache"
	"github.com/inkfolio/internal/config"
	adminhandlers "github.com/inkfolio/internal/http/handlers/admin"
	publichandlers "github.com/inkfolio/internal/http/handlers/public"
	"github.com/inkfolio/internal/http/response"
	"github.com/inkfolio/internal/i18n"
	"github.com/inkfolio/internal/logger"
	"github.com/inkfolio/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ink"
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if c.Metrics != nil {
		r.Use(c.Metrics.Middleware())
	}
	if c.MetricsHandler != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(c.MetricsHandler))
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/posts", publicHandler.GetPosts)
			public.GET("/posts/search", publicHandler.SearchPosts)
			public.GET("/posts/:slug", publicHandler.GetPostBySlug)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/tags", publicHandler.GetTags)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.GET("/captcha", adminHandler.GetLoginCaptcha)
			admin.POST("/login", RateLimitMiddleware(cache.Client(), adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 仅需登录的接口
			authenticated := admin.Group("")
			authenticated.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authenticated.POST("/logout", adminHandler.AdminLogout)
				authenticated.GET("/me", adminHandler.GetAdminMe)
			}

			// 需要 RBAC 授权的接口
			authorized := admin.Group("")
			authorized.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 仪表盘
				authorized.GET("/posts/stats", adminHandler.GetAdminPostStats)

				// 文章管理
				authorized.GET("/posts", adminHandler.GetAdminPosts)
				authorized.GET("/posts/:id", adminHandler.GetAdminPost)
				authorized.POST("/posts", adminHandler.CreatePost)
				authorized.PUT("/posts/:id", adminHandler.UpdatePost)
				authorized.DELETE("/posts/:id", adminHandler.DeletePost)
				authorized.PATCH("/posts/:id/published", adminHandler.SetPostPublished)
				authorized.POST("/posts/:id/schedule", adminHandler.SchedulePost)

				// 分类与标签
				authorized.GET("/catalog", adminHandler.GetCatalog)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.POST("/tags", adminHandler.CreateTag)

				// 编辑向导
				authorized.POST("/editor/sessions", adminHandler.OpenEditorSession)
				authorized.GET("/editor/sessions/:sid", adminHandler.GetEditorSession)
				authorized.PATCH("/editor/sessions/:sid", adminHandler.PatchEditorSession)
				authorized.POST("/editor/sessions/:sid/next", adminHandler.NextEditorStep)
				authorized.POST("/editor/sessions/:sid/previous", adminHandler.PreviousEditorStep)
				authorized.POST("/editor/sessions/:sid/step", adminHandler.GoToEditorStep)
				authorized.POST("/editor/sessions/:sid/submit", adminHandler.SubmitEditorSession)
				authorized.DELETE("/editor/sessions/:sid", adminHandler.CancelEditorSession)

				// 权限目录
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, i18n.T(i18n.ResolveLocale(ctx), "error.not_found"))
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" || item.Path == "/api/v1/admin/captcha" || item.Path == "/api/v1/admin/logout" || item.Path == "/api/v1/admin/me" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
