package public

import "github.com/inkfolio/internal/provider"

// Handler 公开接口处理器入口
// 说明：该处理器仅用于博客前台只读 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
