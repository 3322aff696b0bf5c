package editor

import "context"

// Guard 编辑器打开期间持有的作用域资源，打开时获取，任一退出路径释放一次
type Guard interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// NoopGuard 不持有任何资源
type NoopGuard struct{}

func (NoopGuard) Acquire(context.Context) error { return nil }
func (NoopGuard) Release(context.Context) error { return nil }

// NoticeKind 提示类型
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// 提示文案
const (
	MsgFixErrors   = "Please fix the errors before saving"
	MsgPostCreated = "Post created successfully!"
	MsgPostUpdated = "Post updated successfully!"
	MsgSaveFailed  = "Error saving post. Please try again."
)

// Notice 一条用户提示
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Notifier 接收用户提示
type Notifier interface {
	Notify(kind NoticeKind, message string)
}

// NotifierFunc 函数适配器
type NotifierFunc func(kind NoticeKind, message string)

func (f NotifierFunc) Notify(kind NoticeKind, message string) { f(kind, message) }

// NoticeLog 记录最近的提示，供 HTTP 层回传
type NoticeLog struct {
	notices []Notice
}

func (l *NoticeLog) Notify(kind NoticeKind, message string) {
	l.notices = append(l.notices, Notice{Kind: kind, Message: message})
}

// Drain 取出并清空已记录的提示
func (l *NoticeLog) Drain() []Notice {
	notices := l.notices
	l.notices = nil
	if notices == nil {
		return []Notice{}
	}
	return notices
}
