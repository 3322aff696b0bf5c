package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/inkfolio/internal/cache"
	"github.com/inkfolio/internal/config"
	"github.com/inkfolio/internal/editor"
	"github.com/inkfolio/internal/logger"
	"github.com/inkfolio/internal/models"

	"github.com/google/uuid"
)

// EditorSnapshot 编辑会话快照
type EditorSnapshot struct {
	SessionID string          `json:"session_id"`
	State     editor.State    `json:"state"`
	Notices   []editor.Notice `json:"notices"`
	Catalog   *editor.Catalog `json:"catalog,omitempty"`
	Saved     *models.Post    `json:"saved,omitempty"`
}

// EditorService 管理员编辑会话注册表，每个会话由一把锁串行驱动
type EditorService struct {
	posts    *PostService
	taxonomy *TaxonomyService
	blog     config.BlogConfig
	now      func() time.Time
	newGuard func(postID uint) editor.Guard

	mu       sync.Mutex
	sessions map[string]*editorSession
}

type editorSession struct {
	mu       sync.Mutex
	id       string
	adminID  uint
	wizard   *editor.Wizard
	notices  *editor.NoticeLog
	catalog  *editor.Catalog
	guard    editor.Guard
	saved    *models.Post
	lastSeen atomic.Int64
}

// NewEditorService 创建编辑会话服务
func NewEditorService(posts *PostService, taxonomy *TaxonomyService, blog config.BlogConfig) *EditorService {
	return &EditorService{
		posts:    posts,
		taxonomy: taxonomy,
		blog:     blog,
		now:      time.Now,
		newGuard: func(postID uint) editor.Guard {
			if postID == 0 || !cache.Enabled() {
				return editor.NoopGuard{}
			}
			return &leaseGuard{lease: cache.NewEditLease(postID, blog.EditLeaseTTL())}
		},
		sessions: make(map[string]*editorSession),
	}
}

// leaseGuard 文章编辑租约，租约被占用时返回 ErrPostLocked
type leaseGuard struct {
	lease *cache.EditLease
}

func (g *leaseGuard) Acquire(ctx context.Context) error {
	if err := g.lease.Acquire(ctx); err != nil {
		if errors.Is(err, cache.ErrLeaseHeld) {
			return ErrPostLocked
		}
		return err
	}
	return nil
}

func (g *leaseGuard) Release(ctx context.Context) error {
	return g.lease.Release(ctx)
}

func (g *leaseGuard) Refresh(ctx context.Context) error {
	return g.lease.Refresh(ctx)
}

// editorSaver 将表单转换为文章输入，publish_date 每次保存都取当前时间
type editorSaver struct {
	posts *PostService
}

func (s editorSaver) CreatePost(ctx context.Context, form editor.Form) (*models.Post, error) {
	return s.posts.Create(ctx, formToInput(form))
}

func (s editorSaver) UpdatePost(ctx context.Context, id uint, form editor.Form) (*models.Post, error) {
	return s.posts.Update(ctx, id, formToInput(form))
}

func formToInput(form editor.Form) PostInput {
	return PostInput{
		Title:       form.Title,
		Slug:        form.Slug,
		Excerpt:     form.Excerpt,
		Content:     form.Content,
		Author:      form.Author,
		ReadTime:    form.ReadTime,
		Featured:    form.Featured,
		Published:   form.Published,
		CoverImage:  form.CoverImage,
		CategoryIDs: form.CategoryIDs,
		TagIDs:      form.TagIDs,
	}
}

// Open 打开编辑会话；postID 为 0 时新建文章
func (s *EditorService) Open(ctx context.Context, adminID, postID uint) (*EditorSnapshot, error) {
	s.SweepExpired(ctx)

	var existing *models.Post
	if postID != 0 {
		post, err := s.posts.GetAdminByID(postID)
		if err != nil {
			return nil, err
		}
		existing = post
	}

	catalog, err := s.taxonomy.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	sess := &editorSession{
		id:       uuid.NewString(),
		adminID:  adminID,
		notices:  &editor.NoticeLog{},
		catalog:  catalog,
		guard:    s.newGuard(postID),
	}
	sess.touch(s.now())
	deps := editor.Deps{
		Saver:    editorSaver{posts: s.posts},
		Notifier: sess.notices,
		Guard:    sess.guard,
		OnSave: func(post *models.Post) {
			sess.saved = post
		},
	}
	opts := editor.Options{
		DefaultAuthor:       s.blog.DefaultAuthor,
		DefaultReadTime:     s.blog.DefaultReadTime,
		KeepManualOverrides: s.blog.KeepManualEditorOverride,
	}
	wizard, err := editor.Open(ctx, deps, opts, existing)
	if err != nil {
		if errors.Is(err, ErrPostLocked) {
			return nil, ErrPostLocked
		}
		logger.Errorw("editor_session_open_failed", "admin_id", adminID, "post_id", postID, "error", err)
		return nil, err
	}
	sess.wizard = wizard

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	logger.Infow("editor_session_opened", "session_id", sess.id, "admin_id", adminID, "post_id", postID)
	return sess.snapshot(true), nil
}

// Get 获取会话快照
func (s *EditorService) Get(ctx context.Context, adminID uint, sessionID string) (*EditorSnapshot, error) {
	return s.drive(ctx, adminID, sessionID, true, func(w *editor.Wizard) error { return nil })
}

// Apply 应用表单修改
func (s *EditorService) Apply(ctx context.Context, adminID uint, sessionID string, patch editor.Patch) (*EditorSnapshot, error) {
	return s.drive(ctx, adminID, sessionID, false, func(w *editor.Wizard) error {
		return w.Apply(patch)
	})
}

// Next 前进一步
func (s *EditorService) Next(ctx context.Context, adminID uint, sessionID string) (*EditorSnapshot, error) {
	return s.drive(ctx, adminID, sessionID, false, func(w *editor.Wizard) error {
		return w.Next()
	})
}

// Previous 后退一步
func (s *EditorService) Previous(ctx context.Context, adminID uint, sessionID string) (*EditorSnapshot, error) {
	return s.drive(ctx, adminID, sessionID, false, func(w *editor.Wizard) error {
		return w.Previous()
	})
}

// GoToStep 跳转到指定步骤
func (s *EditorService) GoToStep(ctx context.Context, adminID uint, sessionID string, step int) (*EditorSnapshot, error) {
	return s.drive(ctx, adminID, sessionID, false, func(w *editor.Wizard) error {
		return w.GoToStep(editor.Step(step))
	})
}

// Submit 保存文章；成功后会话关闭并移出注册表
func (s *EditorService) Submit(ctx context.Context, adminID uint, sessionID string) (*EditorSnapshot, error) {
	snapshot, err := s.drive(ctx, adminID, sessionID, false, func(w *editor.Wizard) error {
		_, err := w.Submit(ctx)
		return err
	})
	if err == nil {
		s.remove(sessionID)
		logger.Infow("editor_session_submitted", "session_id", sessionID, "admin_id", adminID)
	}
	return snapshot, err
}

// Cancel 放弃编辑并关闭会话
func (s *EditorService) Cancel(ctx context.Context, adminID uint, sessionID string) error {
	sess, err := s.lookup(adminID, sessionID)
	if err != nil {
		return err
	}
	s.remove(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.wizard.Cancel(ctx); err != nil {
		logger.Warnw("editor_guard_release_failed", "session_id", sessionID, "error", err)
	}
	logger.Infow("editor_session_cancelled", "session_id", sessionID, "admin_id", adminID)
	return nil
}

// SweepExpired 关闭空闲超时的会话，返回关闭数量
func (s *EditorService) SweepExpired(ctx context.Context) int {
	ttl := s.blog.EditorSessionTTL()
	if ttl <= 0 {
		return 0
	}
	deadline := s.now().Add(-ttl)

	s.mu.Lock()
	expired := make([]*editorSession, 0)
	for id, sess := range s.sessions {
		if sess.lastSeenBefore(deadline) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.mu.Lock()
		if err := sess.wizard.Close(ctx); err != nil {
			logger.Warnw("editor_guard_release_failed", "session_id", sess.id, "error", err)
		}
		sess.mu.Unlock()
		logger.Infow("editor_session_expired", "session_id", sess.id, "admin_id", sess.adminID)
	}
	return len(expired)
}

// drive 串行执行会话操作并返回快照；校验失败时同时返回快照与错误
func (s *EditorService) drive(ctx context.Context, adminID uint, sessionID string, withCatalog bool, fn func(w *editor.Wizard) error) (*EditorSnapshot, error) {
	s.SweepExpired(ctx)
	sess, err := s.lookup(adminID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.wizard.IsOpen() {
		return nil, ErrEditorSessionNotFound
	}
	sess.touch(s.now())
	if refresher, ok := sess.guard.(*leaseGuard); ok {
		if err := refresher.Refresh(ctx); err != nil {
			logger.Warnw("editor_lease_refresh_failed", "session_id", sess.id, "error", err)
		}
	}

	if err := fn(sess.wizard); err != nil {
		return sess.snapshot(withCatalog), translateEditorError(err)
	}
	return sess.snapshot(withCatalog), nil
}

func (s *EditorService) lookup(adminID uint, sessionID string) (*editorSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.adminID != adminID {
		return nil, ErrEditorSessionNotFound
	}
	return sess, nil
}

func (s *EditorService) remove(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// activeSessions 当前会话数
func (s *EditorService) activeSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (sess *editorSession) touch(at time.Time) {
	sess.lastSeen.Store(at.UnixNano())
}

// lastSeenBefore 无需持有会话锁，清理时不会被进行中的请求阻塞
func (sess *editorSession) lastSeenBefore(deadline time.Time) bool {
	return sess.lastSeen.Load() < deadline.UnixNano()
}

func (sess *editorSession) snapshot(withCatalog bool) *EditorSnapshot {
	snapshot := &EditorSnapshot{
		SessionID: sess.id,
		State:     sess.wizard.State(),
		Notices:   sess.notices.Drain(),
		Saved:     sess.saved,
	}
	if withCatalog {
		snapshot.Catalog = sess.catalog
	}
	return snapshot
}

func translateEditorError(err error) error {
	var verr *editor.ValidationError
	switch {
	case errors.As(err, &verr):
		return fromEditorValidation(verr)
	case errors.Is(err, editor.ErrStepInvalid):
		return ErrEditorStepInvalid
	case errors.Is(err, editor.ErrClosed):
		return ErrEditorSessionNotFound
	}
	return err
}
