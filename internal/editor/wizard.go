package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inkfolio/internal/logger"
	"github.com/inkfolio/internal/models"
)

// Step 向导步骤
type Step int

const (
	StepContent  Step = 1
	StepSettings Step = 2
	StepPreview  Step = 3
)

// StepInfo 步骤说明
type StepInfo struct {
	ID          Step   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Steps 全部步骤
var Steps = []StepInfo{
	{ID: StepContent, Title: "Content", Description: "Write your post"},
	{ID: StepSettings, Title: "Settings", Description: "Configure options"},
	{ID: StepPreview, Title: "Preview", Description: "Review & publish"},
}

var (
	ErrClosed      = errors.New("editor is closed")
	ErrStepInvalid = errors.New("step must be between 1 and 3")
)

// Saver 持久化表单
type Saver interface {
	CreatePost(ctx context.Context, form Form) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, form Form) (*models.Post, error)
}

// Options 向导配置
type Options struct {
	DefaultAuthor   string
	DefaultReadTime int
	// KeepManualOverrides 为 true 时，手动修改过的 slug/阅读时长不再被自动计算覆盖
	KeepManualOverrides bool
}

// Deps 向导依赖
type Deps struct {
	Saver    Saver
	Notifier Notifier
	Guard    Guard
	OnSave   func(post *models.Post)
	OnCancel func()
}

// State 向导快照
type State struct {
	Step      Step        `json:"step"`
	Steps     []StepInfo  `json:"steps"`
	Form      Form        `json:"form"`
	Errors    FieldErrors `json:"errors"`
	WordCount int         `json:"word_count"`
	CharCount int         `json:"char_count"`
	EditingID uint        `json:"editing_id,omitempty"`
	Open      bool        `json:"open"`
}

// Wizard 三步文章编辑向导，非并发安全，由调用方串行驱动
type Wizard struct {
	opts      Options
	deps      Deps
	form      Form
	step      Step
	errs      FieldErrors
	editingID uint
	open      bool
	released  bool

	slugTouched     bool
	readTimeTouched bool
}

// Open 获取守卫并打开向导；existing 非空时进入编辑模式
func Open(ctx context.Context, deps Deps, opts Options, existing *models.Post) (*Wizard, error) {
	if deps.Saver == nil {
		return nil, errors.New("editor saver is required")
	}
	if deps.Guard == nil {
		deps.Guard = NoopGuard{}
	}
	if deps.Notifier == nil {
		deps.Notifier = NotifierFunc(func(NoticeKind, string) {})
	}
	if opts.DefaultReadTime < 1 {
		opts.DefaultReadTime = 5
	}
	if err := deps.Guard.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("acquire editor guard: %w", err)
	}

	w := &Wizard{
		opts: opts,
		deps: deps,
		step: StepContent,
		errs: FieldErrors{},
		open: true,
		form: Form{
			Author:   opts.DefaultAuthor,
			ReadTime: opts.DefaultReadTime,
		},
	}
	if existing != nil {
		w.editingID = existing.ID
		w.form = formFromPost(existing, opts)
		if opts.KeepManualOverrides {
			// 已保存的值视为手动值
			w.slugTouched = true
			w.readTimeTouched = true
		} else {
			w.form.ReadTime = ReadTime(w.form.Content)
		}
	}
	return w, nil
}

// State 返回当前快照
func (w *Wizard) State() State {
	errs := make(FieldErrors, len(w.errs))
	for key, msg := range w.errs {
		errs[key] = msg
	}
	return State{
		Step:      w.step,
		Steps:     Steps,
		Form:      w.form.clone(),
		Errors:    errs,
		WordCount: WordCount(w.form.Content),
		CharCount: CharCount(w.form.Content),
		EditingID: w.editingID,
		Open:      w.open,
	}
}

// Step 当前步骤
func (w *Wizard) Step() Step { return w.step }

// Form 当前表单副本
func (w *Wizard) Form() Form { return w.form.clone() }

// IsOpen 是否仍打开
func (w *Wizard) IsOpen() bool { return w.open }

// EditingID 编辑模式下的文章 ID，新建时为 0
func (w *Wizard) EditingID() uint { return w.editingID }

// SetTitle 修改标题并重新生成 slug
func (w *Wizard) SetTitle(title string) {
	w.form.Title = title
	if w.opts.KeepManualOverrides && w.slugTouched {
		return
	}
	w.form.Slug = Slugify(title)
}

// SetSlug 手动修改 slug
func (w *Wizard) SetSlug(slug string) {
	w.form.Slug = slug
	w.slugTouched = true
}

// SetContent 修改正文并重新计算阅读时长
func (w *Wizard) SetContent(content string) {
	w.form.Content = content
	if w.opts.KeepManualOverrides && w.readTimeTouched {
		return
	}
	w.form.ReadTime = ReadTime(content)
}

// SetReadTime 手动修改阅读时长，非法值按 1 处理
func (w *Wizard) SetReadTime(minutes int) {
	if minutes < 1 {
		minutes = 1
	}
	w.form.ReadTime = minutes
	w.readTimeTouched = true
}

// ToggleCategory 切换分类选中状态
func (w *Wizard) ToggleCategory(id uint) {
	w.form.CategoryIDs = toggleID(w.form.CategoryIDs, id)
}

// ToggleTag 切换标签选中状态
func (w *Wizard) ToggleTag(id uint) {
	w.form.TagIDs = toggleID(w.form.TagIDs, id)
}

// Apply 应用局部修改；同一次修改中显式给出的 slug/阅读时长优先于自动计算
func (w *Wizard) Apply(p Patch) error {
	if !w.open {
		return ErrClosed
	}
	if p.Title != nil {
		w.SetTitle(*p.Title)
	}
	if p.Content != nil {
		w.SetContent(*p.Content)
	}
	if p.Slug != nil {
		w.SetSlug(*p.Slug)
	}
	if p.ReadTime != nil {
		w.SetReadTime(*p.ReadTime)
	}
	if p.Excerpt != nil {
		w.form.Excerpt = *p.Excerpt
	}
	if p.Author != nil {
		w.form.Author = *p.Author
	}
	if p.Featured != nil {
		w.form.Featured = *p.Featured
	}
	if p.Published != nil {
		w.form.Published = *p.Published
	}
	if p.CoverImage != nil {
		w.form.CoverImage = *p.CoverImage
	}
	if p.CategoryIDs != nil {
		w.form.CategoryIDs = append([]uint(nil), (*p.CategoryIDs)...)
	}
	if p.TagIDs != nil {
		w.form.TagIDs = append([]uint(nil), (*p.TagIDs)...)
	}
	return nil
}

// Next 前进一步；第一步要求标题与正文非空
func (w *Wizard) Next() error {
	if !w.open {
		return ErrClosed
	}
	if w.step == StepContent {
		if errs := validateContentStep(w.form); len(errs) > 0 {
			w.errs = errs
			return &ValidationError{Fields: errs, Step: StepContent}
		}
	}
	if w.step < StepPreview {
		w.step++
	}
	w.errs = FieldErrors{}
	return nil
}

// Previous 后退一步
func (w *Wizard) Previous() error {
	if !w.open {
		return ErrClosed
	}
	if w.step > StepContent {
		w.step--
	}
	w.errs = FieldErrors{}
	return nil
}

// GoToStep 跳转：后退或回到第一步总是允许，从第一步前跳需先通过第一步校验
func (w *Wizard) GoToStep(target Step) error {
	if !w.open {
		return ErrClosed
	}
	if target < StepContent || target > StepPreview {
		return ErrStepInvalid
	}
	if target > w.step && w.step == StepContent {
		if errs := contentStepErrors(w.form); len(errs) > 0 {
			w.errs = errs
			return &ValidationError{Fields: errs, Step: StepContent}
		}
	}
	w.step = target
	w.errs = FieldErrors{}
	return nil
}

// contentStepErrors 跳转时同时报告标题与正文
func contentStepErrors(form Form) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(form.Title) == "" {
		errs[FieldTitle] = MsgTitleRequired
	}
	if strings.TrimSpace(form.Content) == "" {
		errs[FieldContent] = MsgContentRequired
	}
	return errs
}

// Submit 完整校验后保存；成功时回调 OnSave、提示并关闭，失败时保持打开
func (w *Wizard) Submit(ctx context.Context) (*models.Post, error) {
	if !w.open {
		return nil, ErrClosed
	}
	if errs := Validate(w.form); len(errs) > 0 {
		w.errs = errs
		w.step = StepForErrors(errs)
		w.deps.Notifier.Notify(NoticeError, MsgFixErrors)
		return nil, &ValidationError{Fields: errs, Step: w.step}
	}

	var (
		saved *models.Post
		err   error
	)
	if w.editingID != 0 {
		saved, err = w.deps.Saver.UpdatePost(ctx, w.editingID, w.form.clone())
	} else {
		saved, err = w.deps.Saver.CreatePost(ctx, w.form.clone())
	}
	if err != nil {
		w.deps.Notifier.Notify(NoticeError, MsgSaveFailed)
		return nil, fmt.Errorf("save post: %w", err)
	}

	if w.deps.OnSave != nil {
		w.deps.OnSave(saved)
	}
	if w.editingID != 0 {
		w.deps.Notifier.Notify(NoticeSuccess, MsgPostUpdated)
	} else {
		w.deps.Notifier.Notify(NoticeSuccess, MsgPostCreated)
	}
	if err := w.Close(ctx); err != nil {
		// 租约带 TTL，释放失败不影响已保存的结果
		logger.Warnw("editor_guard_release_failed", "post_id", saved.ID, "error", err)
	}
	return saved, nil
}

// Cancel 放弃编辑并关闭
func (w *Wizard) Cancel(ctx context.Context) error {
	if !w.open {
		return nil
	}
	if w.deps.OnCancel != nil {
		w.deps.OnCancel()
	}
	return w.Close(ctx)
}

// Close 关闭向导并释放守卫，可重复调用
func (w *Wizard) Close(ctx context.Context) error {
	w.open = false
	if w.released {
		return nil
	}
	w.released = true
	if err := w.deps.Guard.Release(ctx); err != nil {
		return fmt.Errorf("release editor guard: %w", err)
	}
	return nil
}
