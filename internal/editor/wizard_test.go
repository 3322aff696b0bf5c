package editor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/inkfolio/internal/models"
)

type fakeSaver struct {
	created []Form
	updated map[uint]Form
	err     error
}

func (s *fakeSaver) CreatePost(_ context.Context, form Form) (*models.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, form)
	return &models.Post{ID: uint(len(s.created)), Title: form.Title, Slug: form.Slug, ReadTime: form.ReadTime}, nil
}

func (s *fakeSaver) UpdatePost(_ context.Context, id uint, form Form) (*models.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.updated == nil {
		s.updated = map[uint]Form{}
	}
	s.updated[id] = form
	return &models.Post{ID: id, Title: form.Title, Slug: form.Slug}, nil
}

func (s *fakeSaver) calls() int {
	return len(s.created) + len(s.updated)
}

type countingGuard struct {
	acquired   int
	released   int
	acquireErr error
}

func (g *countingGuard) Acquire(context.Context) error {
	if g.acquireErr != nil {
		return g.acquireErr
	}
	g.acquired++
	return nil
}

func (g *countingGuard) Release(context.Context) error {
	g.released++
	return nil
}

type wizardFixture struct {
	wizard  *Wizard
	saver   *fakeSaver
	guard   *countingGuard
	notices *NoticeLog
	saved   []*models.Post
}

func openWizard(t *testing.T, opts Options, existing *models.Post) *wizardFixture {
	t.Helper()
	fx := &wizardFixture{saver: &fakeSaver{}, guard: &countingGuard{}, notices: &NoticeLog{}}
	w, err := Open(context.Background(), Deps{
		Saver:    fx.saver,
		Notifier: fx.notices,
		Guard:    fx.guard,
		OnSave: func(post *models.Post) {
			fx.saved = append(fx.saved, post)
		},
	}, opts, existing)
	if err != nil {
		t.Fatalf("open wizard failed: %v", err)
	}
	fx.wizard = w
	return fx
}

func validContent() string {
	return strings.Repeat("go is fun ", 12)
}

func TestOpenUsesDefaults(t *testing.T) {
	fx := openWizard(t, Options{DefaultAuthor: "Nitin Bharti", DefaultReadTime: 5}, nil)
	form := fx.wizard.Form()
	if form.Author != "Nitin Bharti" || form.ReadTime != 5 {
		t.Fatalf("defaults mismatch: %+v", form)
	}
	if form.Published || form.Featured {
		t.Fatalf("new post should default to unpublished and not featured")
	}
	if fx.wizard.Step() != StepContent {
		t.Fatalf("step want 1 got %d", fx.wizard.Step())
	}
	if fx.guard.acquired != 1 {
		t.Fatalf("guard acquired want 1 got %d", fx.guard.acquired)
	}
}

func TestOpenFailsWhenGuardUnavailable(t *testing.T) {
	guard := &countingGuard{acquireErr: errors.New("locked")}
	_, err := Open(context.Background(), Deps{Saver: &fakeSaver{}, Guard: guard}, Options{}, nil)
	if err == nil {
		t.Fatalf("open should fail when guard cannot be acquired")
	}
}

func TestHelloWorldScenario(t *testing.T) {
	fx := openWizard(t, Options{DefaultAuthor: "Nitin Bharti", DefaultReadTime: 5}, nil)
	w := fx.wizard

	w.SetTitle("Hello World")
	w.SetContent(strings.TrimSpace(strings.Repeat("lorem ", 250)))
	w.ToggleCategory(1)

	if err := w.Next(); err != nil {
		t.Fatalf("next from step 1 failed: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("next from step 2 failed: %v", err)
	}
	if w.Step() != StepPreview {
		t.Fatalf("step want 3 got %d", w.Step())
	}

	post, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(fx.saver.created) != 1 {
		t.Fatalf("create calls want 1 got %d", len(fx.saver.created))
	}
	saved := fx.saver.created[0]
	if saved.Slug != "hello-world" {
		t.Fatalf("slug want hello-world got %s", saved.Slug)
	}
	if saved.ReadTime != 2 {
		t.Fatalf("read time want 2 got %d", saved.ReadTime)
	}
	if len(saved.CategoryIDs) != 1 || saved.CategoryIDs[0] != 1 {
		t.Fatalf("category ids want [1] got %v", saved.CategoryIDs)
	}
	if len(fx.saved) != 1 || fx.saved[0] != post {
		t.Fatalf("OnSave should receive the persisted post")
	}
	notices := fx.notices.Drain()
	if len(notices) != 1 || notices[0].Kind != NoticeSuccess || notices[0].Message != MsgPostCreated {
		t.Fatalf("unexpected notices: %+v", notices)
	}
	if w.IsOpen() {
		t.Fatalf("wizard should close after successful submit")
	}
	if fx.guard.released != 1 {
		t.Fatalf("guard released want 1 got %d", fx.guard.released)
	}
}

func TestSubmitWithEmptyTitleReturnsToStepOne(t *testing.T) {
	fx := openWizard(t, Options{}, nil)
	w := fx.wizard
	w.SetTitle("Draft")
	w.SetContent(validContent())
	w.ToggleCategory(3)
	_ = w.Next()
	_ = w.Next()
	w.SetTitle("   ")

	_, err := w.Submit(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("submit should fail validation, got %v", err)
	}
	if verr.Step != StepContent || w.Step() != StepContent {
		t.Fatalf("step want 1 got err=%d wizard=%d", verr.Step, w.Step())
	}
	if _, ok := verr.Fields[FieldTitle]; !ok {
		t.Fatalf("title error missing: %v", verr.Fields)
	}
	if fx.saver.calls() != 0 {
		t.Fatalf("saver should not be called")
	}
	notices := fx.notices.Drain()
	if len(notices) != 1 || notices[0].Message != MsgFixErrors {
		t.Fatalf("unexpected notices: %+v", notices)
	}
	if !w.IsOpen() || fx.guard.released != 0 {
		t.Fatalf("wizard should stay open on validation failure")
	}
}

func TestSubmitContentLengthBoundary(t *testing.T) {
	fx := openWizard(t, Options{}, nil)
	w := fx.wizard
	w.SetTitle("Boundary")
	w.ToggleCategory(1)

	w.SetContent("  " + strings.Repeat("x", 99) + "  ")
	_, err := w.Submit(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("99 chars should fail, got %v", err)
	}
	if verr.Fields[FieldContent] != MsgContentTooShort {
		t.Fatalf("content error want %q got %q", MsgContentTooShort, verr.Fields[FieldContent])
	}

	w.SetContent(strings.Repeat("x", 100))
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("100 chars should pass, got %v", err)
	}
}

func TestSubmitWithoutCategoriesGoesToStepTwo(t *testing.T) {
	fx := openWizard(t, Options{}, nil)
	w := fx.wizard
	w.SetTitle("No Category")
	w.SetContent(validContent())
	if err := w.GoToStep(StepPreview); err != nil {
		t.Fatalf("goto preview failed: %v", err)
	}

	_, err := w.Submit(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("submit should fail, got %v", err)
	}
	if verr.Step != StepSettings || w.Step() != StepSettings {
		t.Fatalf("step want 2 got %d", w.Step())
	}
	if verr.Fields[FieldCategories] != MsgCategoryRequired {
		t.Fatalf("categories error mismatch: %v", verr.Fields)
	}
}

func TestSubmitStorageFailureKeepsWizardOpen(t *testing.T) {
	fx := openWizard(t, Options{}, nil)
	fx.saver.err = errors.New("db down")
	w := fx.wizard
	w.SetTitle("Failing")
	w.SetContent(validContent())
	w.ToggleCategory(1)
	_ = w.GoToStep(StepPreview)

	if _, err := w.Submit(context.Background()); err == nil {
		t.Fatalf("submit should surface storage failure")
	}
	notices := fx.notices.Drain()
	if len(notices) != 1 || notices[0].Kind != NoticeError || notices[0].Message != MsgSaveFailed {
		t.Fatalf("unexpected notices: %+v", notices)
	}
	if !w.IsOpen() || w.Step() != StepPreview {
		t.Fatalf("wizard should stay open on step 3")
	}
	if len(fx.saved) != 0 || fx.guard.released != 0 {
		t.Fatalf("OnSave and release should not run on failure")
	}
}

func TestEditModeCallsUpdate(t *testing.T) {
	existing := &models.Post{
		ID:      42,
		Title:   "Existing",
		Slug:    "existing",
		Content: validContent(),
		Categories: []models.Category{
			{ID: 7, Name: "Go"},
		},
		Tags: []models.Tag{},
	}
	fx := openWizard(t, Options{DefaultAuthor: "Nitin Bharti"}, existing)
	w := fx.wizard
	if w.Form().Author != "Nitin Bharti" {
		t.Fatalf("empty author should fall back to default")
	}
	if got := w.Form().CategoryIDs; len(got) != 1 || got[0] != 7 {
		t.Fatalf("categories should be prefilled, got %v", got)
	}

	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, ok := fx.saver.updated[42]; !ok {
		t.Fatalf("update should be called with id 42")
	}
	notices := fx.notices.Drain()
	if len(notices) != 1 || notices[0].Message != MsgPostUpdated {
		t.Fatalf("unexpected notices: %+v", notices)
	}
}

func TestNextValidatesStepOneOneFieldAtATime(t *testing.T) {
	fx := openWizard(t, Options{}, nil)
	w := fx.wizard

	err := w.Next()
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 1 || verr.Fields[FieldTitle] != MsgTitleRequired {
		t.Fatalf("next with empty form should report title only, got %v", err)
	}

	w.SetTitle("Only Title")
	err = w.Next()
	if !errors.As(err, &verr) || verr.Fields[FieldContent] != MsgContentRequired {
		t.Fatalf("next without content should report content, got %v", err)
	}

	w.SetContent("short is fine for stepping")
	for i := 0; i < 5; i++ {
		if err := w.Next(); err != nil {
			t.Fatalf("next failed: %v", err)
		}
	}
	if w.Step() != StepPreview {
		t.Fatalf("step should clamp at 3, got %d", w.Step())
	}
	if len(w.State().Errors) != 0 {
		t.Fatalf("errors should be cleared after advancing")
	}
	for i := 0; i < 5; i++ {
		_ = w.Previous()
	}
	if w.Step() != StepContent {
		t.Fatalf("step should clamp at 1, got %d", w.Step())
	}
}

func TestGoToStep(t *testing.T) {
	fx := openWizard(t, Options{}, nil)
	w := fx.wizard

	for _, target := range []Step{0, 4, -1} {
		if err := w.GoToStep(target); !errors.Is(err, ErrStepInvalid) {
			t.Fatalf("GoToStep(%d) want ErrStepInvalid got %v", target, err)
		}
	}

	err := w.GoToStep(StepSettings)
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("forward jump from empty step 1 should report title and content, got %v", err)
	}

	w.SetTitle("Jump")
	w.SetContent("body")
	if err := w.GoToStep(StepPreview); err != nil {
		t.Fatalf("forward jump should pass: %v", err)
	}
	if err := w.GoToStep(StepSettings); err != nil || w.Step() != StepSettings {
		t.Fatalf("backward jump should always pass: %v", err)
	}
	if err := w.GoToStep(StepContent); err != nil || w.Step() != StepContent {
		t.Fatalf("jump to step 1 should always pass: %v", err)
	}
}

func TestDerivedFieldsOverwriteManualEditsByDefault(t *testing.T) {
	fx := openWizard(t, Options{}, nil)
	w := fx.wizard
	w.SetSlug("custom-slug")
	w.SetReadTime(9)
	w.SetTitle("New Title")
	w.SetContent("a few words")

	form := w.Form()
	if form.Slug != "new-title" {
		t.Fatalf("slug should be regenerated, got %s", form.Slug)
	}
	if form.ReadTime != 1 {
		t.Fatalf("read time should be recomputed, got %d", form.ReadTime)
	}
}

func TestKeepManualOverrides(t *testing.T) {
	fx := openWizard(t, Options{KeepManualOverrides: true}, nil)
	w := fx.wizard
	w.SetTitle("First Title")
	if w.Form().Slug != "first-title" {
		t.Fatalf("untouched slug should follow title")
	}
	w.SetSlug("custom-slug")
	w.SetReadTime(9)
	w.SetTitle("Second Title")
	w.SetContent("a few words")

	form := w.Form()
	if form.Slug != "custom-slug" || form.ReadTime != 9 {
		t.Fatalf("manual values should be kept, got slug=%s read_time=%d", form.Slug, form.ReadTime)
	}
}

func TestApplyPatchExplicitSlugWins(t *testing.T) {
	fx := openWizard(t, Options{}, nil)
	title := "Patched Title"
	slug := "my-slug"
	categories := []uint{2, 3}
	if err := fx.wizard.Apply(Patch{Title: &title, Slug: &slug, CategoryIDs: &categories}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	form := fx.wizard.Form()
	if form.Title != title || form.Slug != slug {
		t.Fatalf("patch mismatch: %+v", form)
	}
	categories[0] = 99
	if fx.wizard.Form().CategoryIDs[0] != 2 {
		t.Fatalf("patch should copy category ids")
	}
}

func TestToggleCategory(t *testing.T) {
	fx := openWizard(t, Options{}, nil)
	w := fx.wizard
	w.ToggleCategory(1)
	w.ToggleCategory(2)
	w.ToggleCategory(1)
	if got := w.Form().CategoryIDs; len(got) != 1 || got[0] != 2 {
		t.Fatalf("toggle result want [2] got %v", got)
	}
}

func TestGuardReleasedExactlyOnce(t *testing.T) {
	fx := openWizard(t, Options{}, nil)
	cancelled := 0
	fx.wizard.deps.OnCancel = func() { cancelled++ }

	if err := fx.wizard.Cancel(context.Background()); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	_ = fx.wizard.Cancel(context.Background())
	_ = fx.wizard.Close(context.Background())

	if fx.guard.released != 1 {
		t.Fatalf("guard released want 1 got %d", fx.guard.released)
	}
	if cancelled != 1 {
		t.Fatalf("OnCancel want 1 call got %d", cancelled)
	}
	if err := fx.wizard.Next(); !errors.Is(err, ErrClosed) {
		t.Fatalf("closed wizard should reject actions, got %v", err)
	}
}
