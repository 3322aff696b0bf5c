package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkfolio/internal/config"
	"github.com/inkfolio/internal/constants"
	"github.com/inkfolio/internal/logger"
	"github.com/inkfolio/internal/models"
	"github.com/inkfolio/internal/provider"
	"github.com/inkfolio/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

type routerFixture struct {
	engine    *gin.Engine
	container *provider.Container
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.L = zap.NewNop()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := models.OpenDB("sqlite", "file:router_"+name+"?mode=memory&cache=shared", false)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.JWT.SecretKey = "router-test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Blog = config.BlogConfig{
		DefaultAuthor:           "Nitin Bharti",
		DefaultReadTime:         5,
		PageSize:                10,
		MaxPageSize:             50,
		EditorSessionTTLMinutes: 30,
	}
	container := provider.NewContainerWithDB(cfg, db)
	return &routerFixture{engine: SetupRouter(cfg, container), container: container}
}

func (f *routerFixture) createAdmin(t *testing.T, username string, isSuper bool, roles ...string) {
	t.Helper()
	hash, err := f.container.AuthService.HashPassword("secret-pass")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{Username: username, DisplayName: username, PasswordHash: hash, IsSuper: isSuper}
	if err := f.container.AdminRepo.Create(admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if len(roles) > 0 {
		if err := f.container.AuthzService.SetAdminRoles(admin.ID, roles); err != nil {
			t.Fatalf("set admin roles failed: %v", err)
		}
	}
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s http status want 200 got %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal %s %s failed: %v body=%s", method, path, err, w.Body.String())
	}
	return resp
}

func (f *routerFixture) login(t *testing.T, username string) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/v1/admin/login", "", gin.H{"username": username, "password": "secret-pass"})
	if resp.StatusCode != 0 {
		t.Fatalf("login want status_code 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("login token missing: %v", err)
	}
	return data.Token
}

func TestAdminPostLifecycleThroughRouter(t *testing.T) {
	f := newRouterFixture(t)
	f.createAdmin(t, "root", true)
	token := f.login(t, "root")

	resp := f.do(t, http.MethodPost, "/api/v1/admin/categories", token, gin.H{"name": "Technology"})
	if resp.StatusCode != 0 {
		t.Fatalf("create category want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var category models.Category
	if err := json.Unmarshal(resp.Data, &category); err != nil {
		t.Fatalf("decode category failed: %v", err)
	}

	resp = f.do(t, http.MethodPost, "/api/v1/admin/posts", token, gin.H{
		"title":        "Hello Gin",
		"content":      strings.Repeat("routing through gin handlers ", 6),
		"published":    true,
		"category_ids": []uint{category.ID},
	})
	if resp.StatusCode != 0 {
		t.Fatalf("create post want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var post models.Post
	if err := json.Unmarshal(resp.Data, &post); err != nil {
		t.Fatalf("decode post failed: %v", err)
	}
	if post.Slug != "hello-gin" {
		t.Fatalf("slug want hello-gin got %s", post.Slug)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/public/posts", "", nil)
	if resp.StatusCode != 0 || resp.Pagination.Total != 1 {
		t.Fatalf("public list want 1 post got code=%d total=%d", resp.StatusCode, resp.Pagination.Total)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/public/posts/search?q=gin", "", nil)
	var found []models.Post
	if err := json.Unmarshal(resp.Data, &found); err != nil || len(found) != 1 {
		t.Fatalf("search want 1 result got %d (%v)", len(found), err)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/public/posts/hello-gin", "", nil)
	if resp.StatusCode != 0 {
		t.Fatalf("get by slug want 0 got %d", resp.StatusCode)
	}

	resp = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/posts/%d/published", post.ID), token, gin.H{"published": false})
	if resp.StatusCode != 0 {
		t.Fatalf("unpublish want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	resp = f.do(t, http.MethodGet, "/api/v1/public/posts/hello-gin", "", nil)
	if resp.StatusCode != 404 {
		t.Fatalf("draft by slug want 404 got %d", resp.StatusCode)
	}

	resp = f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/posts/%d", post.ID), token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("delete want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	resp = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/posts/%d", post.ID), token, nil)
	if resp.StatusCode != 404 {
		t.Fatalf("get deleted want 404 got %d", resp.StatusCode)
	}
}

func TestAdminPostValidationReturnsFieldErrors(t *testing.T) {
	f := newRouterFixture(t)
	f.createAdmin(t, "root", true)
	token := f.login(t, "root")

	resp := f.do(t, http.MethodPost, "/api/v1/admin/posts", token, gin.H{"title": "", "content": "short"})
	if resp.StatusCode != 400 {
		t.Fatalf("invalid post want 400 got %d", resp.StatusCode)
	}
	var data struct {
		Errors map[string]string `json:"errors"`
		Step   int               `json:"step"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode validation data failed: %v", err)
	}
	if data.Errors["title"] == "" || data.Errors["content"] == "" {
		t.Fatalf("expected title and content errors got %v", data.Errors)
	}
	if data.Step != 1 {
		t.Fatalf("step want 1 got %d", data.Step)
	}
}

func TestAdminRoutesRequireTokenAndPermission(t *testing.T) {
	f := newRouterFixture(t)
	f.createAdmin(t, "reader", false, constants.RoleViewer)

	resp := f.do(t, http.MethodGet, "/api/v1/admin/posts", "", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("missing token want 401 got %d", resp.StatusCode)
	}

	token := f.login(t, "reader")
	resp = f.do(t, http.MethodGet, "/api/v1/admin/posts", token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("viewer list want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	resp = f.do(t, http.MethodPost, "/api/v1/admin/posts", token, gin.H{"title": "nope"})
	if resp.StatusCode != 403 {
		t.Fatalf("viewer create want 403 got %d", resp.StatusCode)
	}

	resp = f.do(t, http.MethodGet, "/api/v1/admin/me", token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("me want 0 got %d", resp.StatusCode)
	}
	var me struct {
		Roles       []string `json:"roles"`
		Permissions []struct {
			Object string `json:"object"`
			Action string `json:"action"`
		} `json:"permissions"`
	}
	if err := json.Unmarshal(resp.Data, &me); err != nil {
		t.Fatalf("decode me failed: %v", err)
	}
	if len(me.Roles) != 1 || me.Roles[0] != "role:viewer" {
		t.Fatalf("roles want [role:viewer] got %v", me.Roles)
	}
	if len(me.Permissions) != 1 || me.Permissions[0].Object != "/admin/*" || me.Permissions[0].Action != "GET" {
		t.Fatalf("permissions want [GET /admin/*] got %+v", me.Permissions)
	}

	resp = f.do(t, http.MethodPost, "/api/v1/admin/logout", token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("logout want 0 got %d", resp.StatusCode)
	}
	resp = f.do(t, http.MethodGet, "/api/v1/admin/me", token, nil)
	if resp.StatusCode != 401 {
		t.Fatalf("revoked token want 401 got %d", resp.StatusCode)
	}
}

func TestEditorWizardThroughRouter(t *testing.T) {
	f := newRouterFixture(t)
	f.createAdmin(t, "root", true)
	token := f.login(t, "root")

	category, err := f.container.TaxonomyService.CreateCategory(service.TaxonomyInput{Name: "Design"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	resp := f.do(t, http.MethodPost, "/api/v1/admin/editor/sessions", token, gin.H{})
	if resp.StatusCode != 0 {
		t.Fatalf("open session want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var snapshot struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(resp.Data, &snapshot); err != nil || snapshot.SessionID == "" {
		t.Fatalf("session id missing: %v", err)
	}
	base := "/api/v1/admin/editor/sessions/" + snapshot.SessionID

	resp = f.do(t, http.MethodPost, base+"/next", token, nil)
	if resp.StatusCode != 400 {
		t.Fatalf("next with empty form want 400 got %d", resp.StatusCode)
	}

	resp = f.do(t, http.MethodPatch, base, token, gin.H{
		"title":   "Wizard Post",
		"content": strings.Repeat("written in the wizard ", 6),
	})
	if resp.StatusCode != 0 {
		t.Fatalf("patch want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	resp = f.do(t, http.MethodPost, base+"/next", token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("next want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	resp = f.do(t, http.MethodPatch, base, token, gin.H{"category_ids": []uint{category.ID}})
	if resp.StatusCode != 0 {
		t.Fatalf("toggle category want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	resp = f.do(t, http.MethodPost, base+"/submit", token, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("submit want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}

	resp = f.do(t, http.MethodGet, base, token, nil)
	if resp.StatusCode != 404 {
		t.Fatalf("closed session want 404 got %d", resp.StatusCode)
	}
	posts, total, err := f.container.PostService.ListAdmin(service.AdminListQuery{Page: 1, PageSize: 10})
	if err != nil || total != 1 || posts[0].Slug != "wizard-post" {
		t.Fatalf("want saved wizard-post got total=%d err=%v", total, err)
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	f := newRouterFixture(t)
	resp := f.do(t, http.MethodGet, "/api/v1/public/nope", "", nil)
	if resp.StatusCode != 404 {
		t.Fatalf("unknown route want 404 got %d", resp.StatusCode)
	}
}

func TestAdminLoginRequiresTurnstileWhenEnabled(t *testing.T) {
	verifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"success":%t}`, r.PostForm.Get("response") == "human")
	}))
	defer verifier.Close()

	f := newRouterFixture(t)
	f.container.CaptchaService = service.NewCaptchaService(config.CaptchaConfig{
		Provider: constants.CaptchaProviderTurnstile,
		Scenes:   config.CaptchaSceneConfig{Login: true},
		Turnstile: config.CaptchaTurnstileConfig{
			SiteKey:   "site-key",
			SecretKey: "secret-key",
			VerifyURL: verifier.URL,
		},
	})
	f.createAdmin(t, "root", true)

	resp := f.do(t, http.MethodGet, "/api/v1/admin/captcha", "", nil)
	if resp.StatusCode != 0 {
		t.Fatalf("captcha want status_code 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var challenge service.CaptchaChallenge
	if err := json.Unmarshal(resp.Data, &challenge); err != nil {
		t.Fatalf("decode captcha failed: %v", err)
	}
	if !challenge.Enabled || challenge.Provider != constants.CaptchaProviderTurnstile || challenge.SiteKey != "site-key" {
		t.Fatalf("unexpected captcha challenge: %+v", challenge)
	}

	resp = f.do(t, http.MethodPost, "/api/v1/admin/login", "", gin.H{"username": "root", "password": "secret-pass"})
	if resp.StatusCode != 400 {
		t.Fatalf("login without captcha want 400 got %d", resp.StatusCode)
	}
	resp = f.do(t, http.MethodPost, "/api/v1/admin/login", "", gin.H{
		"username":        "root",
		"password":        "secret-pass",
		"captcha_payload": gin.H{"turnstile_token": "robot"},
	})
	if resp.StatusCode != 400 {
		t.Fatalf("login with rejected token want 400 got %d", resp.StatusCode)
	}
	resp = f.do(t, http.MethodPost, "/api/v1/admin/login", "", gin.H{
		"username":        "root",
		"password":        "secret-pass",
		"captcha_payload": gin.H{"turnstile_token": "human"},
	})
	if resp.StatusCode != 0 {
		t.Fatalf("login with valid token want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
}

func TestAdminCaptchaDisabledByDefault(t *testing.T) {
	f := newRouterFixture(t)
	resp := f.do(t, http.MethodGet, "/api/v1/admin/captcha", "", nil)
	var challenge service.CaptchaChallenge
	if err := json.Unmarshal(resp.Data, &challenge); err != nil {
		t.Fatalf("decode captcha failed: %v", err)
	}
	if challenge.Enabled || challenge.Provider != constants.CaptchaProviderNone {
		t.Fatalf("captcha should be disabled, got %+v", challenge)
	}
}
