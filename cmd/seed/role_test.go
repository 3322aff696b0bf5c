package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/inkfolio/internal/authz"
	"github.com/inkfolio/internal/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSeedAuthz(t *testing.T) *authz.Service {
	t.Helper()
	logger.L = zap.NewNop()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:seed_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	return svc
}

func TestGrantRoleCreatesAssignableRole(t *testing.T) {
	svc := newSeedAuthz(t)

	exists, err := roleExists(svc, "reviewer")
	if err != nil || exists {
		t.Fatalf("reviewer should not exist yet, exists=%v err=%v", exists, err)
	}

	var out bytes.Buffer
	if err := grantRole(&out, svc, "reviewer", "get", "/api/v1/admin/posts/:id"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if got := out.String(); got != "granted GET /admin/posts/:id to role:reviewer\n" {
		t.Fatalf("unexpected grant output %q", got)
	}
	out.Reset()
	if err := grantRole(&out, svc, "reviewer", "GET", "/admin/posts/:id"); err != nil {
		t.Fatalf("repeat grant failed: %v", err)
	}
	if !strings.Contains(out.String(), "already has") {
		t.Fatalf("repeat grant should report existing policy, got %q", out.String())
	}
	if err := grantRole(&out, svc, "reviewer", "GET", " "); err == nil {
		t.Fatalf("blank path should be rejected")
	}

	exists, err = roleExists(svc, "reviewer")
	if err != nil || !exists {
		t.Fatalf("reviewer should exist after grant, exists=%v err=%v", exists, err)
	}
	if err := svc.SetAdminRoles(9, []string{"reviewer"}); err != nil {
		t.Fatalf("assign reviewer failed: %v", err)
	}
	allow, err := svc.EnforceAdmin(9, "/api/v1/admin/posts/12", "GET")
	if err != nil || !allow {
		t.Fatalf("reviewer should read posts, allow=%v err=%v", allow, err)
	}
}

func TestPrintRolesListsBuiltinPolicies(t *testing.T) {
	svc := newSeedAuthz(t)
	var out bytes.Buffer
	if err := printRoles(&out, svc); err != nil {
		t.Fatalf("print roles failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 9 {
		t.Fatalf("want header plus 8 policy lines got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "ROLE") {
		t.Fatalf("first line should be the header, got %q", lines[0])
	}
	if !strings.Contains(out.String(), "role:viewer") || !strings.Contains(out.String(), "GET /admin/*") {
		t.Fatalf("viewer policy missing:\n%s", out.String())
	}
}
