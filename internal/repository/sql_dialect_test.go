package repository

import (
	"strings"
	"testing"
)

func TestBuildLikeConditionSQLite(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"title", "excerpt", " ", "content"})
	if argCount != 3 {
		t.Fatalf("arg count want 3 got %d", argCount)
	}
	want := "(title LIKE ? OR excerpt LIKE ? OR content LIKE ?)"
	if condition != want {
		t.Fatalf("condition mismatch, want %s got %s", want, condition)
	}
}

func TestBuildLikeConditionPostgresUsesILike(t *testing.T) {
	condition, _ := buildLikeConditionByDialect("postgres", []string{"title"})
	if !strings.Contains(condition, "title ILIKE ?") {
		t.Fatalf("postgres condition should use ILIKE, got %s", condition)
	}
}

func TestBuildLikeConditionEmptyColumns(t *testing.T) {
	condition, argCount := buildLikeCondition(nil, nil)
	if condition != "" || argCount != 0 {
		t.Fatalf("empty columns want empty condition got %q/%d", condition, argCount)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}

func TestPageToOffset(t *testing.T) {
	cases := []struct {
		page, size, want int
	}{
		{1, 10, 0},
		{3, 10, 20},
		{0, 10, 0},
		{2, 0, 0},
	}
	for _, tc := range cases {
		if got := PageToOffset(tc.page, tc.size); got != tc.want {
			t.Fatalf("PageToOffset(%d,%d) want %d got %d", tc.page, tc.size, tc.want, got)
		}
	}
}
