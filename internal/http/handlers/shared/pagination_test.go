package shared

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/inkfolio/internal/repository"

	"github.com/gin-gonic/gin"
)

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		page, size, wantPage, wantSize int
	}{
		{0, 0, 1, 10},
		{2, 500, 2, 50},
		{3, 5, 3, 5},
		{math.MaxInt, 20, repository.MaxPage, 20},
	}
	for _, tc := range cases {
		page, size := NormalizePagination(tc.page, tc.size, 10, 50)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("normalize(%d,%d) want (%d,%d) got (%d,%d)", tc.page, tc.size, tc.wantPage, tc.wantSize, page, size)
		}
	}
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(1, 10, 21)
	if p.TotalPage != 3 {
		t.Fatalf("total page want 3 got %d", p.TotalPage)
	}
	p = BuildPagination(1, 10, 0)
	if p.TotalPage != 0 {
		t.Fatalf("total page want 0 got %d", p.TotalPage)
	}
}

func TestReadPaginationCapsHugePage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/public/posts?page=9223372036854775807&page_size=50", nil)

	page, size := ReadPagination(c, 9, 50)
	if page != repository.MaxPage || size != 50 {
		t.Fatalf("want (%d,50) got (%d,%d)", repository.MaxPage, page, size)
	}
	offset := repository.PageToOffset(page, size)
	if offset <= 0 || offset != (repository.MaxPage-1)*50 {
		t.Fatalf("offset should stay positive, got %d", offset)
	}
}
