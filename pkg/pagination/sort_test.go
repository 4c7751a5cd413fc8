package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func sortContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParseSortParamsDefaults(t *testing.T) {
	allowed := map[string]bool{"created_at": true, "name": true}

	sort := ParseSortParams(sortContext(""), allowed, "created_at")
	if sort.SortBy != "created_at" || sort.SortOrder != OrderDesc {
		t.Fatalf("缺省应为 created_at desc，实际 %s %s", sort.SortBy, sort.SortOrder)
	}
}

func TestParseSortParamsRejectsUnknownField(t *testing.T) {
	allowed := map[string]bool{"created_at": true}

	// 白名单外的字段回落到默认值
	sort := ParseSortParams(sortContext("sort_by=password_hash&sort_order=asc"), allowed, "created_at")
	if sort.SortBy != "created_at" {
		t.Fatalf("非法排序字段应回落到默认值，实际 %s", sort.SortBy)
	}
	if sort.SortOrder != OrderAsc {
		t.Fatalf("排序方向应保留，实际 %s", sort.SortOrder)
	}
}

func TestParseSortParamsRejectsUnknownOrder(t *testing.T) {
	allowed := map[string]bool{"name": true}

	sort := ParseSortParams(sortContext("sort_by=name&sort_order=sideways"), allowed, "created_at")
	if sort.SortOrder != OrderDesc {
		t.Fatalf("非法排序方向应回落到desc，实际 %s", sort.SortOrder)
	}
}

func TestOrderClause(t *testing.T) {
	if clause := (&SortParams{SortBy: "rating", SortOrder: OrderDesc}).OrderClause(); clause != "rating DESC" {
		t.Fatalf("OrderClause = %q", clause)
	}
	if clause := (&SortParams{SortBy: "name", SortOrder: OrderAsc}).OrderClause(); clause != "name ASC" {
		t.Fatalf("OrderClause = %q", clause)
	}
	if clause := (&SortParams{}).OrderClause(); clause != "" {
		t.Fatalf("空排序字段应返回空子句，实际 %q", clause)
	}
}
