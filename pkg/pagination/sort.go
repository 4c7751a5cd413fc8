package pagination

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// 排序方向常量
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SortParams 排序参数
type SortParams struct {
	SortBy    string `json:"sort_by" form:"sort_by"`
	SortOrder string `json:"sort_order" form:"sort_order"`
}

// ParseSortParams 从请求中解析排序参数
// allowed 为允许排序的字段白名单，非法字段回落到 defaultBy
func ParseSortParams(c *gin.Context, allowed map[string]bool, defaultBy string) *SortParams {
	sortBy := c.DefaultQuery("sort_by", defaultBy)
	if !allowed[sortBy] {
		sortBy = defaultBy
	}

	sortOrder := c.DefaultQuery("sort_order", OrderDesc)
	if sortOrder != OrderAsc && sortOrder != OrderDesc {
		sortOrder = OrderDesc
	}

	return &SortParams{
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

// OrderClause 生成gorm排序子句，如 "created_at DESC"
func (s *SortParams) OrderClause() string {
	if s.SortBy == "" {
		return ""
	}
	if s.SortOrder == OrderDesc {
		return fmt.Sprintf("%s DESC", s.SortBy)
	}
	return fmt.Sprintf("%s ASC", s.SortBy)
}
