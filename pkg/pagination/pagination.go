package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageParams 分页参数
type PageParams struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// PageInfo 分页信息
type PageInfo struct {
	Page       int   `json:"page"`        // 当前页
	PageSize   int   `json:"page_size"`   // 每页大小
	Total      int64 `json:"total"`       // 总记录数
	TotalPages int   `json:"total_pages"` // 总页数
	HasNext    bool  `json:"has_next"`    // 是否有下一页
	HasPrev    bool  `json:"has_prev"`    // 是否有上一页
	Pages      []int `json:"pages"`       // 页码窗口，-1表示省略号
}

// 分页配置
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// Ellipsis 页码窗口中的省略号占位
	Ellipsis = -1

	// 页码窗口阈值：总页数不超过该值时全部展示
	windowThreshold = 7
)

// ParsePageParams 从请求中解析分页参数
func ParsePageParams(c *gin.Context) *PageParams {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("page_size", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = DefaultPage
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return &PageParams{
		Page:     page,
		PageSize: pageSize,
	}
}

// NewPageInfo 计算分页信息
func NewPageInfo(page, pageSize int, total int64) *PageInfo {
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	return &PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
		Pages:      Window(page, totalPages),
	}
}

// Window 计算页码窗口
// 总页数不超过7页时返回全部页码；超过时返回首页、省略号、
// 当前页附近的窗口、省略号、末页，避免页码无限增长
func Window(current, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	if totalPages <= windowThreshold {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	// 当前页靠近首页：1-5 ... 末页
	if current <= 4 {
		return []int{1, 2, 3, 4, 5, Ellipsis, totalPages}
	}

	// 当前页靠近末页：1 ... 末5页
	if current >= totalPages-3 {
		return []int{1, Ellipsis, totalPages - 4, totalPages - 3, totalPages - 2, totalPages - 1, totalPages}
	}

	// 当前页居中：1 ... 前后各一页 ... 末页
	return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, totalPages}
}

// GetOffset 计算offset
func (p *PageParams) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

// GetLimit 计算limit
func (p *PageParams) GetLimit() int {
	return p.PageSize
}
