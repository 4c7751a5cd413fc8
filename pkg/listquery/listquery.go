package listquery

import (
	"net/url"
	"strconv"
)

// 排序方向常量
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// FilterState 列表页查询状态
// 管理台每个列表页持有一份：搜索词、状态筛选、排序、分页。
// 约定：搜索、筛选、排序任一变化都会把页码重置回第1页，
// 避免出现"新筛选+旧页码"的中间状态
type FilterState struct {
	Search    string `json:"search"`
	Status    string `json:"status"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

// New 创建默认查询状态
func New(pageSize int) *FilterState {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &FilterState{
		Page:     1,
		PageSize: pageSize,
	}
}

// SetSearch 更新搜索词并重置页码
func (f *FilterState) SetSearch(search string) {
	f.Search = search
	f.Page = 1
}

// SetStatus 更新状态筛选并重置页码
func (f *FilterState) SetStatus(status string) {
	f.Status = status
	f.Page = 1
}

// ToggleSort 切换排序
// 同一字段：asc -> desc（两态循环，不回到无排序状态）；
// 切换到新字段：无论之前状态如何都从 asc 开始。
// 排序变化同样重置页码
func (f *FilterState) ToggleSort(key string) {
	if f.SortBy == key && f.SortOrder == OrderAsc {
		f.SortOrder = OrderDesc
	} else {
		f.SortBy = key
		f.SortOrder = OrderAsc
	}
	f.Page = 1
}

// SetPage 翻页（不重置其他状态）
func (f *FilterState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	f.Page = page
}

// Values 序列化为查询参数，用于构建上游接口请求
func (f *FilterState) Values() url.Values {
	values := url.Values{}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.Status != "" {
		values.Set("status", f.Status)
	}
	if f.SortBy != "" {
		values.Set("sort_by", f.SortBy)
		order := f.SortOrder
		if order == "" {
			order = OrderAsc
		}
		values.Set("sort_order", order)
	}
	values.Set("page", strconv.Itoa(f.Page))
	values.Set("page_size", strconv.Itoa(f.PageSize))
	return values
}

// Key 生成缓存键片段，同一查询状态必须产生同一键
func (f *FilterState) Key() string {
	return f.Values().Encode()
}
