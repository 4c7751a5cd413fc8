package pagination

import (
	"reflect"
	"testing"
)

func TestWindowAllPagesShown(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 0, []int{}},
		{1, 1, []int{1}},
		{2, 5, []int{1, 2, 3, 4, 5}},
		{7, 7, []int{1, 2, 3, 4, 5, 6, 7}},
	}
	for _, tt := range tests {
		got := Window(tt.current, tt.total)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("Window(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestWindowNearStart(t *testing.T) {
	for current := 1; current <= 4; current++ {
		got := Window(current, 20)
		want := []int{1, 2, 3, 4, 5, Ellipsis, 20}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Window(%d, 20) = %v, want %v", current, got, want)
		}
	}
}

func TestWindowNearEnd(t *testing.T) {
	for current := 17; current <= 20; current++ {
		got := Window(current, 20)
		want := []int{1, Ellipsis, 16, 17, 18, 19, 20}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Window(%d, 20) = %v, want %v", current, got, want)
		}
	}
}

func TestWindowMiddle(t *testing.T) {
	got := Window(10, 20)
	want := []int{1, Ellipsis, 9, 10, 11, Ellipsis, 20}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Window(10, 20) = %v, want %v", got, want)
	}
}

func TestWindowClampsCurrent(t *testing.T) {
	if got := Window(0, 20); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5, Ellipsis, 20}) {
		t.Fatalf("越界页码应被收敛到首页，got %v", got)
	}
	if got := Window(99, 20); !reflect.DeepEqual(got, []int{1, Ellipsis, 16, 17, 18, 19, 20}) {
		t.Fatalf("越界页码应被收敛到末页，got %v", got)
	}
}

// 窗口始终包含首末页，长度有上界
func TestWindowBounds(t *testing.T) {
	for total := 8; total <= 50; total++ {
		for current := 1; current <= total; current++ {
			pages := Window(current, total)
			if len(pages) != 7 {
				t.Fatalf("Window(%d, %d) 长度 %d，应恒为7", current, total, len(pages))
			}
			if pages[0] != 1 {
				t.Fatalf("Window(%d, %d) 首元素应为1", current, total)
			}
			if pages[len(pages)-1] != total {
				t.Fatalf("Window(%d, %d) 末元素应为%d", current, total, total)
			}

			found := false
			for _, p := range pages {
				if p == current {
					found = true
				}
			}
			if !found {
				t.Fatalf("Window(%d, %d) 应包含当前页", current, total)
			}
		}
	}
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(2, 10, 95)

	if info.TotalPages != 10 {
		t.Fatalf("总页数应为10，实际 %d", info.TotalPages)
	}
	if !info.HasNext || !info.HasPrev {
		t.Fatal("第2页应同时有上一页和下一页")
	}
	want := []int{1, 2, 3, 4, 5, Ellipsis, 10}
	if !reflect.DeepEqual(info.Pages, want) {
		t.Fatalf("页码窗口 = %v, want %v", info.Pages, want)
	}
}

func TestNewPageInfoSinglePage(t *testing.T) {
	info := NewPageInfo(1, 10, 3)

	if info.TotalPages != 1 {
		t.Fatalf("总页数应为1，实际 %d", info.TotalPages)
	}
	if info.HasNext || info.HasPrev {
		t.Fatal("单页结果不应有上一页或下一页")
	}
	if !reflect.DeepEqual(info.Pages, []int{1}) {
		t.Fatalf("页码窗口 = %v, want [1]", info.Pages)
	}
}

func TestPageParamsOffset(t *testing.T) {
	p := &PageParams{Page: 3, PageSize: 20}
	if p.GetOffset() != 40 {
		t.Fatalf("offset应为40，实际 %d", p.GetOffset())
	}
	if p.GetLimit() != 20 {
		t.Fatalf("limit应为20，实际 %d", p.GetLimit())
	}
}
