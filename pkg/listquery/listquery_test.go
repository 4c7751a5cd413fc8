package listquery

import "testing"

func TestSearchChangeResetsPage(t *testing.T) {
	f := New(10)
	f.SetPage(5)

	f.SetSearch("火锅")
	if f.Page != 1 {
		t.Fatalf("搜索变化后页码应重置为1，实际 %d", f.Page)
	}
	if f.Search != "火锅" {
		t.Fatalf("搜索词未写入，实际 %q", f.Search)
	}
}

func TestStatusChangeResetsPage(t *testing.T) {
	f := New(10)
	f.SetPage(3)

	f.SetStatus("pending")
	if f.Page != 1 {
		t.Fatalf("筛选变化后页码应重置为1，实际 %d", f.Page)
	}
}

func TestToggleSortNewKeyStartsAsc(t *testing.T) {
	f := New(10)

	f.ToggleSort("rating")
	if f.SortBy != "rating" || f.SortOrder != OrderAsc {
		t.Fatalf("新字段应从asc开始，实际 %s %s", f.SortBy, f.SortOrder)
	}
}

func TestToggleSortSameKeyFlipsToDesc(t *testing.T) {
	f := New(10)

	f.ToggleSort("rating")
	f.ToggleSort("rating")
	if f.SortOrder != OrderDesc {
		t.Fatalf("同字段二次切换应为desc，实际 %s", f.SortOrder)
	}

	// 两态循环：desc再切回asc，不会回到无排序状态
	f.ToggleSort("rating")
	if f.SortBy != "rating" || f.SortOrder != OrderAsc {
		t.Fatalf("desc后再切换应回到asc，实际 %s %s", f.SortBy, f.SortOrder)
	}
}

func TestToggleSortSwitchKeyFromDesc(t *testing.T) {
	f := New(10)
	f.ToggleSort("rating")
	f.ToggleSort("rating") // rating desc

	f.ToggleSort("name")
	if f.SortBy != "name" || f.SortOrder != OrderAsc {
		t.Fatalf("切换到新字段应从asc开始，实际 %s %s", f.SortBy, f.SortOrder)
	}
}

func TestToggleSortResetsPage(t *testing.T) {
	f := New(10)
	f.SetPage(4)

	f.ToggleSort("created_at")
	if f.Page != 1 {
		t.Fatalf("排序变化后页码应重置为1，实际 %d", f.Page)
	}
}

func TestSetPageKeepsOtherState(t *testing.T) {
	f := New(20)
	f.SetSearch("烧烤")
	f.SetStatus("approved")
	f.ToggleSort("rating")

	f.SetPage(3)
	if f.Page != 3 {
		t.Fatalf("页码应为3，实际 %d", f.Page)
	}
	if f.Search != "烧烤" || f.Status != "approved" || f.SortBy != "rating" {
		t.Fatal("翻页不应改动其他查询状态")
	}

	f.SetPage(0)
	if f.Page != 1 {
		t.Fatalf("非法页码应收敛到1，实际 %d", f.Page)
	}
}

func TestKeyIsStable(t *testing.T) {
	a := New(10)
	a.SetSearch("面馆")
	a.SetStatus("approved")
	a.ToggleSort("rating")

	b := New(10)
	b.ToggleSort("rating")
	b.SetStatus("approved")
	b.SetSearch("面馆")

	if a.Key() != b.Key() {
		t.Fatalf("同一查询状态应产生同一缓存键: %q vs %q", a.Key(), b.Key())
	}
}

func TestKeyDistinguishesState(t *testing.T) {
	a := New(10)
	b := New(10)
	b.SetPage(2)

	if a.Key() == b.Key() {
		t.Fatal("不同页码应产生不同缓存键")
	}
}

func TestValuesOmitsEmptyFields(t *testing.T) {
	f := New(10)
	values := f.Values()

	if values.Get("search") != "" || values.Has("search") {
		t.Fatal("空搜索词不应出现在查询参数中")
	}
	if values.Get("page") != "1" || values.Get("page_size") != "10" {
		t.Fatalf("分页参数缺失: %v", values)
	}
}
