package tree

import (
	"reflect"
	"testing"

	"github.com/vanderheijden86/treetable/pkg/model"
)

func roots(n int) []*model.Node {
	records := make([]model.Record, n)
	for i := range records {
		records[i] = rec(i+1, 0)
	}
	return BuildTree(records)
}

// TestPaginateBoundary covers 25 roots at 10 per page
func TestPaginateBoundary(t *testing.T) {
	forest := roots(25)

	tests := []struct {
		page      int
		wantCount int
		wantFirst int
	}{
		{1, 10, 1},
		{2, 10, 11},
		{3, 5, 21},
		{4, 0, 0},
		{0, 0, 0},
		{-1, 0, 0},
	}
	for _, tt := range tests {
		p := Paginate(forest, tt.page, 10)
		if p.Info.TotalPages != 3 || p.Info.TotalItems != 25 || p.Info.ItemsPerPage != 10 {
			t.Errorf("page %d: info = %+v", tt.page, p.Info)
		}
		if p.Info.CurrentPage != tt.page {
			t.Errorf("page %d: current page reported as %d", tt.page, p.Info.CurrentPage)
		}
		if len(p.Roots) != tt.wantCount {
			t.Errorf("page %d: %d roots, want %d", tt.page, len(p.Roots), tt.wantCount)
			continue
		}
		if tt.wantCount > 0 && p.Roots[0].ID != tt.wantFirst {
			t.Errorf("page %d: first root %d, want %d", tt.page, p.Roots[0].ID, tt.wantFirst)
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil, 1, 10)
	if p.Info.TotalPages != 0 || p.Info.TotalItems != 0 || len(p.Roots) != 0 {
		t.Errorf("unexpected page for empty input: %+v", p)
	}
}

// TestPaginateIgnoresDescendants verifies children never move page boundaries
func TestPaginateIgnoresDescendants(t *testing.T) {
	records := []model.Record{rec(1, 0)}
	for i := 2; i <= 40; i++ {
		records = append(records, rec(i, 1))
	}
	records = append(records, rec(100, 0))
	p := Paginate(BuildTree(records), 1, 1)
	if p.Info.TotalItems != 2 || p.Info.TotalPages != 2 {
		t.Errorf("info = %+v, want 2 items on 2 pages", p.Info)
	}
}

func TestPaginateNonPositivePerPage(t *testing.T) {
	p := Paginate(roots(7), 1, 0)
	if len(p.Roots) != 7 || p.Info.TotalPages != 1 {
		t.Errorf("perPage 0 should put everything on one page, got %+v", p.Info)
	}
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 0, nil},
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, Gap, 10}},
		{6, 20, []int{1, Gap, 4, 5, 6, 7, 8, Gap, 20}},
		{4, 7, []int{1, 2, 3, 4, 5, 6, 7}},
		{20, 20, []int{1, Gap, 18, 19, 20}},
	}
	for _, tt := range tests {
		got := PageNumbers(tt.current, tt.total)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PageNumbers(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestRangeLabel(t *testing.T) {
	tests := []struct {
		info model.PageInfo
		want string
	}{
		{model.PageInfo{CurrentPage: 1, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, "1-10 of 25"},
		{model.PageInfo{CurrentPage: 3, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, "21-25 of 25"},
		{model.PageInfo{CurrentPage: 4, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, ""},
		{model.PageInfo{CurrentPage: 1, TotalPages: 0, TotalItems: 0, ItemsPerPage: 10}, ""},
	}
	for _, tt := range tests {
		if got := RangeLabel(tt.info); got != tt.want {
			t.Errorf("RangeLabel(%+v) = %q, want %q", tt.info, got, tt.want)
		}
	}
}
