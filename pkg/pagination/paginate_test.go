package pagination

import (
	"net/url"
	"reflect"
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate(t *testing.T) {
	const base = "https://example.com/api/v1/projects"

	tests := []struct {
		name      string
		items     []int
		req       Request
		wantItems []int
		wantNext  string
		wantPrev  string
		wantPaged bool
	}{
		{
			name:      "middle page",
			items:     seq(10),
			req:       Request{PageNumber: 2, PageSize: 4, Path: base},
			wantItems: []int{4, 5, 6, 7},
			wantNext:  base + "?pageNumber=3&pageSize=4",
			wantPrev:  base + "?pageNumber=1&pageSize=4",
			wantPaged: true,
		},
		{
			name:      "first page",
			items:     seq(10),
			req:       Request{PageNumber: 1, PageSize: 4, Path: base},
			wantItems: []int{0, 1, 2, 3},
			wantNext:  base + "?pageNumber=2&pageSize=4",
			wantPaged: true,
		},
		{
			name:      "last partial page",
			items:     seq(10),
			req:       Request{PageNumber: 3, PageSize: 4, Path: base},
			wantItems: []int{8, 9},
			wantPrev:  base + "?pageNumber=2&pageSize=4",
			wantPaged: true,
		},
		{
			name:      "exact last page has no next",
			items:     seq(8),
			req:       Request{PageNumber: 2, PageSize: 4, Path: base},
			wantItems: []int{4, 5, 6, 7},
			wantPrev:  base + "?pageNumber=1&pageSize=4",
			wantPaged: true,
		},
		{
			name:      "beyond end",
			items:     seq(3),
			req:       Request{PageNumber: 5, PageSize: 2, Path: base},
			wantItems: []int{},
			wantPrev:  base + "?pageNumber=4&pageSize=2",
			wantPaged: true,
		},
		{
			name:      "zero page number returns everything",
			items:     seq(5),
			req:       Request{PageNumber: 0, PageSize: 2, Path: base},
			wantItems: seq(5),
		},
		{
			name:      "zero page size returns everything",
			items:     seq(5),
			req:       Request{PageNumber: 2, PageSize: 0, Path: base},
			wantItems: seq(5),
		},
		{
			name:      "empty sequence",
			items:     nil,
			req:       Request{PageNumber: 1, PageSize: 10, Path: base},
			wantItems: []int{},
			wantPaged: true,
		},
		{
			name:      "huge page number",
			items:     seq(3),
			req:       Request{PageNumber: int(^uint(0) >> 1), PageSize: 2, Path: base},
			wantItems: []int{},
			wantPrev:  base + "?pageNumber=9223372036854775806&pageSize=2",
			wantPaged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(tt.items, tt.req)

			if !reflect.DeepEqual(page.Items, tt.wantItems) {
				t.Errorf("Items = %v, want %v", page.Items, tt.wantItems)
			}
			if page.Total != len(tt.items) {
				t.Errorf("Total = %d, want %d", page.Total, len(tt.items))
			}
			if page.NextLink != tt.wantNext {
				t.Errorf("NextLink = %q, want %q", page.NextLink, tt.wantNext)
			}
			if page.PreviousLink != tt.wantPrev {
				t.Errorf("PreviousLink = %q, want %q", page.PreviousLink, tt.wantPrev)
			}
			if page.Paginated() != tt.wantPaged {
				t.Errorf("Paginated() = %v, want %v", page.Paginated(), tt.wantPaged)
			}
		})
	}
}

func TestPaginateKeepsQuery(t *testing.T) {
	req := RequestFromQuery("/api/v1/projects", url.Values{
		"tag":        {"go"},
		"userId":     {"u1"},
		"pageNumber": {"2"},
		"pageSize":   {"1"},
	})

	page := Paginate(seq(3), req)

	wantNext := "/api/v1/projects?pageNumber=3&pageSize=1&tag=go&userId=u1"
	if page.NextLink != wantNext {
		t.Errorf("NextLink = %q, want %q", page.NextLink, wantNext)
	}
	wantPrev := "/api/v1/projects?pageNumber=1&pageSize=1&tag=go&userId=u1"
	if page.PreviousLink != wantPrev {
		t.Errorf("PreviousLink = %q, want %q", page.PreviousLink, wantPrev)
	}
}

func TestRequestFromQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		wantNum   int
		wantSize  int
		wantValid bool
	}{
		{name: "both set", query: url.Values{"pageNumber": {"3"}, "pageSize": {"20"}}, wantNum: 3, wantSize: 20, wantValid: true},
		{name: "missing", query: url.Values{}, wantValid: false},
		{name: "unparsable", query: url.Values{"pageNumber": {"two"}, "pageSize": {"20"}}, wantSize: 20, wantValid: false},
		{name: "negative", query: url.Values{"pageNumber": {"-1"}, "pageSize": {"20"}}, wantNum: -1, wantSize: 20, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := RequestFromQuery("/p", tt.query)
			if req.PageNumber != tt.wantNum || req.PageSize != tt.wantSize {
				t.Errorf("got (%d, %d), want (%d, %d)", req.PageNumber, req.PageSize, tt.wantNum, tt.wantSize)
			}
			if req.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v", req.Valid(), tt.wantValid)
			}
			if _, ok := req.Query[ParamPageNumber]; ok {
				t.Error("page parameters should not be kept in Query")
			}
		})
	}
}
