package pagination

import (
	"net/url"
	"strconv"
)

// Query parameter names used for page selection and in generated links.
const (
	ParamPageNumber = "pageNumber"
	ParamPageSize   = "pageSize"
)

// Request selects a page and carries what is needed to build links to
// neighbouring pages.
type Request struct {
	// PageNumber is 1-based. Values below 1 disable pagination.
	PageNumber int
	// PageSize values below 1 disable pagination.
	PageSize int

	// Path is the base the links are built on, e.g. "https://host/api/v1/projects".
	Path string
	// Query holds the remaining request parameters, preserved in links.
	Query url.Values
}

// Valid reports whether the request asks for a specific page.
func (r Request) Valid() bool {
	return r.PageNumber >= 1 && r.PageSize >= 1
}

// Link returns the URL of page n with the request's page size.
func (r Request) Link(n int) string {
	q := url.Values{}
	for k, v := range r.Query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(ParamPageNumber, strconv.Itoa(n))
	q.Set(ParamPageSize, strconv.Itoa(r.PageSize))
	return r.Path + "?" + q.Encode()
}

// RequestFromQuery builds a Request from URL query parameters. Missing or
// unparsable page parameters leave the request unpaginated.
func RequestFromQuery(path string, query url.Values) Request {
	req := Request{Path: path, Query: url.Values{}}
	for k, v := range query {
		if k == ParamPageNumber || k == ParamPageSize {
			continue
		}
		req.Query[k] = append([]string(nil), v...)
	}
	req.PageNumber, _ = strconv.Atoi(query.Get(ParamPageNumber))
	req.PageSize, _ = strconv.Atoi(query.Get(ParamPageSize))
	return req
}

// Page is one slice of an ordered sequence.
type Page[T any] struct {
	Items []T
	// Total is the length of the whole sequence.
	Total int

	// PageNumber and PageSize are zero when the sequence was not paginated.
	PageNumber int
	PageSize   int

	NextLink     string
	PreviousLink string
}

// Paginated reports whether the page was cut from a larger sequence.
func (p Page[T]) Paginated() bool {
	return p.PageNumber > 0
}

// Paginate returns the page of items selected by req. An invalid request
// returns the whole sequence without links. A page past the end is empty
// and only links back.
func Paginate[T any](items []T, req Request) Page[T] {
	if items == nil {
		items = []T{}
	}
	total := len(items)
	if !req.Valid() {
		return Page[T]{Items: items, Total: total}
	}

	start := total
	if req.PageNumber-1 <= total/req.PageSize {
		start = min((req.PageNumber-1)*req.PageSize, total)
	}
	end := total
	if req.PageSize < total-start {
		end = start + req.PageSize
	}

	page := Page[T]{
		Items:      items[start:end:end],
		Total:      total,
		PageNumber: req.PageNumber,
		PageSize:   req.PageSize,
	}
	if end < total {
		page.NextLink = req.Link(req.PageNumber + 1)
	}
	if req.PageNumber > 1 {
		page.PreviousLink = req.Link(req.PageNumber - 1)
	}
	return page
}
