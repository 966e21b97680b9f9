// Package pagination slices ordered sequences into pages and fetches
// paginated collections in parallel.
//
// Paginate is a pure function over an already ordered slice. Page links are
// built from the request's base path and query, with pageNumber and pageSize
// rewritten:
//
//	req := pagination.RequestFromQuery("https://example.com/api/v1/projects", r.URL.Query())
//	page := pagination.Paginate(projects, req)
//	// page.NextLink == "https://example.com/api/v1/projects?pageNumber=3&pageSize=10"
//
// A request with pageNumber or pageSize below 1 (or missing) is not
// paginated: the whole sequence is returned and no links are set.
//
// BatchFetcher is the client-side counterpart. It reads the first page to
// learn the collection size and fetches the remaining pages with a worker
// pool:
//
//	fetcher := pagination.NewBatchFetcher[contract.ProjectResponse](pageFetcher, pagination.DefaultConfig())
//	all, err := fetcher.FetchAll(ctx)
package pagination
