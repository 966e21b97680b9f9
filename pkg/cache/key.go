package cache

import (
	"net/url"
	"sort"
	"strings"
)

// keyPrefix namespaces all keys written by this package.
const keyPrefix = "homepage"

// CacheKey identifies a cached response.
type CacheKey struct {
	// Route is the request path (e.g., "/api/v1/projects")
	Route string

	// QueryParams are the request query parameters
	QueryParams url.Values

	// UserID is set for routes whose response depends on the caller (empty for shared entries)
	UserID string
}

// String generates a deterministic cache key string. Parameter names are
// sorted, and so are the values of a repeated parameter, so the key does not
// depend on the order parameters were sent in.
//
// Every segment is escaped before the separators are added, so no route,
// parameter or user can produce another entry's separator and two distinct
// keys never render to the same string.
// Format: homepage:route?query1=val1&query1=val2&query2=val#user=id
//
// Example:
//
//	homepage:/api/v1/projects?pageNumber=2&pageSize=10&tag=go
func (k CacheKey) String() string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	b.WriteByte(':')
	b.WriteString(escapeRoute(k.Route))

	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		sep := byte('?')
		for _, key := range queryKeys {
			values := append([]string(nil), k.QueryParams[key]...)
			sort.Strings(values)
			for _, value := range values {
				b.WriteByte(sep)
				b.WriteString(url.QueryEscape(key))
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(value))
				sep = '&'
			}
		}
	}

	if k.UserID != "" {
		b.WriteString("#user=")
		b.WriteString(url.QueryEscape(k.UserID))
	}

	return b.String()
}

// escapeRoute escapes each path segment. The output never contains '?' or
// '#', and a literal '%' in the input becomes "%25".
func escapeRoute(route string) string {
	segments := strings.Split(route, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
