package cache

import (
	"net/url"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  CacheKey
		want string
	}{
		{
			name: "route no params",
			key: CacheKey{
				Route: "/api/v1/tags/",
			},
			want: "homepage:/api/v1/tags/",
		},
		{
			name: "route with query params",
			key: CacheKey{
				Route: "/api/v1/projects",
				QueryParams: url.Values{
					"tag": []string{"go"},
				},
			},
			want: "homepage:/api/v1/projects?tag=go",
		},
		{
			name: "query params sorted by name",
			key: CacheKey{
				Route: "/api/v1/projects",
				QueryParams: url.Values{
					"pageSize":   []string{"10"},
					"pageNumber": []string{"2"},
					"tag":        []string{"go"},
				},
			},
			want: "homepage:/api/v1/projects?pageNumber=2&pageSize=10&tag=go",
		},
		{
			name: "repeated values sorted",
			key: CacheKey{
				Route: "/api/v1/projects",
				QueryParams: url.Values{
					"tag": []string{"web", "go"},
				},
			},
			want: "homepage:/api/v1/projects?tag=go&tag=web",
		},
		{
			name: "values escaped",
			key: CacheKey{
				Route: "/api/v1/projects",
				QueryParams: url.Values{
					"tag": []string{"a:b c"},
				},
			},
			want: "homepage:/api/v1/projects?tag=a%3Ab+c",
		},
		{
			name: "per user entry",
			key: CacheKey{
				Route:  "/api/v1/projects",
				UserID: "u1",
			},
			want: "homepage:/api/v1/projects#user=u1",
		},
		{
			name: "route separators escaped",
			key: CacheKey{
				Route:  "/api/v1/tags/a?b#c%d",
				UserID: "u#1",
			},
			want: "homepage:/api/v1/tags/a%3Fb%23c%25d#user=u%231",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("CacheKey.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheKey_OrderIndependent(t *testing.T) {
	a, _ := url.ParseQuery("tag=go&userId=u1&pageNumber=1&pageSize=5")
	b, _ := url.ParseQuery("pageSize=5&pageNumber=1&userId=u1&tag=go")

	ka := CacheKey{Route: "/api/v1/projects", QueryParams: a}
	kb := CacheKey{Route: "/api/v1/projects", QueryParams: b}
	if ka.String() != kb.String() {
		t.Errorf("keys differ: %q vs %q", ka.String(), kb.String())
	}

	kc := CacheKey{Route: "/api/v1/projects", QueryParams: url.Values{"tag": {"web"}}}
	if ka.String() == kc.String() {
		t.Error("different parameters must produce different keys")
	}
}

func TestCacheKey_DoesNotMutateQuery(t *testing.T) {
	q := url.Values{"tag": []string{"web", "go"}}
	_ = CacheKey{Route: "/p", QueryParams: q}.String()
	if q["tag"][0] != "web" {
		t.Error("String() must not reorder the caller's values")
	}
}

func TestCacheKey_DistinctInputsDistinctKeys(t *testing.T) {
	keys := []CacheKey{
		{Route: "/api/v1/tags/foo:bar=1"},
		{Route: "/api/v1/tags/foo", QueryParams: url.Values{"bar": {"1"}}},
		{Route: "/api/v1/tags/foo?bar=1"},
		{Route: "/api/v1/tags/foo:user=u1"},
		{Route: "/api/v1/tags/foo", UserID: "u1"},
		{Route: "/api/v1/tags/foo", QueryParams: url.Values{"user": {"u1"}}},
		{Route: "/api/v1/tags/foo#user=u1"},
		{Route: "/api/v1/tags/foo", QueryParams: url.Values{"a": {"1&b=2"}}},
		{Route: "/api/v1/tags/foo", QueryParams: url.Values{"a": {"1"}, "b": {"2"}}},
		{Route: "/api/v1/tags/a%2Fb"},
		{Route: "/api/v1/tags/a/b"},
	}

	seen := make(map[string]int, len(keys))
	for i, k := range keys {
		s := k.String()
		if j, ok := seen[s]; ok {
			t.Errorf("keys %d and %d both render as %q", j, i, s)
		}
		seen[s] = i
	}
}
