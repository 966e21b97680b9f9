package api

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorianTh2/homepageBackend/internal/testutil"
	"github.com/FlorianTh2/homepageBackend/pkg/cache"
	"github.com/FlorianTh2/homepageBackend/pkg/contract"
)

type projectDoc = contract.Response[contract.ProjectResponse]

func (s *testServer) createProject(t *testing.T, userID, name string, tags ...string) contract.ProjectResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, contract.Projects, userID, contract.CreateProjectRequest{Name: name, Tags: tags})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[projectDoc](t, rec).Data
}

func TestCreateAndGetProject(t *testing.T) {
	s := setupTestServer(t, false)

	rec := s.do(t, http.MethodPost, contract.Projects, "u1", contract.CreateProjectRequest{
		Name: "Test Project",
		Tags: []string{"testtag"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[projectDoc](t, rec).Data
	assert.Equal(t, testBaseURL+contract.ProjectPath(created.ID), rec.Header().Get("Location"))
	assert.Equal(t, "Test Project", created.Name)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, []string{"testtag"}, created.TagNames())

	rec = s.do(t, http.MethodGet, contract.ProjectPath(created.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[projectDoc](t, rec).Data
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Test Project", got.Name)
	assert.Equal(t, []string{"testtag"}, got.TagNames())

	second := s.createProject(t, "u2", "Other", "TESTTAG")
	assert.Equal(t, []string{"testtag"}, second.TagNames())
	assert.Equal(t, 1, testutil.CountRows(t, s.db, "tags"))
}

func TestUpdateProject(t *testing.T) {
	s := setupTestServer(t, false)
	p := s.createProject(t, "owner", "site", "go", "web")
	path := contract.ProjectPath(p.ID)

	t.Run("non-owner is forbidden", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, path, "intruder", contract.UpdateProjectRequest{Name: "hijacked", Tags: []string{"evil"}})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", decode[contract.ErrorResponse](t, rec).Code)

		got := decode[projectDoc](t, s.do(t, http.MethodGet, path, "", nil)).Data
		assert.Equal(t, "site", got.Name)
		assert.Equal(t, []string{"go", "web"}, got.TagNames())
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, path, "", contract.UpdateProjectRequest{Name: "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("owner renames and keeps tags", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, path, "owner", `{"name":"renamed"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[projectDoc](t, rec).Data
		assert.Equal(t, "renamed", got.Name)
		assert.Equal(t, []string{"go", "web"}, got.TagNames())
	})

	t.Run("owner replaces tags", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, path, "owner", contract.UpdateProjectRequest{Name: "renamed", Tags: []string{"Rust", "go"}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"rust", "go"}, decode[projectDoc](t, rec).Data.TagNames())
	})

	t.Run("owner clears tags", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, path, "owner", `{"name":"renamed","tags":[]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Empty(t, decode[projectDoc](t, rec).Data.Tags)
	})

	t.Run("missing project", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, contract.ProjectPath("7d444840-9dc0-11d1-b245-5ffdce74fad2"), "owner", contract.UpdateProjectRequest{Name: "x"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteProject(t *testing.T) {
	s := setupTestServer(t, false)
	p := s.createProject(t, "owner", "site", "go")
	path := contract.ProjectPath(p.ID)

	rec := s.do(t, http.MethodDelete, path, "intruder", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodDelete, path, "owner", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, path, "owner", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// tags outlive the projects that used them
	assert.Equal(t, 1, testutil.CountRows(t, s.db, "tags"))
}

func TestListProjects(t *testing.T) {
	s := setupTestServer(t, false)
	for i := range 5 {
		owner := "u1"
		if i%2 == 1 {
			owner = "u2"
		}
		s.createProject(t, owner, fmt.Sprintf("p%d", i), "all", fmt.Sprintf("t%d", i))
	}

	list := func(t *testing.T, query url.Values) contract.PagedResponse[contract.ProjectResponse] {
		t.Helper()
		rec := s.do(t, http.MethodGet, contract.Projects+"?"+query.Encode(), "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[contract.PagedResponse[contract.ProjectResponse]](t, rec)
	}
	names := func(resp contract.PagedResponse[contract.ProjectResponse]) []string {
		out := make([]string, 0, len(resp.Data))
		for _, p := range resp.Data {
			out = append(out, p.Name)
		}
		return out
	}

	t.Run("unpaginated", func(t *testing.T) {
		resp := list(t, url.Values{})
		assert.Equal(t, []string{"p0", "p1", "p2", "p3", "p4"}, names(resp))
		assert.Equal(t, 5, resp.Total)
		assert.Nil(t, resp.PageNumber)
		assert.Empty(t, resp.NextPage)
		assert.Empty(t, resp.PreviousPage)
	})

	t.Run("middle page", func(t *testing.T) {
		resp := list(t, url.Values{"pageNumber": {"2"}, "pageSize": {"2"}})
		assert.Equal(t, []string{"p2", "p3"}, names(resp))
		assert.Equal(t, 5, resp.Total)
		require.NotNil(t, resp.PageNumber)
		assert.Equal(t, 2, *resp.PageNumber)
		assert.Equal(t, testBaseURL+contract.Projects+"?pageNumber=3&pageSize=2", resp.NextPage)
		assert.Equal(t, testBaseURL+contract.Projects+"?pageNumber=1&pageSize=2", resp.PreviousPage)
	})

	t.Run("beyond the end", func(t *testing.T) {
		resp := list(t, url.Values{"pageNumber": {"9"}, "pageSize": {"2"}})
		assert.Empty(t, resp.Data)
		assert.NotNil(t, resp.Data)
		assert.Empty(t, resp.NextPage)
		assert.NotEmpty(t, resp.PreviousPage)
	})

	t.Run("invalid page falls back to everything", func(t *testing.T) {
		resp := list(t, url.Values{"pageNumber": {"0"}, "pageSize": {"2"}})
		assert.Len(t, resp.Data, 5)
		assert.Empty(t, resp.NextPage)
	})

	t.Run("owner filter keeps links", func(t *testing.T) {
		resp := list(t, url.Values{"userId": {"u1"}, "pageNumber": {"1"}, "pageSize": {"2"}})
		assert.Equal(t, []string{"p0", "p2"}, names(resp))
		assert.Equal(t, 3, resp.Total)
		assert.Equal(t, testBaseURL+contract.Projects+"?pageNumber=2&pageSize=2&userId=u1", resp.NextPage)
	})

	t.Run("tag filter is case-insensitive", func(t *testing.T) {
		resp := list(t, url.Values{"tag": {"T3"}})
		assert.Equal(t, []string{"p3"}, names(resp))
	})

	t.Run("filters combine", func(t *testing.T) {
		resp := list(t, url.Values{"tag": {"all"}, "userId": {"u2"}})
		assert.Equal(t, []string{"p1", "p3"}, names(resp))
	})
}

func TestCachedReads(t *testing.T) {
	s := setupTestServer(t, true)
	p := s.createProject(t, "u1", "first")

	rec := s.do(t, http.MethodGet, contract.Projects+"?pageSize=10&pageNumber=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get(cache.HeaderXCache))

	s.createProject(t, "u1", "second")

	// same query in a different order is the same entry and still stale
	rec = s.do(t, http.MethodGet, contract.Projects+"?pageNumber=1&pageSize=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get(cache.HeaderXCache))
	assert.Equal(t, 1, decode[contract.PagedResponse[contract.ProjectResponse]](t, rec).Total)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	rec = s.do(t, http.MethodGet, contract.Projects, "", nil)
	assert.Equal(t, "MISS", rec.Header().Get(cache.HeaderXCache))
	assert.Equal(t, 2, decode[contract.PagedResponse[contract.ProjectResponse]](t, rec).Total)

	t.Run("errors are not cached", func(t *testing.T) {
		missing := contract.ProjectPath("7d444840-9dc0-11d1-b245-5ffdce74fad2")
		for range 2 {
			rec := s.do(t, http.MethodGet, missing, "", nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.NotEqual(t, "HIT", rec.Header().Get(cache.HeaderXCache))
		}
	})

	t.Run("writes are never cached", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, contract.ProjectPath(p.ID), "u1", contract.UpdateProjectRequest{Name: "renamed"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get(cache.HeaderXCache))
	})
}
