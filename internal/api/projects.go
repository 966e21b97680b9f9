package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/FlorianTh2/homepageBackend/internal/apperrors"
	"github.com/FlorianTh2/homepageBackend/internal/auth"
	"github.com/FlorianTh2/homepageBackend/internal/project"
	"github.com/FlorianTh2/homepageBackend/pkg/contract"
	"github.com/FlorianTh2/homepageBackend/pkg/pagination"
)

// listProjects handles GET /projects?userId=&tag=&pageNumber=&pageSize=.
func (s *Server) listProjects(c echo.Context) error {
	query := c.QueryParams()
	filter := project.Filter{
		OwnerID: query.Get(contract.QueryUserID),
		Tag:     query.Get(contract.QueryTag),
	}
	page := pagination.RequestFromQuery(s.link(c.Request().URL.Path), query)

	result, err := s.projects.ListProjects(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagedProjects(result))
}

// getProject handles GET /projects/:projectId.
func (s *Server) getProject(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	p, err := s.projects.GetProject(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract.Response[contract.ProjectResponse]{Data: projectResponse(p)})
}

// createProject handles POST /projects.
func (s *Server) createProject(c echo.Context) error {
	var req contract.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}

	p, err := s.projects.CreateProject(c.Request().Context(), auth.UserID(c), req.Name, req.Tags)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, s.link(contract.ProjectPath(p.ID.String())))
	return c.JSON(http.StatusCreated, contract.Response[contract.ProjectResponse]{Data: projectResponse(p)})
}

// updateProject handles PUT /projects/:projectId.
func (s *Server) updateProject(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	var req contract.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}

	p, err := s.projects.UpdateProject(c.Request().Context(), auth.UserID(c), id, req.Name, req.Tags)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract.Response[contract.ProjectResponse]{Data: projectResponse(p)})
}

// deleteProject handles DELETE /projects/:projectId.
func (s *Server) deleteProject(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	if err := s.projects.DeleteProject(c.Request().Context(), auth.UserID(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func projectID(c echo.Context) (uuid.UUID, error) {
	raw := c.Param(contract.ParamProjectID)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid project id %q", raw)
	}
	return id, nil
}
