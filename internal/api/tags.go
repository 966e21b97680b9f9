package api

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/FlorianTh2/homepageBackend/internal/apperrors"
	"github.com/FlorianTh2/homepageBackend/internal/auth"
	"github.com/FlorianTh2/homepageBackend/pkg/contract"
)

// listTags handles GET /tags.
func (s *Server) listTags(c echo.Context) error {
	tags, err := s.tags.ListTags(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]contract.TagResponse, 0, len(tags))
	for _, t := range tags {
		data = append(data, tagResponse(t))
	}
	return c.JSON(http.StatusOK, contract.Response[[]contract.TagResponse]{Data: data})
}

// getTag handles GET /tags/:tagName.
func (s *Server) getTag(c echo.Context) error {
	name, err := tagName(c)
	if err != nil {
		return err
	}

	t, err := s.tags.GetTag(c.Request().Context(), name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract.Response[contract.TagResponse]{Data: tagResponse(t)})
}

// createTag handles POST /tags. Creating an existing tag returns it
// unchanged.
func (s *Server) createTag(c echo.Context) error {
	var req contract.CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}

	t, err := s.tags.CreateTag(c.Request().Context(), req.TagName, auth.UserID(c))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, s.link(contract.TagPath(t.Name)))
	return c.JSON(http.StatusCreated, contract.Response[contract.TagResponse]{Data: tagResponse(t)})
}

// deleteTag handles DELETE /tags/:tagName. Deleting an unknown tag
// succeeds.
func (s *Server) deleteTag(c echo.Context) error {
	name, err := tagName(c)
	if err != nil {
		return err
	}

	deleted, err := s.tags.DeleteTag(c.Request().Context(), name)
	if err != nil {
		return err
	}
	s.logger.Info().
		Str("tag", name).
		Bool("deleted", deleted).
		Str("user_id", auth.UserID(c)).
		Msg("tag delete")
	return c.NoContent(http.StatusNoContent)
}

// tagName returns the decoded :tagName parameter. A value that does not
// decode is used as is.
func tagName(c echo.Context) (string, error) {
	raw := c.Param(contract.ParamTagName)
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}
	if name == "" {
		return "", apperrors.Validation("tag name is required")
	}
	return name, nil
}
