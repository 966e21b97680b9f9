package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/labstack/echo/v4"

	"github.com/FlorianTh2/homepageBackend/internal/apperrors"
	"github.com/FlorianTh2/homepageBackend/pkg/contract"
)

// Retry-After advertised on 503 answers.
const (
	headerRetryAfter  = "Retry-After"
	retryAfterSeconds = "1"
)

// handleError renders every error returned by a handler or middleware as a
// contract.ErrorResponse.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.describe(err, c)
	if status == http.StatusServiceUnavailable {
		c.Response().Header().Set(headerRetryAfter, retryAfterSeconds)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		s.logger.Error().Err(werr).Msg("failed to write error response")
	}
}

func (s *Server) describe(err error, c echo.Context) (int, contract.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) && apperrors.Code(err) == platformerrors.CodeUnknown {
		return he.Code, contract.ErrorResponse{
			Code:           statusCode(he.Code),
			Message:        fmt.Sprint(he.Message),
			Classification: string(classify(he.Code)),
		}
	}

	status := apperrors.HTTPStatus(err)
	log := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		log = s.logger.Error()
	}
	log.Err(err).
		Str("method", c.Request().Method).
		Str("route", c.Path()).
		Int("status", status).
		Msg("request failed")

	if status == http.StatusInternalServerError {
		return status, contract.ErrorResponse{
			Code:           string(platformerrors.CodeInternal),
			Message:        "internal server error",
			Classification: string(platformerrors.ClassificationPermanent),
		}
	}

	resp := apperrors.Body(err)
	return status, contract.ErrorResponse{
		Code:           resp.Code,
		Message:        resp.Message,
		Classification: resp.Classification,
		Context:        resp.Context,
	}
}

// statusCode turns an HTTP status into an error code, e.g. 405 into
// "METHOD_NOT_ALLOWED".
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return string(platformerrors.CodeUnknown)
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

func classify(status int) platformerrors.ErrorClassification {
	if status == http.StatusServiceUnavailable || status == http.StatusTooManyRequests {
		return platformerrors.ClassificationRetryable
	}
	return platformerrors.ClassificationPermanent
}
