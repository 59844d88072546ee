package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/collabsync/internal/common"
	"github.com/dmitrijs2005/collabsync/internal/server/models"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type importResponse struct {
	Imported int `json:"imported"`
	Ignored  int `json:"ignored"`
}

// collaboratorResponse renders missing city and company as null.
type collaboratorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	City      *string   `json:"city"`
	Company   *string   `json:"company"`
	CreatedAt time.Time `json:"createdAt"`
}

func newCollaboratorResponse(c models.Collaborator) collaboratorResponse {
	return collaboratorResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		City:      optional(c.City),
		Company:   optional(c.Company),
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// mapError maps error kinds to HTTP status codes and client-facing messages.
func mapError(err error) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: http.StatusText(he.Code)}
	}

	switch common.KindOf(err) {
	case common.ErrorInvalidQuery:
		return http.StatusBadRequest, errorResponse{Error: common.MessageOf(err)}
	case common.ErrorNotFound:
		return http.StatusNotFound, errorResponse{Error: common.MessageOf(err)}
	case common.ErrorUpstreamUnavailable, common.ErrorStoreUnavailable:
		return http.StatusInternalServerError, errorResponse{Error: common.MessageOf(err)}
	default:
		return http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)}
	}
}

func (s *HTTPServer) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		s.logger.Warn(c.Request().Context(), "failed to write error response", "error", writeErr)
	}
}
