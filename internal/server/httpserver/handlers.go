package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/collabsync/internal/server/services"
	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Message: "API is running"})
}

func (s *HTTPServer) importCollaborators(c echo.Context) error {
	res, err := s.service.ImportAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, importResponse{Imported: res.Imported, Ignored: res.Ignored})
}

func (s *HTTPServer) listCollaborators(c echo.Context) error {
	page, err := s.service.List(c.Request().Context(), services.ListQuery{
		Page:   c.QueryParam("page"),
		Limit:  c.QueryParam("limit"),
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
	})
	if err != nil {
		return err
	}

	data := make([]collaboratorResponse, len(page.Data))
	for i, col := range page.Data {
		data[i] = newCollaboratorResponse(col)
	}

	return c.JSON(http.StatusOK, services.Page[collaboratorResponse]{
		Data:       data,
		Pagination: page.Pagination,
	})
}

func (s *HTTPServer) getCollaborator(c echo.Context) error {
	col, err := s.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCollaboratorResponse(*col))
}

func (s *HTTPServer) deleteCollaborator(c echo.Context) error {
	if err := s.service.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
