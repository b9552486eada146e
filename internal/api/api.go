package api

import (
	"github.com/labstack/echo/v4"

	"restaurant-service/internal/apperr"
)

// errorJSON maps the error taxonomy onto HTTP status codes.
func errorJSON(c echo.Context, err error) error {
	switch {
	case apperr.IsNotFound(err):
		return c.JSON(404, map[string]string{"error": err.Error()})
	case apperr.IsInvalid(err):
		return c.JSON(400, map[string]string{"error": err.Error()})
	case apperr.IsConflict(err):
		return c.JSON(409, map[string]string{"error": err.Error()})
	}
	return c.JSON(500, map[string]string{"error": err.Error()})
}
