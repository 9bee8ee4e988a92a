package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/logger"
)

// respondError maps store errors onto HTTP statuses. Unexpected errors are
// logged and answered with a generic message.
func respondError(c echo.Context, err error) error {
	switch {
	case db.IsValidation(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, db.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, db.ErrDuplicate):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}

	logger.Error("Request failed",
		logger.F("method", c.Request().Method),
		logger.F("path", c.Path()),
		logger.F("error", err))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

// idParam parses a positive integer path parameter
func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &db.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}
