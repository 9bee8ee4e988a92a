package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/logger"
	"github.com/existflow/famtodo/internal/model"
)

const profileKey = "profile"

// requestLogger logs every request and its outcome
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)
		if err != nil {
			// Let echo write the response so the logged status is final
			c.Error(err)
		}

		res := c.Response()
		logger.Info("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("request_id", res.Header().Get(echo.HeaderXRequestID)),
			logger.F("remote", c.RealIP()),
			logger.F("duration", time.Since(start).String()))

		return nil
	}
}

// profileMiddleware resolves the :profile path segment (numeric id or name)
// and rejects unknown profiles with 404
func (s *Server) profileMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ref := c.Param("profile")
		ctx := c.Request().Context()

		var (
			profile model.Profile
			err     error
		)
		if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
			profile, err = s.db.Profile(ctx, id)
		} else {
			profile, err = s.db.ProfileByName(ctx, ref)
		}
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "profile not found"})
		}
		if err != nil {
			return respondError(c, err)
		}

		c.Set(profileKey, profile)
		return next(c)
	}
}

func currentProfile(c echo.Context) model.Profile {
	p, _ := c.Get(profileKey).(model.Profile)
	return p
}
