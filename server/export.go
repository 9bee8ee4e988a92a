package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/export"
)

func (s *Server) handleExport(c echo.Context) error {
	ctx := c.Request().Context()
	profile := currentProfile(c)

	rows, err := s.db.FetchTaskTree(ctx, profile.ID, db.TreeQuery{ShowCompleted: true})
	if err != nil {
		return respondError(c, err)
	}
	paths, err := s.db.CategoryPaths(ctx, profile.ID)
	if err != nil {
		return respondError(c, err)
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := export.Markdown(&buf, export.Document{
		ProfileName:   profile.Name,
		Generated:     now,
		Rows:          rows,
		CategoryPaths: paths,
	}); err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.FileName(profile.Name, now)))
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}
