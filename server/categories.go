package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/famtodo/internal/model"
)

// CreateCategoryRequest is the body of POST /categories
type CreateCategoryRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

func (s *Server) handleListCategories(c echo.Context) error {
	categories, err := s.db.CategoriesWithPaths(c.Request().Context(), currentProfile(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return c.JSON(http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	category, err := s.db.InsertCategory(c.Request().Context(), currentProfile(c).ID, req.Name, req.ParentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// handleDeleteCategory always answers with the deletion outcome; a failed
// deletion is a 404 when nothing matched and a 500 otherwise
func (s *Server) handleDeleteCategory(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	profile := currentProfile(c)

	categories, err := s.db.Categories(ctx, profile.ID)
	if err != nil {
		return respondError(c, err)
	}
	found := false
	for _, cat := range categories {
		if cat.ID == id {
			found = true
			break
		}
	}

	result := s.db.DeleteCategory(ctx, profile.ID, id)
	switch {
	case result.Deleted:
		return c.JSON(http.StatusOK, result)
	case !found:
		return c.JSON(http.StatusNotFound, result)
	default:
		return c.JSON(http.StatusInternalServerError, result)
	}
}
