package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/hierarchy"
	"github.com/existflow/famtodo/internal/model"
)

// TaskNode is a task with its children nested, as rendered in a group
type TaskNode struct {
	model.TaskRow
	Children []TaskNode `json:"children"`
}

// TaskGroup is one category section of the task tree
type TaskGroup struct {
	CategoryID *int64     `json:"category_id"`
	Title      string     `json:"title"`
	Roots      []TaskNode `json:"roots"`
}

// TaskTreeResponse is the body of GET /tasks
type TaskTreeResponse struct {
	Tasks  []model.TaskRow `json:"tasks"`
	Groups []TaskGroup     `json:"groups"`
}

// CreateTaskRequest is the body of POST /tasks. DueDate is YYYY-MM-DD.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	ParentID    *int64 `json:"parent_id"`
	CategoryID  *int64 `json:"category_id"`
	PriorityID  *int64 `json:"priority_id"`
	ThreatID    *int64 `json:"threat_id"`
}

// UpdateTaskRequest is the body of PATCH /tasks/:id; absent fields are left alone
type UpdateTaskRequest struct {
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	ClearDue    bool    `json:"clear_due"`
}

// SetStatusRequest is the body of POST /tasks/:id/status
type SetStatusRequest struct {
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	ExtraInfo string `json:"extra_info"`
}

func (s *Server) handleListTasks(c echo.Context) error {
	q, err := treeQuery(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	profile := currentProfile(c)

	rows, err := s.db.FetchTaskTree(ctx, profile.ID, q)
	if err != nil {
		return respondError(c, err)
	}
	paths, err := s.db.CategoryPaths(ctx, profile.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, buildTree(rows, paths, len(q.CategoryIDs) > 0))
}

func treeQuery(c echo.Context) (db.TreeQuery, error) {
	var q db.TreeQuery

	for _, raw := range c.QueryParams()["category"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, &db.ValidationError{Field: "category", Message: "must be a category id"}
		}
		q.CategoryIDs = append(q.CategoryIDs, id)
	}

	if raw := c.QueryParam("completed"); raw != "" {
		show, err := strconv.ParseBool(raw)
		if err != nil {
			return q, &db.ValidationError{Field: "completed", Message: "must be true or false"}
		}
		q.ShowCompleted = show
	}

	order, err := hierarchy.ParseSortOrder(c.QueryParam("sort"))
	if err != nil {
		return q, &db.ValidationError{Field: "sort", Message: err.Error()}
	}
	q.Sort = order

	return q, nil
}

func buildTree(rows []model.TaskRow, paths map[int64]string, filtered bool) TaskTreeResponse {
	resp := TaskTreeResponse{Tasks: rows, Groups: []TaskGroup{}}
	if resp.Tasks == nil {
		resp.Tasks = []model.TaskRow{}
	}

	idx := hierarchy.IndexChildren(rows)
	var nest func(row model.TaskRow) TaskNode
	nest = func(row model.TaskRow) TaskNode {
		node := TaskNode{TaskRow: row, Children: []TaskNode{}}
		for _, child := range idx.ChildrenOf(row.ID) {
			node.Children = append(node.Children, nest(child))
		}
		return node
	}

	for _, group := range hierarchy.GroupByCategory(rows, filtered) {
		g := TaskGroup{
			CategoryID: group.CategoryID,
			Title:      group.Title(paths),
			Roots:      []TaskNode{},
		}
		for _, row := range group.Rows {
			if row.ParentID == nil {
				g.Roots = append(g.Roots, nest(row))
			}
		}
		resp.Groups = append(resp.Groups, g)
	}
	return resp
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	profile := currentProfile(c)

	categoryID := req.CategoryID
	if categoryID == nil && req.ParentID != nil {
		if categoryID, err = s.db.TaskCategory(ctx, profile.ID, *req.ParentID); err != nil {
			return respondError(c, err)
		}
	}

	id, err := s.db.InsertTask(ctx, profile.ID, db.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		ParentID:    req.ParentID,
		CategoryID:  categoryID,
		PriorityID:  req.PriorityID,
		ThreatID:    req.ThreatID,
	})
	if err != nil {
		return respondError(c, err)
	}

	details, err := s.db.TaskDetails(ctx, profile.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, details)
}

func (s *Server) handleGetTask(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	details, err := s.db.TaskDetails(c.Request().Context(), currentProfile(c).ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	// Everything is validated before the single write
	update := db.TaskUpdate{Description: req.Description, ClearDue: req.ClearDue}
	if !req.ClearDue && req.DueDate != nil {
		due, err := parseDate("due_date", *req.DueDate)
		if err != nil {
			return respondError(c, err)
		}
		update.DueDate = due
		update.ClearDue = due == nil
	}

	ctx := c.Request().Context()
	profile := currentProfile(c)

	if err := s.db.UpdateTask(ctx, profile.ID, id, update); err != nil {
		return respondError(c, err)
	}

	details, err := s.db.TaskDetails(ctx, profile.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

func (s *Server) handleSetStatus(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if req.Status == "" {
		return respondError(c, &db.ValidationError{Field: "status", Message: "is required"})
	}

	ctx := c.Request().Context()
	if err := s.db.CheckTask(ctx, currentProfile(c).ID, id); err != nil {
		return respondError(c, err)
	}

	entry, err := s.db.InsertStatusLog(ctx, id, req.Status, req.Reason, req.ExtraInfo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleStatusHistory(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	if err := s.db.CheckTask(ctx, currentProfile(c).ID, id); err != nil {
		return respondError(c, err)
	}

	history, err := s.db.StatusHistory(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if history == nil {
		history = []model.StatusLogEntry{}
	}
	return c.JSON(http.StatusOK, history)
}

// parseDate accepts YYYY-MM-DD; blank means no date
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, &db.ValidationError{Field: field, Message: "must be YYYY-MM-DD"}
	}
	return &t, nil
}
