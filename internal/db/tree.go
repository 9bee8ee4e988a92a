package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/existflow/famtodo/internal/hierarchy"
	"github.com/existflow/famtodo/internal/model"
)

// TreeQuery selects the rows FetchTaskTree returns
type TreeQuery struct {
	// CategoryIDs restricts rows to these categories; empty means no restriction
	CategoryIDs   []int64
	ShowCompleted bool
	Sort          hierarchy.SortOrder
}

// FetchTaskTree loads the profile's tasks joined with their lookups and derives
// CurrentStatus (one batched status query) and NumSubtasks (counted within the
// category-filtered set). Closed tasks are dropped after derivation unless
// ShowCompleted is set.
func (db *DB) FetchTaskTree(ctx context.Context, profileID int64, q TreeQuery) ([]model.TaskRow, error) {
	query := taskSelect + ` WHERE t.profile_id = ?`
	args := []any{profileID}
	if len(q.CategoryIDs) > 0 {
		query += ` AND t.category_id IN (?)`
		args = append(args, q.CategoryIDs)
	}
	query += ` ORDER BY t.id`

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("build task query: %w", err)
	}

	var records []taskRecord
	if err := db.SelectContext(ctx, &records, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}

	rows := make([]model.TaskRow, 0, len(records))
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.toRow())
		ids = append(ids, r.ID)
	}

	statuses, err := db.CurrentStatuses(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].CurrentStatus = statuses[rows[i].ID]
	}

	hierarchy.CountSubtasks(rows)
	if !q.ShowCompleted {
		rows = hierarchy.OpenOnly(rows)
	}
	hierarchy.SortRows(rows, q.Sort)

	return rows, nil
}
