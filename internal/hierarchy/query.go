package hierarchy

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/existflow/famtodo/internal/model"
)

// SortOrder selects how a row set is ordered after filtering
type SortOrder string

const (
	SortDefault  SortOrder = "default"
	SortStatus   SortOrder = "status"
	SortPriority SortOrder = "priority"
	SortDueDate  SortOrder = "due"
)

// statusRank orders statuses for SortStatus; anything not listed sorts last
var statusRank = map[string]int{
	model.StatusInProgress: 0,
	model.StatusOngoing:    1,
	model.StatusBlocked:    2,
	model.StatusNotStarted: 3,
	model.StatusCompleted:  4,
	model.StatusCancelled:  5,
}

// ParseSortOrder accepts the names of the sort orders; empty means SortDefault
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortDefault:
		return SortDefault, nil
	case SortStatus:
		return SortStatus, nil
	case SortPriority:
		return SortPriority, nil
	case SortDueDate, "due_date":
		return SortDueDate, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// CountSubtasks sets NumSubtasks on every row to the number of rows in the same
// set whose parent is that row. Rows outside the set are not counted.
func CountSubtasks(rows []model.TaskRow) {
	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		if r.ParentID != nil {
			counts[*r.ParentID]++
		}
	}
	for i := range rows {
		rows[i].NumSubtasks = counts[rows[i].ID]
	}
}

// OpenOnly drops completed and cancelled rows, keeping order
func OpenOnly(rows []model.TaskRow) []model.TaskRow {
	out := make([]model.TaskRow, 0, len(rows))
	for _, r := range rows {
		if !r.IsClosed() {
			out = append(out, r)
		}
	}
	return out
}

// SortRows orders rows in place. The sort is stable so SortDefault keeps the input order
// and equal keys keep their relative order.
func SortRows(rows []model.TaskRow, order SortOrder) {
	switch order {
	case SortStatus:
		sort.SliceStable(rows, func(i, j int) bool {
			ri, rj := rankOf(rows[i].CurrentStatus), rankOf(rows[j].CurrentStatus)
			if ri != rj {
				return ri < rj
			}
			return priorityBefore(rows[i].PriorityLevel, rows[j].PriorityLevel)
		})
	case SortPriority:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].PriorityLevel != rows[j].PriorityLevel {
				return priorityBefore(rows[i].PriorityLevel, rows[j].PriorityLevel)
			}
			return dueBefore(rows[i].DueDate, rows[j].DueDate)
		})
	case SortDueDate:
		sort.SliceStable(rows, func(i, j int) bool {
			return dueBefore(rows[i].DueDate, rows[j].DueDate)
		})
	}
}

func rankOf(status string) int {
	if r, ok := statusRank[status]; ok {
		return r
	}
	return len(statusRank)
}

// priorityBefore orders by level ascending; level 0 means no priority and sorts last
func priorityBefore(a, b int) bool {
	switch {
	case a == 0:
		return false
	case b == 0:
		return true
	default:
		return a < b
	}
}

// dueBefore orders by due date ascending with missing dates last
func dueBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// Group is one category section of a row set
type Group struct {
	// CategoryID is nil for the Uncategorized group
	CategoryID *int64
	Rows       []model.TaskRow
}

// GroupByCategory partitions rows by category in order of first appearance.
// The Uncategorized group is only returned when no category filter is active.
func GroupByCategory(rows []model.TaskRow, filtered bool) []Group {
	var groups []Group
	index := map[int64]int{}
	uncategorized := -1

	for _, r := range rows {
		if r.CategoryID == nil {
			if filtered {
				continue
			}
			if uncategorized < 0 {
				uncategorized = len(groups)
				groups = append(groups, Group{})
			}
			groups[uncategorized].Rows = append(groups[uncategorized].Rows, r)
			continue
		}

		i, ok := index[*r.CategoryID]
		if !ok {
			i = len(groups)
			index[*r.CategoryID] = i
			id := *r.CategoryID
			groups = append(groups, Group{CategoryID: &id})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}

	return groups
}

// Title names the group: its category's full path, "Uncategorized" when it has
// no category, "Unknown" when the path is missing
func (g Group) Title(paths map[int64]string) string {
	if g.CategoryID == nil {
		return "Uncategorized"
	}
	if path, ok := paths[*g.CategoryID]; ok && path != "" {
		return path
	}
	return "Unknown"
}

// Index maps each parent id to its children within one row set
type Index struct {
	Roots    []model.TaskRow
	Children map[int64][]model.TaskRow
}

// IndexChildren builds the parent→children index of a row set. Build one per
// distinct row set: a filtered view and the full tree can legitimately differ.
func IndexChildren(rows []model.TaskRow) Index {
	idx := Index{Children: make(map[int64][]model.TaskRow)}
	for _, r := range rows {
		if r.ParentID == nil {
			idx.Roots = append(idx.Roots, r)
			continue
		}
		idx.Children[*r.ParentID] = append(idx.Children[*r.ParentID], r)
	}
	return idx
}

// ChildrenOf returns the children of a task in row-set order
func (idx Index) ChildrenOf(id int64) []model.TaskRow {
	return idx.Children[id]
}
