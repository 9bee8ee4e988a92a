package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/existflow/famtodo/internal/hierarchy"
	"github.com/existflow/famtodo/internal/model"
)

// TreeView is one rendered view of a profile's tasks
type TreeView struct {
	Rows          []model.TaskRow
	CategoryPaths map[int64]string
	// Filtered hides the Uncategorized group
	Filtered bool
	Now      time.Time
	// Width truncates task titles; 0 disables truncation
	Width int
}

// RenderTree draws the rows grouped by category, each group a tree of tasks
// nested by parent. Rows whose parent is not in the set are not drawn.
func RenderTree(v TreeView) string {
	if len(v.Rows) == 0 {
		return MutedStyle.Render("No tasks.")
	}

	idx := hierarchy.IndexChildren(v.Rows)
	var sections []string

	for _, group := range hierarchy.GroupByCategory(v.Rows, v.Filtered) {
		root := tree.Root(GroupStyle.Render(group.Title(v.CategoryPaths))).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(EnumeratorStyle)

		for _, row := range group.Rows {
			if row.ParentID == nil {
				root.Child(taskNode(row, idx, v))
			}
		}
		sections = append(sections, root.String())
	}

	return strings.Join(sections, "\n\n")
}

func taskNode(row model.TaskRow, idx hierarchy.Index, v TreeView) any {
	label := TaskLabel(row, v.Now, v.Width)
	children := idx.ChildrenOf(row.ID)
	if len(children) == 0 {
		return label
	}

	node := tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(EnumeratorStyle)
	for _, child := range children {
		node.Child(taskNode(child, idx, v))
	}
	return node
}

// TaskLabel renders one task line: title, due date, status, priority, threat, subtask count
func TaskLabel(row model.TaskRow, now time.Time, width int) string {
	title := row.Title
	if width > 0 {
		title = truncate(title, width)
	}
	if row.IsClosed() {
		title = TaskDoneStyle.Render(title)
	} else {
		title = TitleStyle.Render(title)
	}

	due := "TBD"
	if row.DueDate != nil {
		due = row.DueDate.Format(time.DateOnly)
	}
	dueLabel := MutedStyle.Render("Due: " + due)
	if row.IsOverdue(now) {
		dueLabel = OverdueStyle.Render("Due: " + due + " (overdue)")
	}

	priority := "P:?"
	if row.PriorityLevel > 0 {
		priority = fmt.Sprintf("P:%d", row.PriorityLevel)
	}
	threat := "T:None"
	if row.ThreatLevel != "" {
		threat = "T:" + capitalize(row.ThreatLevel)
	}

	parts := []string{
		title,
		dueLabel,
		GetStatusStyle(row.CurrentStatus).Render(row.CurrentStatus),
		hexStyle(row.PriorityColor).Render(priority),
		hexStyle(row.ThreatColor).Render(threat),
	}
	if row.NumSubtasks > 0 {
		parts = append(parts, MutedStyle.Render(fmt.Sprintf("Subtasks: %d", row.NumSubtasks)))
	}
	return strings.Join(parts, " | ")
}
