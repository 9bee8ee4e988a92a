// Package export renders a profile's whole task tree as a Markdown document.
package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/existflow/famtodo/internal/hierarchy"
	"github.com/existflow/famtodo/internal/model"
)

// ContentType of the rendered document
const ContentType = "text/markdown"

// missingDue stands in for an absent due date when ordering siblings
var missingDue = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// Document is everything the renderer needs. Rows must be the unfiltered tree
// (completed included, no category restriction).
type Document struct {
	ProfileName   string
	Generated     time.Time
	Rows          []model.TaskRow
	CategoryPaths map[int64]string
}

// FileName returns the download name of a profile's export
func FileName(profile string, generated time.Time) string {
	return fmt.Sprintf("%s_todo_%s.md", profile, generated.Format(time.DateOnly))
}

// Markdown writes the document to w
func Markdown(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	r := renderer{
		w:        bw,
		children: hierarchy.IndexChildren(doc.Rows),
	}

	fmt.Fprintf(bw, "# %s's Todo List\n\nGenerated: %s\n\n", doc.ProfileName, doc.Generated.Format(time.DateOnly))

	var active, closed []model.TaskRow
	for _, row := range doc.Rows {
		if row.IsClosed() {
			closed = append(closed, row)
		} else {
			active = append(active, row)
		}
	}

	sections := []struct {
		title string
		rows  []model.TaskRow
	}{
		{"Active Tasks", active},
		{"Completed Tasks", closed},
	}
	for _, section := range sections {
		fmt.Fprintf(bw, "## %s\n\n", section.title)
		if len(section.rows) == 0 {
			bw.WriteString("_None._\n\n")
			continue
		}

		written := 0
		for _, group := range hierarchy.GroupByCategory(section.rows, false) {
			var roots []model.TaskRow
			for _, row := range group.Rows {
				if row.ParentID == nil {
					roots = append(roots, row)
				}
			}
			// Subtasks are drawn under their parent's group
			if len(roots) == 0 {
				continue
			}

			fmt.Fprintf(bw, "### %s\n\n", group.Title(doc.CategoryPaths))
			for _, root := range byDue(roots) {
				r.task(root, 0)
			}
			bw.WriteString("\n")
			written++
		}
		if written == 0 {
			bw.WriteString("_None._\n\n")
		}
	}

	return bw.Flush()
}

type renderer struct {
	w        *bufio.Writer
	children hierarchy.Index
}

func (r renderer) task(row model.TaskRow, level int) {
	indent := strings.Repeat("  ", level)

	checkbox := "[ ]"
	if row.CurrentStatus == model.StatusCompleted {
		checkbox = "[x]"
	}
	strike := ""
	if row.CurrentStatus == model.StatusCancelled {
		strike = "~~"
	}

	fmt.Fprintf(r.w, "%s- %s%s **%s** (Due: %s | P:%s | T:%s | %s)%s\n",
		indent, strike, checkbox, row.Title,
		dueLabel(row.DueDate), priorityLabel(row.PriorityLevel), threatLabel(row.ThreatLevel),
		row.CurrentStatus, strike)

	if desc := strings.TrimSpace(row.Description); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintf(r.w, "%s  > %s\n", indent, strings.TrimSpace(line))
		}
	}

	kids := r.children.ChildrenOf(row.ID)
	if len(kids) == 0 {
		return
	}
	fmt.Fprintf(r.w, "%s  - *Next Steps*\n", indent)
	for _, child := range byDue(kids) {
		r.task(child, level+2)
	}
}

// byDue returns a copy ordered by due date with missing dates last
func byDue(rows []model.TaskRow) []model.TaskRow {
	out := append([]model.TaskRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return dueKey(out[i].DueDate).Before(dueKey(out[j].DueDate))
	})
	return out
}

func dueKey(d *time.Time) time.Time {
	if d == nil {
		return missingDue
	}
	return *d
}

func dueLabel(d *time.Time) string {
	if d == nil {
		return "TBD"
	}
	return d.Format(time.DateOnly)
}

func priorityLabel(level int) string {
	if level == 0 {
		return "?"
	}
	return fmt.Sprint(level)
}

func threatLabel(level string) string {
	if level == "" {
		return "None"
	}
	return strings.ToUpper(level[:1]) + strings.ToLower(level[1:])
}
