// Package hierarchy holds the pure tree logic over categories and task rows:
// full-path resolution, derived subtask counts, completion filtering, sorting,
// category grouping and parent→children indexing.
package hierarchy

import "github.com/existflow/famtodo/internal/model"

// ResolvePaths returns the root-to-leaf path of every category, keyed by id.
// Ancestry that loops back on itself ends in model.CycleMarker instead of recursing.
func ResolvePaths(categories []model.Category) map[int64]string {
	names := make(map[int64]string, len(categories))
	parents := make(map[int64]*int64, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
		parents[c.ID] = c.ParentID
	}

	paths := make(map[int64]string, len(categories))
	for _, c := range categories {
		if c.IsTopLevel() {
			paths[c.ID] = c.Name
			continue
		}
		paths[c.ID] = fullPath(c.ID, names, parents, map[int64]bool{})
	}
	return paths
}

// WithPaths returns a copy of categories with FullPath filled in
func WithPaths(categories []model.Category) []model.Category {
	paths := ResolvePaths(categories)
	out := make([]model.Category, len(categories))
	for i, c := range categories {
		c.FullPath = paths[c.ID]
		out[i] = c
	}
	return out
}

func fullPath(id int64, names map[int64]string, parents map[int64]*int64, visited map[int64]bool) string {
	name, ok := names[id]
	if !ok {
		return ""
	}
	if visited[id] {
		return model.CycleMarker
	}
	visited[id] = true

	parentPath := ""
	if parent := parents[id]; parent != nil {
		parentPath = fullPath(*parent, names, parents, visited)
	}
	if parentPath == "" {
		return name
	}
	return parentPath + model.PathSeparator + name
}
