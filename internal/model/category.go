package model

// PathSeparator joins category names into a full path
const PathSeparator = " > "

// CycleMarker replaces the rest of a path whose ancestry loops back on itself
const CycleMarker = "... (cycle)"

// Category is a nestable grouping label for tasks
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	ProfileID int64  `json:"profile_id"`

	// FullPath is filled by path resolution, it is never stored
	FullPath string `json:"full_path,omitempty"`
}

// IsTopLevel returns true if the category has no parent
func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}
