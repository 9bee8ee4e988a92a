package model

// Profile owns an independent set of categories and tasks
type Profile struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
