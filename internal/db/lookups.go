package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/existflow/famtodo/internal/model"
)

// Priorities returns the seeded priority levels, least urgent first
func (db *DB) Priorities(ctx context.Context) ([]model.Priority, error) {
	priorities := []model.Priority{}
	if err := db.SelectContext(ctx, &priorities, `SELECT id, level, description, color FROM priorities ORDER BY level`); err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	return priorities, nil
}

// Threats returns the seeded threat levels in seed order
func (db *DB) Threats(ctx context.Context) ([]model.Threat, error) {
	threats := []model.Threat{}
	if err := db.SelectContext(ctx, &threats, `SELECT id, level, description, color FROM threats ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list threats: %w", err)
	}
	return threats, nil
}

// Statuses returns the seeded lifecycle states in seed order
func (db *DB) Statuses(ctx context.Context) ([]model.Status, error) {
	statuses := []model.Status{}
	if err := db.SelectContext(ctx, &statuses, `SELECT id, name, COALESCE(description, '') AS description FROM statuses ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return statuses, nil
}

// PriorityByLevel resolves a priority level (1-5) to its row
func (db *DB) PriorityByLevel(ctx context.Context, level int) (model.Priority, error) {
	var p model.Priority
	err := db.GetContext(ctx, &p, db.Rebind(`SELECT id, level, description, color FROM priorities WHERE level = ?`), level)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Priority{}, fmt.Errorf("priority level %d: %w", level, ErrNotFound)
	}
	if err != nil {
		return model.Priority{}, fmt.Errorf("get priority: %w", err)
	}
	return p, nil
}

// ThreatByLevel resolves a threat level (low, medium, high) to its row
func (db *DB) ThreatByLevel(ctx context.Context, level string) (model.Threat, error) {
	var t model.Threat
	err := db.GetContext(ctx, &t, db.Rebind(`SELECT id, level, description, color FROM threats WHERE level = ?`), level)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Threat{}, fmt.Errorf("threat level %q: %w", level, ErrNotFound)
	}
	if err != nil {
		return model.Threat{}, fmt.Errorf("get threat: %w", err)
	}
	return t, nil
}

func statusID(ctx context.Context, q queryer, name string) (int64, error) {
	var id int64
	err := sqlxGet(ctx, q, &id, `SELECT id FROM statuses WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("status %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve status: %w", err)
	}
	return id, nil
}
