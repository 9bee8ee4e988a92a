package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/existflow/famtodo/internal/logger"
	"github.com/existflow/famtodo/internal/model"
)

// CreateProfile adds a new task-list owner
func (db *DB) CreateProfile(ctx context.Context, name string) (model.Profile, error) {
	name, err := requireText("name", name)
	if err != nil {
		return model.Profile{}, err
	}

	var id int64
	err = db.QueryRowxContext(ctx, db.Rebind(`INSERT INTO profiles (name) VALUES (?) RETURNING id`), name).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Profile{}, fmt.Errorf("profile %q: %w", name, ErrDuplicate)
		}
		return model.Profile{}, fmt.Errorf("insert profile: %w", err)
	}

	logger.Info("Profile created", logger.F("profile_id", id), logger.F("name", name))
	return model.Profile{ID: id, Name: name}, nil
}

// Profiles lists every profile by name
func (db *DB) Profiles(ctx context.Context) ([]model.Profile, error) {
	profiles := []model.Profile{}
	if err := db.SelectContext(ctx, &profiles, `SELECT id, name FROM profiles ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Profile returns the profile with the given id
func (db *DB) Profile(ctx context.Context, id int64) (model.Profile, error) {
	var p model.Profile
	err := db.GetContext(ctx, &p, db.Rebind(`SELECT id, name FROM profiles WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// ProfileByName returns the profile with the given name
func (db *DB) ProfileByName(ctx context.Context, name string) (model.Profile, error) {
	var p model.Profile
	err := db.GetContext(ctx, &p, db.Rebind(`SELECT id, name FROM profiles WHERE name = ?`), name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, fmt.Errorf("profile %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}
