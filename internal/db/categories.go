package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/existflow/famtodo/internal/hierarchy"
	"github.com/existflow/famtodo/internal/logger"
	"github.com/existflow/famtodo/internal/model"
)

type categoryRecord struct {
	ID        int64         `db:"id"`
	Name      string        `db:"name"`
	ParentID  sql.NullInt64 `db:"parent_id"`
	ProfileID int64         `db:"profile_id"`
}

func (r categoryRecord) toModel() model.Category {
	return model.Category{
		ID:        r.ID,
		Name:      r.Name,
		ParentID:  int64Ptr(r.ParentID),
		ProfileID: r.ProfileID,
	}
}

// CategoryDeletion reports the outcome of DeleteCategory
type CategoryDeletion struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

// InsertCategory creates a category, optionally nested under parentID.
// The parent must belong to the same profile; cycles are not checked here.
func (db *DB) InsertCategory(ctx context.Context, profileID int64, name string, parentID *int64) (model.Category, error) {
	name, err := requireText("name", name)
	if err != nil {
		return model.Category{}, err
	}

	if parentID != nil {
		if _, err := db.category(ctx, db, profileID, *parentID); err != nil {
			return model.Category{}, fmt.Errorf("parent category: %w", err)
		}
	}

	var id int64
	err = db.QueryRowxContext(ctx,
		db.Rebind(`INSERT INTO categories (name, parent_id, profile_id) VALUES (?, ?, ?) RETURNING id`),
		name, nullInt64(parentID), profileID,
	).Scan(&id)
	if err != nil {
		return model.Category{}, fmt.Errorf("insert category: %w", err)
	}

	logger.Info("Category created",
		logger.F("profile_id", profileID),
		logger.F("category_id", id),
		logger.F("name", name))

	return model.Category{ID: id, Name: name, ParentID: parentID, ProfileID: profileID}, nil
}

// Categories lists the profile's categories in insertion order, FullPath left empty
func (db *DB) Categories(ctx context.Context, profileID int64) ([]model.Category, error) {
	var records []categoryRecord
	err := db.SelectContext(ctx, &records,
		db.Rebind(`SELECT id, name, parent_id, profile_id FROM categories WHERE profile_id = ? ORDER BY id`),
		profileID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make([]model.Category, 0, len(records))
	for _, r := range records {
		categories = append(categories, r.toModel())
	}
	return categories, nil
}

// CategoriesWithPaths lists the profile's categories with their full paths resolved
func (db *DB) CategoriesWithPaths(ctx context.Context, profileID int64) ([]model.Category, error) {
	categories, err := db.Categories(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return hierarchy.WithPaths(categories), nil
}

// CategoryPaths returns the full path of every category of the profile, keyed by id
func (db *DB) CategoryPaths(ctx context.Context, profileID int64) (map[int64]string, error) {
	categories, err := db.Categories(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return hierarchy.ResolvePaths(categories), nil
}

// DeleteCategory promotes the category's children to top level, un-categorizes its
// tasks and removes it, all in one transaction. Failures are reported in the result
// after rolling back, never returned as errors.
func (db *DB) DeleteCategory(ctx context.Context, profileID, id int64) CategoryDeletion {
	log := logger.WithFields(logger.F("profile_id", profileID), logger.F("category_id", id))

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("Failed to begin category delete", logger.F("error", err))
		return CategoryDeletion{Message: fmt.Sprintf("Failed to delete category: %v", err)}
	}
	defer func() { _ = tx.Rollback() }()

	cat, err := db.category(ctx, tx, profileID, id)
	if err != nil {
		return CategoryDeletion{Message: fmt.Sprintf("Failed to delete category: %v", err)}
	}

	steps := []struct {
		name  string
		query string
	}{
		{"promote subcategories", `UPDATE categories SET parent_id = NULL WHERE parent_id = ? AND profile_id = ?`},
		{"uncategorize tasks", `UPDATE tasks SET category_id = NULL WHERE category_id = ? AND profile_id = ?`},
		{"delete category", `DELETE FROM categories WHERE id = ? AND profile_id = ?`},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, tx.Rebind(step.query), id, profileID); err != nil {
			log.Error("Category delete rolled back", logger.F("step", step.name), logger.F("error", err))
			return CategoryDeletion{Message: fmt.Sprintf("Failed to delete category: %s: %v", step.name, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit category delete", logger.F("error", err))
		return CategoryDeletion{Message: fmt.Sprintf("Failed to delete category: %v", err)}
	}

	log.Info("Category deleted")
	return CategoryDeletion{
		Deleted: true,
		Message: fmt.Sprintf("Category '%s' deleted. Its tasks are now uncategorized and its sub-categories are top-level.", cat.Name),
	}
}

func (db *DB) category(ctx context.Context, q queryer, profileID, id int64) (model.Category, error) {
	var r categoryRecord
	err := sqlxGet(ctx, q, &r,
		`SELECT id, name, parent_id, profile_id FROM categories WHERE id = ? AND profile_id = ?`,
		id, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("get category: %w", err)
	}
	return r.toModel(), nil
}
