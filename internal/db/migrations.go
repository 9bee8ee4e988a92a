package db

import (
	"context"
	"fmt"
)

// migrate runs all database migrations for the open dialect
func (db *DB) migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateProfilesSQLite,
		migrationCreateLookupsSQLite,
		migrationCreateCategoriesSQLite,
		migrationCreateTasksSQLite,
		migrationCreateStatusLogsSQLite,
		migrationSeedLookups,
	}
	if db.driver == DriverPostgres {
		migrations = []string{
			migrationCreateProfilesPostgres,
			migrationCreateLookupsPostgres,
			migrationCreateCategoriesPostgres,
			migrationCreateTasksPostgres,
			migrationCreateStatusLogsPostgres,
			migrationSeedLookups,
		}
	}

	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationCreateProfilesSQLite = `
CREATE TABLE IF NOT EXISTS profiles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL
);
`

const migrationCreateLookupsSQLite = `
CREATE TABLE IF NOT EXISTS priorities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    level INTEGER UNIQUE NOT NULL,
    description TEXT NOT NULL,
    color TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS threats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    level TEXT UNIQUE NOT NULL,
    description TEXT NOT NULL,
    color TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS statuses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    description TEXT
);
`

const migrationCreateCategoriesSQLite = `
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    parent_id INTEGER,
    profile_id INTEGER NOT NULL,
    FOREIGN KEY (parent_id) REFERENCES categories (id) ON DELETE SET NULL,
    FOREIGN KEY (profile_id) REFERENCES profiles (id)
);

CREATE INDEX IF NOT EXISTS idx_categories_profile ON categories(profile_id);
`

const migrationCreateTasksSQLite = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT,
    due_date DATE,
    parent_id INTEGER,
    category_id INTEGER,
    priority_id INTEGER,
    threat_id INTEGER,
    profile_id INTEGER NOT NULL,
    FOREIGN KEY (parent_id) REFERENCES tasks (id) ON DELETE CASCADE,
    FOREIGN KEY (category_id) REFERENCES categories (id) ON DELETE SET NULL,
    FOREIGN KEY (priority_id) REFERENCES priorities (id),
    FOREIGN KEY (threat_id) REFERENCES threats (id),
    FOREIGN KEY (profile_id) REFERENCES profiles (id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_profile ON tasks(profile_id);
CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id);
CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category_id);
`

const migrationCreateStatusLogsSQLite = `
CREATE TABLE IF NOT EXISTS task_status_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id INTEGER NOT NULL,
    status_id INTEGER NOT NULL,
    reason TEXT,
    extra_info TEXT,
    timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (task_id) REFERENCES tasks (id) ON DELETE CASCADE,
    FOREIGN KEY (status_id) REFERENCES statuses (id)
);

CREATE INDEX IF NOT EXISTS idx_status_logs_task ON task_status_logs(task_id, timestamp, id);
`

const migrationCreateProfilesPostgres = `
CREATE TABLE IF NOT EXISTS profiles (
    id BIGSERIAL PRIMARY KEY,
    name TEXT UNIQUE NOT NULL
);
`

const migrationCreateLookupsPostgres = `
CREATE TABLE IF NOT EXISTS priorities (
    id BIGSERIAL PRIMARY KEY,
    level INTEGER UNIQUE NOT NULL,
    description TEXT NOT NULL,
    color TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS threats (
    id BIGSERIAL PRIMARY KEY,
    level TEXT UNIQUE NOT NULL,
    description TEXT NOT NULL,
    color TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS statuses (
    id BIGSERIAL PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    description TEXT
);
`

const migrationCreateCategoriesPostgres = `
CREATE TABLE IF NOT EXISTS categories (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    parent_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
    profile_id BIGINT NOT NULL REFERENCES profiles(id)
);

CREATE INDEX IF NOT EXISTS idx_categories_profile ON categories(profile_id);
`

const migrationCreateTasksPostgres = `
CREATE TABLE IF NOT EXISTS tasks (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    due_date DATE,
    parent_id BIGINT REFERENCES tasks(id) ON DELETE CASCADE,
    category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
    priority_id BIGINT REFERENCES priorities(id),
    threat_id BIGINT REFERENCES threats(id),
    profile_id BIGINT NOT NULL REFERENCES profiles(id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_profile ON tasks(profile_id);
CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id);
CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category_id);
`

const migrationCreateStatusLogsPostgres = `
CREATE TABLE IF NOT EXISTS task_status_logs (
    id BIGSERIAL PRIMARY KEY,
    task_id BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    status_id BIGINT NOT NULL REFERENCES statuses(id),
    reason TEXT,
    extra_info TEXT,
    timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_status_logs_task ON task_status_logs(task_id, timestamp, id);
`

// Lookup rows are fixed; re-running the seed is a no-op on both dialects
const migrationSeedLookups = `
INSERT INTO priorities (level, description, color) VALUES
    (1, 'Very Low - No potential to cause road blocks if not completed', '#00FF00'),
    (2, 'Low - Unlikely to cause road blocks if not completed', '#99FF00'),
    (3, 'Medium - Has low potential to cause road blocks if not completed', '#FFFF00'),
    (4, 'High - can cause road blocks if not finished', '#FF9900'),
    (5, 'Very High - Will cause road blocks if not finished', '#FF0000')
ON CONFLICT (level) DO NOTHING;

INSERT INTO threats (level, description, color) VALUES
    ('low', 'Low Threat', '#00FF00'),
    ('medium', 'Medium Threat', '#FFFF00'),
    ('high', 'High Threat', '#FF0000')
ON CONFLICT (level) DO NOTHING;

INSERT INTO statuses (name, description) VALUES
    ('Not Started', 'Task has not been started'),
    ('In Progress', 'Task is currently being worked on'),
    ('Blocked', 'Task is waiting on dependencies'),
    ('Ongoing', 'Reoccuring task that will not complete'),
    ('Completed', 'Task has been successfully completed'),
    ('Cancelled', 'Task has been abandoned and will not be completed')
ON CONFLICT (name) DO NOTHING;
`
