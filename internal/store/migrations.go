package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL CHECK(length(trim(title)) > 0),
	created_at  DATETIME NOT NULL,
	completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	color       TEXT NOT NULL DEFAULT 'purple',
	symbol      TEXT NOT NULL DEFAULT 'checkmark',
	energy_cost INTEGER NOT NULL DEFAULT 25 CHECK(energy_cost > 0)
);

CREATE TABLE IF NOT EXISTS subtasks (
	id          TEXT PRIMARY KEY,
	task_id     TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	title       TEXT NOT NULL,
	completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	energy_cost INTEGER NOT NULL DEFAULT 5 CHECK(energy_cost > 0),
	position    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);
CREATE INDEX IF NOT EXISTS idx_subtasks_task_id ON subtasks(task_id, position);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS daily_energy (
	id         TEXT PRIMARY KEY,
	year       INTEGER NOT NULL,
	month      INTEGER NOT NULL CHECK(month BETWEEN 1 AND 12),
	day        INTEGER NOT NULL CHECK(day BETWEEN 1 AND 31),
	ceiling    INTEGER NOT NULL CHECK(ceiling > 0),
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(year, month, day)
);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
