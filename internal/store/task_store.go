package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/energy-planner/internal/model"
)

type taskRow struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	CreatedAt  time.Time `db:"created_at"`
	Completed  int       `db:"completed"`
	Color      string    `db:"color"`
	Symbol     string    `db:"symbol"`
	EnergyCost int       `db:"energy_cost"`
}

type subTaskRow struct {
	ID         string `db:"id"`
	TaskID     string `db:"task_id"`
	Title      string `db:"title"`
	Completed  int    `db:"completed"`
	EnergyCost int    `db:"energy_cost"`
	Position   int    `db:"position"`
}

func (r taskRow) toModel() model.Task {
	return model.Task{
		ID:         r.ID,
		Title:      r.Title,
		CreatedAt:  r.CreatedAt,
		Completed:  r.Completed != 0,
		Color:      model.ParseColor(r.Color),
		Symbol:     model.ParseSymbol(r.Symbol),
		EnergyCost: r.EnergyCost,
	}
}

func (r subTaskRow) toModel() model.SubTask {
	return model.SubTask{
		ID:         r.ID,
		TaskID:     r.TaskID,
		Title:      r.Title,
		Completed:  r.Completed != 0,
		EnergyCost: r.EnergyCost,
		Position:   r.Position,
	}
}

// insertTask writes t and all of its sub-tasks.
func insertTask(ctx context.Context, tx *sqlx.Tx, t model.Task) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, created_at, completed, color, symbol, energy_cost
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.CreatedAt.UTC(), boolToInt(t.Completed),
		t.Color.String(), t.Symbol.String(), t.EnergyCost,
	)
	if err != nil {
		return err
	}

	for _, st := range t.SubTasks {
		st.TaskID = t.ID
		if err := insertSubTask(ctx, tx, st); err != nil {
			return fmt.Errorf("inserting sub-task %s: %w", st.ID, err)
		}
	}
	return nil
}

// updateTask writes the task's own columns. Sub-tasks are staged
// separately.
func updateTask(ctx context.Context, tx *sqlx.Tx, t model.Task) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, completed = ?, color = ?, symbol = ?, energy_cost = ?
		WHERE id = ?`,
		t.Title, boolToInt(t.Completed), t.Color.String(), t.Symbol.String(), t.EnergyCost,
		t.ID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, "task", t.ID)
}

func insertSubTask(ctx context.Context, tx *sqlx.Tx, st model.SubTask) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO subtasks (
			id, task_id, title, completed, energy_cost, position
		) VALUES (?, ?, ?, ?, ?, ?)`,
		st.ID, st.TaskID, st.Title, boolToInt(st.Completed), st.EnergyCost, st.Position,
	)
	return err
}

func updateSubTask(ctx context.Context, tx *sqlx.Tx, st model.SubTask) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE subtasks SET
			title = ?, completed = ?, energy_cost = ?, position = ?
		WHERE id = ?`,
		st.Title, boolToInt(st.Completed), st.EnergyCost, st.Position,
		st.ID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, "sub-task", st.ID)
}

// FetchTasks retrieves tasks matching the filter, each with its sub-tasks
// ordered by position. The default order is creation order.
func (s *SQLiteStore) FetchTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query, args, err := buildTaskQuery(filter)
	if err != nil {
		return nil, err
	}

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	subtasks, err := s.fetchSubTasks(ctx, ids)
	if err != nil {
		return nil, err
	}

	tasks := make([]model.Task, len(rows))
	for i, r := range rows {
		tasks[i] = r.toModel()
		tasks[i].SubTasks = subtasks[r.ID]
	}
	return tasks, nil
}

// fetchSubTasks loads sub-tasks for taskIDs, grouped by owner.
func (s *SQLiteStore) fetchSubTasks(ctx context.Context, taskIDs []string) (map[string][]model.SubTask, error) {
	query, args, err := sqlx.In(`
		SELECT id, task_id, title, completed, energy_cost, position
		FROM subtasks
		WHERE task_id IN (?)
		ORDER BY task_id, position, rowid`, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("building sub-task query: %w", err)
	}

	var rows []subTaskRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying sub-tasks: %w", err)
	}

	out := make(map[string][]model.SubTask, len(taskIDs))
	for _, r := range rows {
		out[r.TaskID] = append(out[r.TaskID], r.toModel())
	}
	return out, nil
}

// buildTaskQuery constructs the SELECT for filter.
func buildTaskQuery(filter TaskFilter) (string, []interface{}, error) {
	var conditions []string
	var args []interface{}

	if len(filter.IDs) > 0 {
		in, inArgs, err := sqlx.In("id IN (?)", filter.IDs)
		if err != nil {
			return "", nil, fmt.Errorf("building id filter: %w", err)
		}
		conditions = append(conditions, in)
		args = append(args, inArgs...)
	}
	if filter.Completed != nil {
		conditions = append(conditions, "completed = ?")
		args = append(args, boolToInt(*filter.Completed))
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+*filter.Query+"%")
	}

	query := `SELECT id, title, created_at, completed, color, symbol, energy_cost FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "created_at"
	if filter.SortBy != "" {
		allowedSorts := map[string]bool{
			"created_at":  true,
			"title":       true,
			"energy_cost": true,
		}
		if allowedSorts[filter.SortBy] {
			sortBy = filter.SortBy
		}
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, rowid %s", sortBy, direction, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	return query, args, nil
}
