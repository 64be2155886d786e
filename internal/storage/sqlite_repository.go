package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/taskmark/internal/model"
)

// Fixed-width fractional seconds keep created_at lexically sortable.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens path, applies migrations and returns a ready repository.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps PRAGMA settings consistent.
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	if err := validateTask(in); err != nil {
		return err
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, text, completed, created_at)
			VALUES (?, ?, ?, ?)`,
			in.ID, in.Text, boolInt(in.Completed), mustTime(in.CreatedAt),
		); err != nil {
			return err
		}
		return insertMetadata(ctx, tx, in)
	})
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, text, completed, created_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	out := []Task{task}
	if err := r.attachMetadata(ctx, out); err != nil {
		return Task{}, err
	}
	return out[0], nil
}

// UpdateTask rewrites the task row and replaces its metadata in full.
func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	if err := validateTask(in); err != nil {
		return err
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks SET text = ?, completed = ? WHERE id = ?`,
			in.Text, boolInt(in.Completed), in.ID,
		)
		if err != nil {
			return err
		}
		if err := checkRowsAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_metadata WHERE task_id = ?`, in.ID); err != nil {
			return err
		}
		return insertMetadata(ctx, tx, in)
	})
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT id, text, completed, created_at FROM tasks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	switch filter.State {
	case StatePending:
		clauses = append(clauses, "completed = 0")
	case StateCompleted:
		clauses = append(clauses, "completed = 1")
	}
	if filter.Category != "" {
		clauses = append(clauses, `id IN (SELECT task_id FROM task_metadata WHERE kind = ? AND value = ? COLLATE NOCASE)`)
		args = append(args, string(model.MetadataCategory), filter.Category)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			_ = rows.Close()
			return nil, scanErr
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()
	if err := r.attachMetadata(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT value, COUNT(DISTINCT task_id)
		FROM task_metadata
		WHERE kind = ?
		GROUP BY value
		ORDER BY COUNT(DISTINCT task_id) DESC, value ASC`, string(model.MetadataCategory))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CategoryCount, 0)
	for rows.Next() {
		var item CategoryCount
		if err := rows.Scan(&item.Name, &item.Tasks); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func validateTask(in Task) error {
	if err := in.Model().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	return nil
}

func insertMetadata(ctx context.Context, tx *sql.Tx, in Task) error {
	for _, row := range in.metadataRows() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_metadata (task_id, kind, value, position)
			VALUES (?, ?, ?, ?)`,
			in.ID, string(row.Kind), row.Value, row.Position,
		); err != nil {
			return fmt.Errorf("insert %s metadata: %w", row.Kind, err)
		}
	}
	return nil
}

// attachMetadata fills the metadata lists of tasks in place.
func (r *SQLiteRepository) attachMetadata(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	index := make(map[string]int, len(tasks))
	args := make([]any, 0, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
		args = append(args, t.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tasks)), ",")
	rows, err := r.db.QueryContext(ctx, `
		SELECT task_id, kind, value
		FROM task_metadata
		WHERE task_id IN (`+placeholders+`)
		ORDER BY task_id, kind, position`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	metas := make([]model.TaskMetadata, len(tasks))
	for rows.Next() {
		var taskID, rawKind, value string
		if err := rows.Scan(&taskID, &rawKind, &value); err != nil {
			return err
		}
		kind, err := model.ParseMetadataKind(rawKind)
		if err != nil {
			return err
		}
		i, ok := index[taskID]
		if !ok {
			continue
		}
		metas[i].Append(kind, value)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range tasks {
		tasks[i].setMetadata(metas[i])
	}
	return nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT.
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var completed int
	var created string
	if err := s.Scan(&out.ID, &out.Text, &completed, &created); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	out.Completed = completed == 1
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
