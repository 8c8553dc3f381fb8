package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/planboard/internal/model"
)

// SQLiteStore implements the Cache interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Cache = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ReplaceTasks swaps the cached task mirror for a fresh copy. Temp
// entries are skipped; they have no remote identity worth caching.
func (s *SQLiteStore) ReplaceTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing task mirror: %w", err)
	}

	const query = `
		INSERT INTO tasks (
			id, title, description, status, priority,
			due, duration_min, raw_date, raw_time, completed,
			assigned_to, project_id, created_by,
			created_at, updated_at
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?,
			?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing task insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		if t.IsTemp() {
			continue
		}
		assignees, err := json.Marshal(t.AssignedTo)
		if err != nil {
			return fmt.Errorf("marshaling assignees for task %s: %w", t.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			t.ID, t.Title, t.Description, t.Status, t.Priority,
			nullableTime(t.Due), t.DurationMin, t.RawDate, t.RawTime, boolToInt(t.Completed),
			string(assignees), t.ProjectID, t.CreatedBy,
			t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// GetTasks retrieves the cached task mirror.
func (s *SQLiteStore) GetTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM tasks ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("querying cached tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// ReplaceProjects swaps the cached project mirror for a fresh copy.
func (s *SQLiteStore) ReplaceProjects(ctx context.Context, projects []model.Project) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("clearing project mirror: %w", err)
	}

	for _, p := range projects {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO projects (
				id, name, building_description, color, created_by,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.BuildingDescription, p.Color, p.CreatedBy,
			p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching project %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetProjects retrieves the cached project mirror.
func (s *SQLiteStore) GetProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying cached projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		err := rows.Scan(
			&p.ID, &p.Name, &p.BuildingDescription, &p.Color, &p.CreatedBy,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// ReplaceEvents swaps the cached event mirror for a fresh copy.
func (s *SQLiteStore) ReplaceEvents(ctx context.Context, events []model.Event) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM events"); err != nil {
		return fmt.Errorf("clearing event mirror: %w", err)
	}

	for _, e := range events {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO events (
				id, title, description, from_date, to_date, parent_id,
				created_by, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Title, e.Description,
			nullableTime(e.FromDate), nullableTime(e.ToDate), e.ParentID,
			e.CreatedBy, e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching event %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// GetEvents retrieves the cached event mirror.
func (s *SQLiteStore) GetEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM events ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("querying cached events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var fromDate, toDate *time.Time
		var parentID *string
		err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &fromDate, &toDate, &parentID,
			&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		e.FromDate = fromDate
		e.ToDate = toDate
		e.ParentID = parentID
		events = append(events, e)
	}

	return events, rows.Err()
}

// CreateNotification inserts a new notification record.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, entity, entity_id, message, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.Entity, n.EntityID, n.Message,
		boolToInt(n.Read), n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	return nil
}

// GetUnreadNotifications retrieves all notifications that have not been
// read, ordered by creation time descending.
func (s *SQLiteStore) GetUnreadNotifications(ctx context.Context) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM notifications WHERE read = 0 ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		var readInt int
		err := rows.Scan(&n.ID, &n.Entity, &n.EntityID, &n.Message, &readInt, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Read = readInt != 0
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkNotificationRead marks a single notification as read.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	return nil
}

// UnreadNotificationCount returns how many notifications are unread.
func (s *SQLiteStore) UnreadNotificationCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM notifications WHERE read = 0")
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		task      model.Task
		due       *time.Time
		completed int
		assignees string
		projectID *string
	)

	err := rows.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&due, &task.DurationMin, &task.RawDate, &task.RawTime, &completed,
		&assignees, &projectID, &task.CreatedBy,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.Due = due
	task.Completed = completed != 0
	task.ProjectID = projectID

	if assignees != "" && assignees != "null" {
		if err := json.Unmarshal([]byte(assignees), &task.AssignedTo); err != nil {
			return model.Task{}, fmt.Errorf("unmarshaling assignees: %w", err)
		}
	}

	return task, nil
}

// nullableTime normalizes optional timestamps to UTC for storage.
func nullableTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
