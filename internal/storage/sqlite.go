package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"remind_bot/internal/model"
	"remind_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateReminder inserts a new reminder, assigning the next free ID
// within the owner's partition, and populates ID and CreatedAt.
func (s *SQLite) CreateReminder(ctx context.Context, r *model.Reminder) error {
	if !r.RuleKind.Valid() {
		return fmt.Errorf("invalid rule kind %q", r.RuleKind)
	}

	now := time.Now().UTC().Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var nextID int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1 FROM reminders WHERE owner = ?`, r.Owner,
	).Scan(&nextID)
	if err != nil {
		return fmt.Errorf("next id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reminders (owner, id, content, rule_kind, rule_literal, destination, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		r.Owner, nextID, r.Content, string(r.RuleKind), r.RuleLiteral, r.Destination, now,
	)
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.ID = nextID
	r.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// ListActive returns all non-completed reminders of the given owner.
func (s *SQLite) ListActive(ctx context.Context, owner string) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner, id, content, rule_kind, rule_literal, destination, completed, created_at
		 FROM reminders WHERE owner = ? AND completed = 0 ORDER BY id`, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanReminders(rows)
}

// ListOwners returns every owner that has at least one active reminder.
func (s *SQLite) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT owner FROM reminders WHERE completed = 0 ORDER BY owner`,
	)
	if err != nil {
		return nil, fmt.Errorf("query owners: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var owners []string
	for rows.Next() {
		var o string
		if err := rows.Scan(&o); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}

// UpdateAnchor rewrites the durable rule literal of a single reminder.
// It reports whether a record was actually updated; a concurrently
// deleted reminder yields false without error.
func (s *SQLite) UpdateAnchor(ctx context.Context, owner string, id int64, literal string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET rule_literal = ? WHERE owner = ? AND id = ?`,
		literal, owner, id,
	)
	if err != nil {
		return false, fmt.Errorf("update anchor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteReminder removes a single reminder. It reports whether a record
// was actually deleted.
func (s *SQLite) DeleteReminder(ctx context.Context, owner string, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE owner = ? AND id = ?`, owner, id,
	)
	if err != nil {
		return false, fmt.Errorf("delete reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteAllReminders removes every reminder of the given owner. It
// reports whether any records were deleted.
func (s *SQLite) DeleteAllReminders(ctx context.Context, owner string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE owner = ?`, owner,
	)
	if err != nil {
		return false, fmt.Errorf("delete all reminders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanReminder(row scannable) (model.Reminder, error) {
	var r model.Reminder
	var kind string
	var completed int
	var created sql.NullString
	err := row.Scan(&r.Owner, &r.ID, &r.Content, &kind, &r.RuleLiteral, &r.Destination, &completed, &created)
	if err != nil {
		return r, fmt.Errorf("scan reminder: %w", err)
	}
	r.RuleKind = model.Kind(kind)
	r.Completed = completed == 1
	if created.Valid {
		r.CreatedAt, _ = time.Parse(timeLayout, created.String)
	}
	return r, nil
}

func scanReminders(rows *sql.Rows) ([]model.Reminder, error) {
	var reminders []model.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
