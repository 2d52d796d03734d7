// Package reminder exposes the create/list/delete operations shared by
// the command layer and the dispatch loop.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"remind_bot/internal/model"
	"remind_bot/internal/rule"
	"remind_bot/internal/storage"
)

// ErrNotFound is returned when a delete names a reminder that does not
// exist in the owner's partition.
var ErrNotFound = errors.New("reminder not found")

// Service mediates between the command surface and the store.
type Service struct {
	store storage.Storage
	log   *slog.Logger
	now   func() time.Time
}

// New creates a Service using the wall clock.
func New(store storage.Storage, log *slog.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// SetClock overrides the service's clock (useful for testing).
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the service's current time, so callers share its clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// CreateResult reports a successful creation.
type CreateResult struct {
	ID   int64
	Next time.Time
}

// Create parses the time expression, persists the reminder, and returns
// its per-owner ID together with the first computed occurrence.
// Parse failures are returned as rule.ErrPastTime, rule.ErrBadTime or
// rule.ErrUnsupported for the caller to render.
func (s *Service) Create(ctx context.Context, owner, destination, expression, content string) (CreateResult, error) {
	r, next, err := rule.Parse(expression, s.now())
	if err != nil {
		return CreateResult{}, err
	}

	rec := &model.Reminder{
		Owner:       owner,
		Content:     content,
		RuleKind:    r.Kind,
		RuleLiteral: r.Literal,
		Destination: destination,
	}
	if err := s.store.CreateReminder(ctx, rec); err != nil {
		return CreateResult{}, fmt.Errorf("store reminder: %w", err)
	}

	s.log.Info("reminder created",
		"owner", owner,
		"reminder_id", rec.ID,
		"kind", r.Kind,
		"next", next.Format("2006-01-02 15:04"),
	)
	return CreateResult{ID: rec.ID, Next: next}, nil
}

// Entry is one row of an owner's reminder list. Next is zero when the
// stored literal no longer parses.
type Entry struct {
	ID      int64
	Content string
	Next    time.Time
}

// List returns the owner's active reminders with computed next times.
func (s *Service) List(ctx context.Context, owner string) ([]Entry, error) {
	reminders, err := s.store.ListActive(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	now := s.now()
	entries := make([]Entry, 0, len(reminders))
	for _, r := range reminders {
		next, err := rule.Next(r.RuleKind, r.RuleLiteral, now)
		if err != nil {
			s.log.Warn("skip next time for corrupt literal",
				"owner", owner, "reminder_id", r.ID, "error", err)
			next = time.Time{}
		}
		entries = append(entries, Entry{ID: r.ID, Content: r.Content, Next: next})
	}
	return entries, nil
}

// Delete removes a single reminder, reporting ErrNotFound for an
// unknown id.
func (s *Service) Delete(ctx context.Context, owner string, id int64) error {
	deleted, err := s.store.DeleteReminder(ctx, owner, id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// DeleteAll removes every reminder of the owner, reporting ErrNotFound
// when there was nothing to delete.
func (s *Service) DeleteAll(ctx context.Context, owner string) error {
	deleted, err := s.store.DeleteAllReminders(ctx, owner)
	if err != nil {
		return fmt.Errorf("delete all reminders: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
