// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"remind_bot/internal/model"
)

// Storage is the interface for all persistence operations. Reminders are
// partitioned by owner; IDs are unique within an owner's partition only.
// Single-record mutations are atomic, so a concurrent delete is never
// undone by a later anchor rewrite.
type Storage interface {
	CreateReminder(ctx context.Context, r *model.Reminder) error
	ListActive(ctx context.Context, owner string) ([]model.Reminder, error)
	ListOwners(ctx context.Context) ([]string, error)
	UpdateAnchor(ctx context.Context, owner string, id int64, literal string) (bool, error)
	DeleteReminder(ctx context.Context, owner string, id int64) (bool, error)
	DeleteAllReminders(ctx context.Context, owner string) (bool, error)

	Close() error
}
