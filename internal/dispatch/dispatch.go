// Package dispatch implements the periodic sweep that finds due
// reminders, delivers them, and reschedules or retires them.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"remind_bot/internal/rule"
	"remind_bot/internal/storage"
)

// Notifier is the interface for delivering reminder content to chats.
type Notifier interface {
	// SendDirect sends plain text to a destination chat.
	SendDirect(destination, text string) error
	// SendWithMention sends text to a multi-user destination, calling
	// out the owner.
	SendWithMention(destination, text, owner string) error
	// ReplayAsCommand re-injects text as if the owner had just sent it,
	// so other command handlers can react to it. An error means no
	// handler consumed the text.
	ReplayAsCommand(ctx context.Context, owner, destination, text string) error
	// DisplayName resolves a human-readable name for the owner. It must
	// return a safe fallback on any failure.
	DisplayName(owner string) string
}

// Dispatcher periodically sweeps all owners' reminders and delivers the
// ones whose next occurrence falls inside the due window.
//
// The tick period equals the window's half-width, so no due instant is
// skipped, but delivery lands within a ±tolerance slop of the exact
// instant. That inexactness is accepted in exchange for a sweep that
// re-derives all pending reminders from storage after a restart.
type Dispatcher struct {
	store     storage.Storage
	notifier  Notifier
	log       *slog.Logger
	template  string
	tick      time.Duration
	tolerance time.Duration
	now       func() time.Time
}

// New creates a Dispatcher with the default 30-second tick and
// tolerance. template is the simple-reminder template with {content},
// {time} and {nickname} placeholders.
func New(store storage.Storage, notifier Notifier, template string, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:     store,
		notifier:  notifier,
		log:       log,
		template:  template,
		tick:      30 * time.Second,
		tolerance: 30 * time.Second,
		now:       time.Now,
	}
}

// SetTickInterval overrides the default 30-second sweep interval.
func (d *Dispatcher) SetTickInterval(t time.Duration) {
	d.tick = t
}

// SetClock overrides the dispatcher's clock (useful for testing).
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.now = now
}

// Run starts the sweep loop, blocking until ctx is cancelled.
// Cancellation is only observed between sweeps, so an in-flight sweep
// always finishes before Run returns.
func (d *Dispatcher) Run(ctx context.Context) {
	d.Sweep(ctx)

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Sweep(ctx)
		}
	}
}

// Sweep performs one pass over every owner's active reminders.
// A failure on one owner or one reminder is logged and does not abort
// the rest of the sweep.
func (d *Dispatcher) Sweep(ctx context.Context) {
	now := d.now()

	owners, err := d.store.ListOwners(ctx)
	if err != nil {
		d.log.Error("list owners", "error", err)
		return
	}

	for _, owner := range owners {
		d.sweepOwner(ctx, owner, now)
	}
}

func (d *Dispatcher) sweepOwner(ctx context.Context, owner string, now time.Time) {
	reminders, err := d.store.ListActive(ctx, owner)
	if err != nil {
		d.log.Error("list reminders", "owner", owner, "error", err)
		return
	}

	lo := now.Add(-d.tolerance)
	hi := now.Add(d.tolerance)

	for _, r := range reminders {
		rl := r.Rule()
		next, err := rule.Next(rl.Kind, rl.Literal, now)
		if err != nil {
			// Data corruption: skip but keep the record for inspection.
			d.log.Warn("skip reminder with corrupt literal",
				"owner", owner, "reminder_id", r.ID, "error", err)
			continue
		}
		if next.Before(lo) || next.After(hi) {
			continue
		}

		d.deliver(ctx, r, now)

		if rl.Kind.Recurring() {
			// The literal itself is the durable schedule; this rewrite is
			// idempotent.
			rewrote, err := d.store.UpdateAnchor(ctx, owner, r.ID, rl.Literal)
			if err != nil {
				d.log.Error("rewrite anchor", "owner", owner, "reminder_id", r.ID, "error", err)
			} else if !rewrote {
				d.log.Warn("anchor rewrite hit a deleted reminder",
					"owner", owner, "reminder_id", r.ID)
			}
		} else {
			if _, err := d.store.DeleteReminder(ctx, owner, r.ID); err != nil {
				d.log.Error("retire one-shot reminder", "owner", owner, "reminder_id", r.ID, "error", err)
			}
		}
	}
}
