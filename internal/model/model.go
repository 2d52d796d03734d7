// Package model defines the domain types used across the application.
package model

import "time"

// Kind identifies the schedule rule of a reminder. The values double as
// the persisted rule_kind column.
type Kind string

// Supported rule kinds.
const (
	KindOneTime   Kind = "one_time"   // fires once at an absolute instant, then the record is deleted
	KindDaily     Kind = "daily"      // every day at HH:MM
	KindWeekly    Kind = "weekly"     // every week on weekday 1..7 (Mon..Sun) at HH:MM
	KindMonthly   Kind = "monthly"    // every month on day D at HH:MM
	KindYearly    Kind = "yearly"     // every year on M/D at HH:MM
	KindEveryHour Kind = "every_hour" // at the top of every hour
	KindEveryWeek Kind = "every_week" // every 7 days at HH:MM (00:00 when unset)
)

// Recurring reports whether reminders of this kind survive delivery and
// advance to a next occurrence, as opposed to one-shot reminders that
// are deleted after firing.
func (k Kind) Recurring() bool {
	return k != KindOneTime
}

// Valid reports whether k is one of the supported rule kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindOneTime, KindDaily, KindWeekly, KindMonthly, KindYearly, KindEveryHour, KindEveryWeek:
		return true
	}
	return false
}

// Rule is a normalized schedule: a kind plus the durable literal that
// parameterizes it. For one_time the literal is the absolute due instant
// ("2006-01-02 15:04:05"); for recurring kinds it is the anchor string
// (e.g. "08:30", "3 09:00").
type Rule struct {
	Kind    Kind
	Literal string
}

// Reminder represents a stored reminder owned by a single user.
type Reminder struct {
	ID          int64  // unique within the owner's partition only
	Owner       string // user that created and controls the reminder
	Content     string // text payload, delivered or replayed verbatim
	RuleKind    Kind
	RuleLiteral string
	Destination string // chat the notification is sent to; may differ from Owner in group chats
	Completed   bool
	CreatedAt   time.Time
}

// Rule returns the reminder's schedule as a Rule value.
func (r *Reminder) Rule() Rule {
	return Rule{Kind: r.RuleKind, Literal: r.RuleLiteral}
}
