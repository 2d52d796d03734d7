package dispatch

import (
	"context"
	"strings"
	"time"

	"remind_bot/internal/model"
)

// simpleMarker is the leading marker that selects plain templated
// delivery instead of command replay.
const simpleMarker = "提醒"

// DefaultTemplate renders simple reminders when no template is
// configured.
const DefaultTemplate = "⏰ 定时提醒 ⏰\n\n{content}\n\n⏱️ {time}"

// deliver sends one due reminder. Content starting with the 提醒 marker
// is rendered through the simple template and sent to the destination;
// anything else is replayed as an inbound command so other handlers can
// react to it, falling back to plain text if no handler consumes it.
// Failures are logged and never propagate; there is no retry within the
// same sweep.
func (d *Dispatcher) deliver(ctx context.Context, r model.Reminder, now time.Time) {
	if strings.HasPrefix(r.Content, simpleMarker) {
		body := strings.TrimSpace(strings.TrimPrefix(r.Content, simpleMarker))
		text := d.renderSimple(body, now, r.Owner)

		var err error
		if r.Destination != r.Owner {
			err = d.notifier.SendWithMention(r.Destination, text, r.Owner)
		} else {
			err = d.notifier.SendDirect(r.Destination, text)
		}
		if err != nil {
			d.log.Error("send simple reminder",
				"owner", r.Owner, "reminder_id", r.ID, "error", err)
			return
		}
		d.log.Info("delivered reminder", "owner", r.Owner, "reminder_id", r.ID)
		return
	}

	if err := d.notifier.ReplayAsCommand(ctx, r.Owner, r.Destination, r.Content); err != nil {
		d.log.Warn("replay as command failed, sending plain text",
			"owner", r.Owner, "reminder_id", r.ID, "error", err)
		if err := d.notifier.SendDirect(r.Destination, r.Content); err != nil {
			d.log.Error("send fallback reminder",
				"owner", r.Owner, "reminder_id", r.ID, "error", err)
		}
		return
	}
	d.log.Info("replayed reminder as command", "owner", r.Owner, "reminder_id", r.ID)
}

func (d *Dispatcher) renderSimple(content string, now time.Time, owner string) string {
	tmpl := d.template
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	return strings.NewReplacer(
		"{content}", content,
		"{time}", now.Format("2006-01-02 15:04"),
		"{nickname}", d.notifier.DisplayName(owner),
	).Replace(tmpl)
}
