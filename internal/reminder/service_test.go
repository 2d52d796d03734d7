package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"remind_bot/internal/rule"
	"remind_bot/internal/storage"
)

func newTestService(t *testing.T, now time.Time) (*Service, *storage.SQLite) {
	t.Helper()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.SetClock(func() time.Time { return now })
	return svc, store
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	svc, _ := newTestService(t, now)

	res, err := svc.Create(ctx, "alice", "alice", "每天 08:00", "吃早饭")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if diff := cmp.Diff(int64(1), res.ID); diff != "" {
		t.Errorf("id (-want +got):\n%s", diff)
	}
	if want := time.Date(2024, 1, 4, 8, 0, 0, 0, time.Local); !res.Next.Equal(want) {
		t.Errorf("next = %v, want %v", res.Next, want)
	}

	entries, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if diff := cmp.Diff("吃早饭", entries[0].Content); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
	if !entries[0].Next.Equal(res.Next) {
		t.Errorf("list next = %v, want %v", entries[0].Next, res.Next)
	}
}

func TestCreateParseErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	svc, _ := newTestService(t, now)

	_, err := svc.Create(ctx, "alice", "alice", "今天 08:00", "x")
	if !errors.Is(err, rule.ErrPastTime) {
		t.Errorf("err = %v, want ErrPastTime", err)
	}

	_, err = svc.Create(ctx, "alice", "alice", "每分钟", "x")
	if !errors.Is(err, rule.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}

	entries, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("failed creates left %d records", len(entries))
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	svc, _ := newTestService(t, now)

	res, err := svc.Create(ctx, "alice", "alice", "30分钟后", "喝水")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, "alice", res.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "alice", res.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	svc, _ := newTestService(t, now)

	if err := svc.DeleteAll(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty delete all err = %v, want ErrNotFound", err)
	}

	for _, expr := range []string{"每天 08:00", "每周一 09:00"} {
		if _, err := svc.Create(ctx, "alice", "alice", expr, "x"); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := svc.DeleteAll(ctx, "alice"); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	entries, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries after delete all, want 0", len(entries))
	}
}

func TestListCorruptLiteralHasZeroNext(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	svc, store := newTestService(t, now)

	res, err := svc.Create(ctx, "alice", "alice", "每天 08:00", "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.UpdateAnchor(ctx, "alice", res.ID, "garbage"); err != nil {
		t.Fatalf("corrupt anchor: %v", err)
	}

	entries, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if !entries[0].Next.IsZero() {
		t.Errorf("next = %v, want zero for corrupt literal", entries[0].Next)
	}
}
