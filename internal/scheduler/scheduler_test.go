package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/mealsbot/internal/database"
	"github.com/dukerupert/mealsbot/internal/store"
)

type fakeBroadcaster struct {
	sent []int64
	fail map[int64]bool
}

func (f *fakeBroadcaster) Send(chatID, targetID int64) error {
	if f.fail[targetID] {
		return errors.New("recipient blocked the bot")
	}
	f.sent = append(f.sent, targetID)
	return nil
}

func setupScheduler(t *testing.T) (*Scheduler, *fakeBroadcaster, *store.MemberStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	members := store.NewMemberStore(db)
	b := &fakeBroadcaster{fail: map[int64]bool{}}
	s := New(members, b, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s, b, members
}

func addActive(t *testing.T, members *store.MemberStore, id int64, name string) {
	t.Helper()
	if _, err := members.Upsert(id, "", name, ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := members.SetActive(id, true); err != nil {
		t.Fatalf("activate: %v", err)
	}
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func TestFiresOncePerWeekInWindow(t *testing.T) {
	s, b, members := setupScheduler(t)
	addActive(t, members, 100, "Frodo")

	ticks := []struct {
		at   string
		want int // cumulative sends after the tick
	}{
		{"2025-06-02T08:59:00+02:00", 0}, // Monday, before the window
		{"2025-06-02T09:01:00+02:00", 1}, // in the window: fire
		{"2025-06-02T09:02:00+02:00", 1}, // same window: no refire
		{"2025-06-02T09:58:00+02:00", 1},
		{"2025-06-03T09:01:00+02:00", 1}, // Tuesday: wrong day
		{"2025-06-09T09:00:00+02:00", 2}, // next Monday: fire again
	}

	for _, tick := range ticks {
		s.now = func() time.Time { return at(t, tick.at) }
		s.tick()
		if len(b.sent) != tick.want {
			t.Errorf("after tick at %s: sends = %d, want %d", tick.at, len(b.sent), tick.want)
		}
	}
}

func TestSkipsInactiveMembers(t *testing.T) {
	s, b, members := setupScheduler(t)
	addActive(t, members, 100, "Frodo")
	if _, err := members.Upsert(200, "", "Sam", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	s.now = func() time.Time { return at(t, "2025-06-02T09:00:00Z") }
	s.tick()

	if len(b.sent) != 1 || b.sent[0] != 100 {
		t.Errorf("sent = %v, want only member 100", b.sent)
	}
}

func TestDeliveryFailureDoesNotAbortBatch(t *testing.T) {
	s, b, members := setupScheduler(t)
	addActive(t, members, 100, "Frodo")
	addActive(t, members, 200, "Sam")
	addActive(t, members, 300, "Pippin")
	b.fail[200] = true

	s.now = func() time.Time { return at(t, "2025-06-02T09:00:00Z") }
	s.tick()

	if len(b.sent) != 2 {
		t.Errorf("sent = %v, want members 100 and 300", b.sent)
	}

	// The failed batch still counts as this week's firing.
	s.now = func() time.Time { return at(t, "2025-06-02T09:05:00Z") }
	s.tick()
	if len(b.sent) != 2 {
		t.Errorf("window refired after partial failure: %v", b.sent)
	}
}

func TestStartStop(t *testing.T) {
	s, _, _ := setupScheduler(t)
	s.interval = 10 * time.Millisecond

	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	// Stop must be safe to call again.
	s.Stop()
}
