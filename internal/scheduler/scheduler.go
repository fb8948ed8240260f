// Package scheduler fires the weekly survey broadcast. It runs a coarse
// polling loop rather than an exact timer: the survey goes out within one
// polling interval of Monday 09:00 local time, once per week.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/mealsbot/internal/store"
	"github.com/dukerupert/mealsbot/internal/week"
)

const (
	sendDay  = time.Monday
	sendHour = 9
)

// Broadcaster delivers one member's survey. *survey.Engine satisfies it.
type Broadcaster interface {
	Send(chatID, targetID int64) error
}

type Scheduler struct {
	members  *store.MemberStore
	surveys  Broadcaster
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu       sync.Mutex
	lastWeek string
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(members *store.MemberStore, surveys Broadcaster, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		members:  members,
		surveys:  surveys,
		interval: time.Minute,
		now:      time.Now,
		logger:   logger,
	}
}

// Start begins the polling loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick() {
	now := s.now()
	if !s.due(now) {
		return
	}
	s.fire(now)
}

// due reports whether this tick falls in the weekly send window and the
// window hasn't fired yet. The in-memory marker means a restart during the
// window could resend; surveys are idempotent, so that's harmless.
func (s *Scheduler) due(now time.Time) bool {
	if now.Weekday() != sendDay || now.Hour() != sendHour {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWeek != week.Start(now)
}

func (s *Scheduler) fire(now time.Time) {
	members, err := s.members.ListActive()
	if err != nil {
		s.logger.Error("list active members", "error", err)
		return
	}

	sent, failed := 0, 0
	for _, m := range members {
		if err := s.surveys.Send(m.ID, m.ID); err != nil {
			s.logger.Warn("weekly survey delivery failed", "member", m.ID, "error", err)
			failed++
			continue
		}
		sent++
	}

	s.mu.Lock()
	s.lastWeek = week.Start(now)
	s.mu.Unlock()

	s.logger.Info("weekly survey broadcast", "week", week.Start(now), "sent", sent, "failed", failed)
}
