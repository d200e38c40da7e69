package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/homebase/internal/chore"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/store"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// sentRetention is how long the dedup log keeps entries.
const sentRetention = 30 * 24 * time.Hour

// Scheduler periodically sends event reminders and overdue cat-task alerts.
type Scheduler struct {
	mu       sync.RWMutex
	sender   Sender
	push     *store.PushStore
	events   *store.EventStore
	cats     *store.CatTaskStore
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
	cleaned  string
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewScheduler(sender Sender, pushStore *store.PushStore, eventStore *store.EventStore, catStore *store.CatTaskStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		sender:   sender,
		push:     pushStore,
		events:   eventStore,
		cats:     catStore,
		logger:   logger,
		interval: time.Minute,
		now:      time.Now,
	}
}

// Start begins the scheduler loop.
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
				s.tick(ctx)
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()

	subs, err := s.push.ListAll()
	if err != nil {
		s.logger.Error("list subscriptions", "error", err)
		return
	}
	if len(subs) > 0 {
		s.sendEventReminders(ctx, now, subs)
		s.sendOverdueCatTasks(ctx, now, subs)
	}

	if day := now.Format(model.DateLayout); day != s.cleaned {
		if err := s.push.CleanupSent(now.Add(-sentRetention)); err != nil {
			s.logger.Error("cleanup sent notifications", "error", err)
		} else {
			s.cleaned = day
		}
	}
}

// sendEventReminders notifies everyone about events dated tomorrow. Each
// event is reminded once; the flag is cleared again if its date moves.
func (s *Scheduler) sendEventReminders(ctx context.Context, now time.Time, subs []model.PushSubscription) {
	events, err := s.events.ListNeedingReminder(now)
	if err != nil {
		s.logger.Error("list events needing reminder", "error", err)
		return
	}

	for _, e := range events {
		body := e.Title
		if e.Time != "" {
			body = fmt.Sprintf("%s at %s", e.Title, e.Time)
		}
		s.broadcast(ctx, subs, Payload{
			Title: fmt.Sprintf("%s Tomorrow", e.Emoji),
			Body:  body,
			URL:   "/events",
			Tag:   fmt.Sprintf("event-%d", e.ID),
			TTL:   12 * time.Hour,
		})

		if err := s.events.MarkReminderSent(e.ID); err != nil {
			s.logger.Error("mark reminder sent", "event_id", e.ID, "error", err)
		}
	}
}

// sendOverdueCatTasks alerts once per task per completion: the dedup key
// includes the last completion time, so completing the task re-arms it.
func (s *Scheduler) sendOverdueCatTasks(ctx context.Context, now time.Time, subs []model.PushSubscription) {
	tasks, err := s.cats.ListOverdue(now)
	if err != nil {
		s.logger.Error("list overdue cat tasks", "error", err)
		return
	}

	for _, t := range tasks {
		refID := overdueRef(t)
		sent, err := s.push.WasSent(model.NotifTypeCatTaskOverdue, refID)
		if err != nil {
			s.logger.Error("check sent", "ref", refID, "error", err)
			continue
		}
		if sent {
			continue
		}

		s.broadcast(ctx, subs, Payload{
			Title:   "🐱 Cat care overdue",
			Body:    fmt.Sprintf("%s (last done %s)", t.TaskName, chore.Since(t.LastDoneAt, now)),
			URL:     "/cat",
			Tag:     fmt.Sprintf("cat-%d", t.ID),
			Urgency: webpush.UrgencyHigh,
		})

		if err := s.push.RecordSent(model.NotifTypeCatTaskOverdue, refID); err != nil {
			s.logger.Error("record sent", "ref", refID, "error", err)
		}
	}
}

func overdueRef(t model.CatTask) string {
	if t.LastDoneAt == nil {
		return fmt.Sprintf("%d:never", t.ID)
	}
	return fmt.Sprintf("%d:%d", t.ID, t.LastDoneAt.Unix())
}

// SendToMember delivers payload to every device of member and returns how
// many deliveries succeeded.
func (s *Scheduler) SendToMember(ctx context.Context, member model.Member, payload Payload) (int, error) {
	subs, err := s.push.ListByMember(member)
	if err != nil {
		return 0, err
	}
	return s.broadcast(ctx, subs, payload), nil
}

func (s *Scheduler) broadcast(ctx context.Context, subs []model.PushSubscription, payload Payload) int {
	delivered := 0
	for i := range subs {
		sub := &subs[i]
		err := s.sender.Send(ctx, sub, payload)
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrExpired):
			s.logger.Info("removing expired subscription", "subscription_id", sub.ID, "member", sub.Member)
			if err := s.push.DeleteByEndpoint(sub.Endpoint); err != nil {
				s.logger.Error("delete expired subscription", "error", err)
			}
		default:
			s.logger.Warn("send push", "subscription_id", sub.ID, "error", err)
		}
	}
	return delivered
}
