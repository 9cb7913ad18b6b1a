// Package scheduler implements the reminder scheduler: a periodic tick
// loop that scans for due items across every user and dispatches a
// reminder message through a narrow Dispatcher port. Run-loop shape
// (ticker/select/stop channel/WaitGroup) is grounded on the teacher's
// pkg/queue/worker.go; the periodic-ticker idiom also matches
// pkg/mcp/health.go's health-check loop.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/codeready-toolchain/inbox/pkg/store"
)

// Default tick cadence and due-window bounds, per spec.md §4.5, used
// when config.SchedulerConfig leaves the corresponding field zero.
const (
	defaultTickInterval    = 60 * time.Second
	defaultLookbackWindow  = 5 * time.Minute
	defaultLookaheadWindow = 1 * time.Minute
)

// Dispatcher delivers a reminder message to a user through whatever
// transport the deployment uses (spec.md §6 treats the transport layer
// as an external collaborator).
type Dispatcher interface {
	Send(ctx context.Context, userID int64, text string) error
}

// Scheduler runs the reminder tick loop.
type Scheduler struct {
	store      *store.Store
	dispatcher Dispatcher
	log        *slog.Logger

	tickInterval time.Duration
	lookback     time.Duration
	lookahead    time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New builds a Scheduler. dispatcher may be nil, in which case due
// reminders are logged but not delivered — useful for a deployment
// that hasn't wired a transport yet. tickInterval, lookback, and
// lookahead come from config.SchedulerConfig; a zero value for any of
// them falls back to its spec.md §4.5 default.
func New(st *store.Store, dispatcher Dispatcher, tickInterval, lookback, lookahead time.Duration, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	if tickInterval <= 0 {
		tickInterval = defaultTickInterval
	}
	if lookback <= 0 {
		lookback = defaultLookbackWindow
	}
	if lookahead <= 0 {
		lookahead = defaultLookaheadWindow
	}
	return &Scheduler{
		store:        st,
		dispatcher:   dispatcher,
		log:          log.With("component", "scheduler"),
		tickInterval: tickInterval,
		lookback:     lookback,
		lookahead:    lookahead,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the tick loop in a goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop signals the loop to stop and waits for it to finish. Safe to
// call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	s.log.Info("scheduler started", "interval", s.tickInterval)

	for {
		select {
		case <-s.stopCh:
			s.log.Info("scheduler stopping")
			return
		case <-ctx.Done():
			s.log.Info("scheduler context cancelled")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick recomputes the fixed [now-lookback, now+lookahead] due window
// from scratch every call, per spec.md §4.5 — not a "since last scan"
// sliding window, so that a process restart or a transient scan
// failure never permanently loses a scan range: every due item is
// guaranteed to fall inside this window on some tick within
// [due, due+lookback] as long as the process is up.
func (s *Scheduler) tick(ctx context.Context) {
	now := time.Now()
	from := now.Add(-s.lookback)
	to := now.Add(s.lookahead)

	hits, err := s.store.Items.FindDueWindow(ctx, from, to)
	if err != nil {
		s.log.Error("scanning due window", "error", err)
		return
	}

	for _, hit := range hits {
		text := reminderText(hit.Item.Title, hit.Item.Content)
		if s.dispatcher != nil {
			if err := s.dispatcher.Send(ctx, hit.UserID, text); err != nil {
				s.log.Error("dispatching reminder", "item_id", hit.Item.ID, "user_id", hit.UserID, "error", err)
				continue
			}
		} else {
			s.log.Info("reminder due (no dispatcher configured)", "item_id", hit.Item.ID, "user_id", hit.UserID, "text", text)
		}

		if err := s.store.Items.Snooze(ctx, hit.Item.ID); err != nil {
			s.log.Error("snoozing reminder", "item_id", hit.Item.ID, "error", err)
		}
	}
}

func reminderText(title, content string) string {
	if title != "" {
		return "Reminder: " + title
	}
	if content != "" {
		return "Reminder: " + content
	}
	return "You have a reminder due"
}
