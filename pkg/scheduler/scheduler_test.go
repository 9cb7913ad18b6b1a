package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReminderText_PrefersTitle(t *testing.T) {
	assert.Equal(t, "Reminder: buy milk", reminderText("buy milk", "get 2 liters"))
}

func TestReminderText_FallsBackToContent(t *testing.T) {
	assert.Equal(t, "Reminder: get 2 liters", reminderText("", "get 2 liters"))
}

func TestReminderText_FallsBackToGeneric(t *testing.T) {
	assert.Equal(t, "You have a reminder due", reminderText("", ""))
}

type fakeDispatcher struct {
	sent []string
}

func (f *fakeDispatcher) Send(ctx context.Context, userID int64, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func TestScheduler_StartStop_NoStore(t *testing.T) {
	// A nil store is fine as long as the tick never fires during this
	// short a window — this only exercises the goroutine lifecycle.
	s := New(nil, &fakeDispatcher{}, 0, 0, 0, nil)
	s.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	s.Stop()
}
