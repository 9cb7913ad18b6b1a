// Package chatbuf holds a bounded per-user conversation history buffer
// for the tool-protocol agent loop (spec.md §4.4 Open Questions: 6
// messages of context is enough for follow-up references like "delete
// that" without growing unbounded memory per user). Storage shape is a
// map keyed by user id behind a single sync.Mutex.
package chatbuf

import (
	"sync"

	"github.com/codeready-toolchain/inbox/pkg/agent"
)

// depth is the number of messages (user and assistant alike) retained
// per user.
const depth = 6

// Buffer is an in-memory, single-process FIFO history keyed by user.
type Buffer struct {
	mu   sync.Mutex
	byID map[int64][]agent.Message
}

// New builds an empty Buffer.
func New() *Buffer {
	return &Buffer{byID: make(map[int64][]agent.Message)}
}

// Append adds a message to userID's history, trimming the oldest
// entries once more than depth messages accumulate.
func (b *Buffer) Append(userID int64, msg agent.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	hist := append(b.byID[userID], msg)
	if max := depth; len(hist) > max {
		hist = hist[len(hist)-max:]
	}
	b.byID[userID] = hist
}

// History returns a copy of userID's retained conversation history,
// oldest first.
func (b *Buffer) History(userID int64) []agent.Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	hist := b.byID[userID]
	out := make([]agent.Message, len(hist))
	copy(out, hist)
	return out
}

// Clear drops userID's history entirely, used when a conversation
// topic resets (e.g. after a completed tool-protocol run with no
// further follow-up expected).
func (b *Buffer) Clear(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.byID, userID)
}
