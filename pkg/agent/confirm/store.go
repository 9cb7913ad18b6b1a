// Package confirm implements the two-phase confirmation protocol for
// destructive/batch tool operations (spec.md §4.4): a preview phase
// stores a PendingOperation behind a single-use, short-lived token;
// an execute phase consumes it. Token format, 5-minute TTL, single-use
// semantics, and lazy GC on access are translated directly from
// original_source/src/ai/batch_confirmations.py. The map-guarded-by-
// mutex storage shape follows the teacher's session cancel registry in
// pkg/queue/pool.go (map[string]T behind sync.RWMutex), substituting
// token → PendingOperation for session_id → cancel func.
package confirm

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/codeready-toolchain/inbox/pkg/models"
)

// ttl is the 5-minute window spec.md §4.4 mandates for a confirmation
// token.
const ttl = 5 * time.Minute

// PendingOperation is a batch/destructive operation awaiting the
// user's confirmation. The preview phase resolves and freezes
// MatchedIDs; the execute phase applies the operation against exactly
// that id set, never re-resolving Filter.
type PendingOperation struct {
	Token       string
	Action      string // "update" | "delete" | "move_items" | "delete_project"
	UserID      int64
	Filter      models.ItemFilter
	Updates     *models.UpdateItemFields
	MatchedIDs  []int
	ExtraIntID  int // target project id for move_items (0 clears the project); unused otherwise
	CreatedAt   time.Time
}

func (p *PendingOperation) expired() bool {
	return time.Now().After(p.CreatedAt.Add(ttl))
}

// Store is the in-memory, single-process confirmation token registry.
type Store struct {
	mu      sync.RWMutex
	pending map[string]*PendingOperation
}

// NewStore builds an empty confirmation Store.
func NewStore() *Store {
	return &Store{pending: make(map[string]*PendingOperation)}
}

// GenerateToken builds a token of the form "<prefix>_<url-safe-random>",
// matching generate_token in the original.
func GenerateToken(prefix string) string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return prefix + "_" + base64.RawURLEncoding.EncodeToString(buf)
}

// Put stores a pending operation, first evicting anything expired.
func (s *Store) Put(op *PendingOperation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupExpiredLocked()
	s.pending[op.Token] = op
}

// Get returns the pending operation for token if present and not
// expired. It does not consume the token — callers must call Clear
// themselves after a successful execution, matching the original's
// get_pending/clear_pending split (a caller may want to re-check
// ownership before consuming).
func (s *Store) Get(token string) *PendingOperation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.pending[token]
	if !ok || op.expired() {
		return nil
	}
	return op
}

// Clear removes a token unconditionally — a token is valid for exactly
// one execution.
func (s *Store) Clear(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, token)
}

func (s *Store) cleanupExpiredLocked() {
	for k, v := range s.pending {
		if v.expired() {
			delete(s.pending, k)
		}
	}
}
