package confirm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateToken_HasPrefix(t *testing.T) {
	tok := GenerateToken("del")
	assert.Contains(t, tok, "del_")
	assert.Greater(t, len(tok), len("del_"))
}

func TestStore_PutGetClear(t *testing.T) {
	s := NewStore()
	op := &PendingOperation{Token: "del_abc", Action: "delete", UserID: 1, MatchedIDs: []int{1, 2}, CreatedAt: time.Now()}
	s.Put(op)

	got := s.Get("del_abc")
	if assert.NotNil(t, got) {
		assert.Equal(t, []int{1, 2}, got.MatchedIDs)
	}

	s.Clear("del_abc")
	assert.Nil(t, s.Get("del_abc"))
}

func TestStore_Expired(t *testing.T) {
	s := NewStore()
	op := &PendingOperation{Token: "del_old", CreatedAt: time.Now().Add(-10 * time.Minute)}
	s.Put(op)
	assert.Nil(t, s.Get("del_old"))
}

func TestStore_Missing(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Get("nope"))
}
