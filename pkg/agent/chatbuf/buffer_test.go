package chatbuf

import (
	"testing"

	"github.com/codeready-toolchain/inbox/pkg/agent"
	"github.com/stretchr/testify/assert"
)

func TestBuffer_AppendAndHistory(t *testing.T) {
	b := New()
	b.Append(1, agent.Message{Role: agent.RoleUser, Content: "hi"})
	b.Append(1, agent.Message{Role: agent.RoleAssistant, Content: "hello"})

	hist := b.History(1)
	if assert.Len(t, hist, 2) {
		assert.Equal(t, "hi", hist[0].Content)
		assert.Equal(t, "hello", hist[1].Content)
	}
}

func TestBuffer_TrimsToDepth(t *testing.T) {
	b := New()
	for i := 0; i < 20; i++ {
		b.Append(1, agent.Message{Role: agent.RoleUser, Content: "msg"})
	}
	assert.Len(t, b.History(1), depth)
}

func TestBuffer_PerUserIsolation(t *testing.T) {
	b := New()
	b.Append(1, agent.Message{Role: agent.RoleUser, Content: "user1"})
	b.Append(2, agent.Message{Role: agent.RoleUser, Content: "user2"})

	assert.Len(t, b.History(1), 1)
	assert.Len(t, b.History(2), 1)
}

func TestBuffer_Clear(t *testing.T) {
	b := New()
	b.Append(1, agent.Message{Role: agent.RoleUser, Content: "hi"})
	b.Clear(1)
	assert.Empty(t, b.History(1))
}
