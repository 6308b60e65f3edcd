package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextStore_GetAbsentIsEmpty(t *testing.T) {
	store := NewContextStore(18, 8)
	assert.Empty(t, store.Get("nobody"))
	assert.Empty(t, store.Window("nobody"))
}

func TestContextStore_AppendAndGet(t *testing.T) {
	store := NewContextStore(18, 8)

	store.Append("c1",
		Turn{Role: RoleUser, Content: "hello"},
		Turn{Role: RoleAssistant, Content: "hi"},
	)

	turns := store.Get("c1")
	assert.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, "hi", turns[1].Content)
}

func TestContextStore_RetainBound(t *testing.T) {
	store := NewContextStore(18, 8)

	// 20 user/assistant exchanges.
	for i := 0; i < 20; i++ {
		store.Append("c1",
			Turn{Role: RoleUser, Content: fmt.Sprintf("q%d", i)},
			Turn{Role: RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
	}

	turns := store.Get("c1")
	assert.Len(t, turns, 18)
	// Oldest retained turn is the user half of exchange 11.
	assert.Equal(t, "q11", turns[0].Content)
	assert.Equal(t, "a19", turns[17].Content)
}

func TestContextStore_WindowBound(t *testing.T) {
	store := NewContextStore(18, 8)

	for i := 0; i < 20; i++ {
		store.Append("c1",
			Turn{Role: RoleUser, Content: fmt.Sprintf("q%d", i)},
			Turn{Role: RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
	}

	window := store.Window("c1")
	assert.Len(t, window, 8)
	assert.Equal(t, "q16", window[0].Content)
	assert.Equal(t, "a19", window[7].Content)
}

func TestContextStore_IsolatedPerConversation(t *testing.T) {
	store := NewContextStore(18, 8)

	store.Append("c1", Turn{Role: RoleUser, Content: "one"})
	store.Append("c2", Turn{Role: RoleUser, Content: "two"})

	assert.Equal(t, "one", store.Get("c1")[0].Content)
	assert.Equal(t, "two", store.Get("c2")[0].Content)
	assert.Equal(t, 1, store.Len("c1"))
}

func TestContextStore_GetReturnsCopy(t *testing.T) {
	store := NewContextStore(18, 8)
	store.Append("c1", Turn{Role: RoleUser, Content: "original"})

	turns := store.Get("c1")
	turns[0].Content = "mutated"

	assert.Equal(t, "original", store.Get("c1")[0].Content)
}
