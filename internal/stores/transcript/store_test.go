package transcript

import (
	"context"
	"testing"

	"github.com/ethanbaker/fanchat/pkg/export"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		sess, err := store.CreateSession(ctx, "U", "Yui", "")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, sess.ID)
		assert.Equal(t, "U", sess.UserName)
		assert.Equal(t, "Yui", sess.PersonaName)
		assert.Empty(t, sess.ConversationID)
		assert.Zero(t, sess.TurnCount())
	})

	t.Run("with existing conversation id", func(t *testing.T) {
		sess, err := store.CreateSession(ctx, "U", "Yui", "conv-123")
		require.NoError(t, err)
		assert.Equal(t, "conv-123", sess.ConversationID)
	})

	t.Run("missing user name", func(t *testing.T) {
		_, err := store.CreateSession(ctx, "", "Yui", "")
		assert.Error(t, err)
	})

	t.Run("missing persona name", func(t *testing.T) {
		_, err := store.CreateSession(ctx, "U", "", "")
		assert.Error(t, err)
	})
}

func TestGetAndDeleteSession(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "U", "Yui", "")
	require.NoError(t, err)

	found, err := store.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, found.ID)

	require.NoError(t, store.DeleteSession(ctx, sess.ID))

	_, err = store.GetSession(ctx, sess.ID)
	assert.Error(t, err)

	assert.Error(t, store.DeleteSession(ctx, sess.ID))
}

func TestSessionTranscript(t *testing.T) {
	store := NewInMemoryStore()
	sess, err := store.CreateSession(context.Background(), "U", "Yui", "")
	require.NoError(t, err)

	sess.Append(export.Turn{Role: export.RoleUser, Name: "U", Content: "hi"})
	sess.Append(export.Turn{Role: export.RoleAssistant, Name: "Yui", Content: "hello"})

	turns := sess.Transcript()
	require.Len(t, turns, 2)
	assert.Equal(t, "hi", turns[0].Content)
	assert.Equal(t, "hello", turns[1].Content)

	// Mutating the returned copy must not touch the session
	turns[0].Content = "changed"
	fresh := sess.Transcript()
	assert.Equal(t, "hi", fresh[0].Content)

	turn, err := sess.Turn(1)
	require.NoError(t, err)
	assert.Equal(t, export.RoleAssistant, turn.Role)

	_, err = sess.Turn(5)
	assert.Error(t, err)
}

func TestSessionReplace(t *testing.T) {
	store := NewInMemoryStore()
	sess, err := store.CreateSession(context.Background(), "U", "Yui", "conv-1")
	require.NoError(t, err)

	history := export.Transcript{
		{Role: export.RoleUser, Name: "U", Content: "earlier"},
		{Role: export.RoleAssistant, Name: "Yui", Content: "yes"},
	}
	sess.Replace(history)

	assert.Equal(t, 2, sess.TurnCount())
}

func TestSessionConversationID(t *testing.T) {
	store := NewInMemoryStore()
	sess, err := store.CreateSession(context.Background(), "U", "Yui", "")
	require.NoError(t, err)

	// First allocation wins, later ones are ignored
	sess.SetConversationID("first")
	sess.SetConversationID("second")
	assert.Equal(t, "first", sess.ConversationID)
}

func TestSessionClear(t *testing.T) {
	store := NewInMemoryStore()
	sess, err := store.CreateSession(context.Background(), "U", "Yui", "conv-1")
	require.NoError(t, err)

	sess.Append(export.Turn{Role: export.RoleUser, Name: "U", Content: "hi"})
	sess.AttachCSV("a,b\n1,2\n")
	sess.Clear()

	assert.Zero(t, sess.TurnCount())
	assert.Empty(t, sess.ConversationID)
	assert.Empty(t, sess.TakePendingCSV())
}

func TestSessionPendingCSV(t *testing.T) {
	store := NewInMemoryStore()
	sess, err := store.CreateSession(context.Background(), "U", "Yui", "")
	require.NoError(t, err)

	sess.AttachCSV("a,b\n1,2\n")

	// The attachment is consumed exactly once
	assert.Equal(t, "a,b\n1,2\n", sess.TakePendingCSV())
	assert.Empty(t, sess.TakePendingCSV())
}
