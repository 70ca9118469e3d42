package transcript

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethanbaker/fanchat/pkg/export"
	"github.com/google/uuid"
)

// Store interface defines methods for chat session storage. Sessions are
// request-scoped conversation state only; durable history lives in the
// spreadsheet collaborator
type Store interface {
	CreateSession(ctx context.Context, userName, personaName, conversationID string) (*Session, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
}

// Session owns the transcript of one active chat
type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserName    string `json:"user_name"`
	PersonaName string `json:"persona_name"`

	// ConversationID is allocated by the chat backend on the first reply
	// and identifies the durable conversation in the spreadsheet log
	ConversationID string `json:"conversation_id"`

	turns      export.Transcript
	pendingCSV string

	mu sync.Mutex
}

// Append adds a turn to the transcript. Turns are immutable once appended
func (s *Session) Append(turn export.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turn)
	s.UpdatedAt = time.Now().UTC()
}

// Replace swaps the whole transcript, used when resuming history from the
// spreadsheet log
func (s *Session) Replace(turns export.Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(export.Transcript(nil), turns...)
	s.UpdatedAt = time.Now().UTC()
}

// Transcript returns a copy of the session's turns in chronological order
func (s *Session) Transcript() export.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append(export.Transcript(nil), s.turns...)
}

// TurnCount returns the number of turns in the transcript
func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.turns)
}

// Turn returns the turn at the given index
func (s *Session) Turn(i int) (export.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.turns) {
		return export.Turn{}, fmt.Errorf("turn index %d out of range", i)
	}
	return s.turns[i], nil
}

// Clear drops the transcript and conversation id to start a fresh
// conversation with the same persona
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = nil
	s.ConversationID = ""
	s.pendingCSV = ""
	s.UpdatedAt = time.Now().UTC()
}

// SetConversationID records the backend-allocated conversation id. Only the
// first allocation wins
func (s *Session) SetConversationID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ConversationID == "" && id != "" {
		s.ConversationID = id
	}
}

// AttachCSV stages CSV text to ride along with the next message
func (s *Session) AttachCSV(csvText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingCSV = csvText
}

// TakePendingCSV returns and clears the staged CSV attachment
func (s *Session) TakePendingCSV() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	csvText := s.pendingCSV
	s.pendingCSV = ""
	return csvText
}

// InMemoryStore keeps active sessions in process memory
type InMemoryStore struct {
	sessions map[uuid.UUID]*Session
	mu       sync.RWMutex
}

// NewInMemoryStore creates a new in-memory session store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[uuid.UUID]*Session),
	}
}

// CreateSession creates a new session. conversationID may be empty for a
// fresh conversation, or a shared id when joining an existing one
func (s *InMemoryStore) CreateSession(ctx context.Context, userName, personaName, conversationID string) (*Session, error) {
	if userName == "" {
		return nil, fmt.Errorf("user name cannot be empty")
	}
	if personaName == "" {
		return nil, fmt.Errorf("persona name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	session := &Session{
		ID:             uuid.New(),
		CreatedAt:      now,
		UpdatedAt:      now,
		UserName:       userName,
		PersonaName:    personaName,
		ConversationID: conversationID,
	}

	s.sessions[session.ID] = session
	return session, nil
}

// GetSession retrieves a session by ID
func (s *InMemoryStore) GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("session not found")
	}

	return session, nil
}

// DeleteSession removes a session and its transcript
func (s *InMemoryStore) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return fmt.Errorf("session not found")
	}

	delete(s.sessions, sessionID)
	return nil
}
