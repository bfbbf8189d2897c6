package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

// MockTestSession is a mock test the user has started but not finished yet.
type MockTestSession struct {
	StartedAt time.Time
	Answers   []entities.QuestionResult
}

// Elapsed returns the whole seconds passed since the session started.
func (s MockTestSession) Elapsed(now time.Time) int {
	d := now.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// MockTestSessions provides in-memory storage for open mock tests by user ID.
type MockTestSessions struct {
	mu       sync.RWMutex
	sessions map[int64]*MockTestSession
}

// NewMockTestSessions creates a new MockTestSessions.
func NewMockTestSessions() *MockTestSessions {
	return &MockTestSessions{
		sessions: make(map[int64]*MockTestSession),
	}
}

// Start opens a new session for userID, discarding any open one.
func (s *MockTestSessions) Start(userID int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &MockTestSession{StartedAt: at}
}

// Add appends an answer to the open session. It reports false when none is open.
func (s *MockTestSessions) Add(userID int64, answer entities.QuestionResult) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return 0, false
	}
	session.Answers = append(session.Answers, answer)
	return len(session.Answers), true
}

// Get returns a copy of the open session of userID.
func (s *MockTestSessions) Get(userID int64) (MockTestSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return MockTestSession{}, false
	}
	out := *session
	out.Answers = append([]entities.QuestionResult(nil), session.Answers...)
	return out, true
}

// Finish removes and returns the open session of userID.
func (s *MockTestSessions) Finish(userID int64) (MockTestSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return MockTestSession{}, false
	}
	delete(s.sessions, userID)
	return *session, true
}
