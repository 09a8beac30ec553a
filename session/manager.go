package session

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Manager holds the running sessions of a server.
type Manager struct {
	ctx    context.Context
	cancel context.CancelFunc
	max    int

	lock     sync.Mutex
	sessions map[string]*managed
}

type managed struct {
	*Session
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager returns a manager that holds at most max sessions, zero means
// no limit.
func NewManager(max int) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		ctx:      ctx,
		cancel:   cancel,
		max:      max,
		sessions: map[string]*managed{},
	}
}

// Create builds a session and starts its loop.
func (m *Manager) Create(opts Options) (*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.max > 0 && len(m.sessions) >= m.max {
		return nil, ErrTooMany
	}
	if opts.ID != "" {
		if _, ok := m.sessions[opts.ID]; ok {
			return nil, ErrExists
		}
	}

	s := New(opts)
	ctx, cancel := context.WithCancel(m.ctx)
	ms := &managed{Session: s, cancel: cancel, done: make(chan struct{})}
	m.sessions[s.ID] = ms
	activeSessions.Inc()

	go func() {
		defer close(ms.done)
		if err := s.Run(ctx); err != nil && err != context.Canceled {
			log.WithError(err).WithField("GameID", s.ID).Error("session failed")
		}
		m.forget(s.ID)
	}()

	log.WithFields(log.Fields{
		"GameID": s.ID,
		"Mode":   s.mode,
	}).Info("session created")
	return s, nil
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if ms, ok := m.sessions[id]; ok {
		return ms.Session, nil
	}
	return nil, ErrNotFound
}

// Remove stops the session with id and waits for its loop to exit.
func (m *Manager) Remove(id string) error {
	m.lock.Lock()
	ms, ok := m.sessions[id]
	m.lock.Unlock()
	if !ok {
		return ErrNotFound
	}

	ms.cancel()
	<-ms.done
	return nil
}

// Len returns the number of running sessions.
func (m *Manager) Len() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.sessions)
}

// Close stops every session.
func (m *Manager) Close() {
	m.cancel()

	m.lock.Lock()
	var waits []chan struct{}
	for _, ms := range m.sessions {
		waits = append(waits, ms.done)
	}
	m.lock.Unlock()

	for _, w := range waits {
		<-w
	}
}

func (m *Manager) forget(id string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		activeSessions.Dec()
	}
}
