package groupchat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sweetpotato0/agentchat/agent"
	"github.com/sweetpotato0/agentchat/pkg/logging"
)

// Store is the interface for session storage backends that operate on
// serializable session records.
type Store interface {
	Save(ctx context.Context, record *Record) error
	Load(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// Manager manages group chat sessions keyed by session id, backed by a
// pluggable store. Operations on distinct sessions may run in parallel.
type Manager struct {
	mu       sync.RWMutex
	store    Store
	registry agent.Registry
	sessions map[string]*GroupChat
	chatOpts []Option
	logger   *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStore sets the storage backend.
func WithStore(s Store) ManagerOption {
	return func(m *Manager) {
		m.store = s
	}
}

// WithChatOptions sets options applied to every session the manager creates
// or rehydrates.
func WithChatOptions(opts ...Option) ManagerOption {
	return func(m *Manager) {
		m.chatOpts = opts
	}
}

// WithManagerLogger overrides the manager's logger.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session manager. The registry is shared by all
// sessions and must be safe for concurrent use.
func NewManager(registry agent.Registry, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: registry,
		sessions: make(map[string]*GroupChat),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.WithComponent("chat_manager")
	}
	return m
}

// Create creates a new session with the given id and configuration.
func (m *Manager) Create(ctx context.Context, id string, config ChatConfig) (*GroupChat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureStore(); err != nil {
		return nil, err
	}
	exists, err := m.store.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("session %s already exists", id)
	}

	gc := New(id, config, m.registry, m.chatOpts...)
	if err := m.store.Save(ctx, gc.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	m.sessions[id] = gc
	m.logger.Info("session created", "id", id, "chat", config.Name)
	return gc, nil
}

// Get returns a cached session or rehydrates it from the store.
func (m *Manager) Get(ctx context.Context, id string) (*GroupChat, error) {
	m.mu.RLock()
	if gc, ok := m.sessions[id]; ok {
		m.mu.RUnlock()
		return gc, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if gc, ok := m.sessions[id]; ok {
		return gc, nil
	}
	if err := m.ensureStore(); err != nil {
		return nil, err
	}

	record, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	gc, err := NewFromRecord(record, m.registry, m.chatOpts...)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = gc
	m.logger.Info("session rehydrated", "id", id)
	return gc, nil
}

// GetOrCreate returns an existing session or creates one with the supplied
// configuration.
func (m *Manager) GetOrCreate(ctx context.Context, id string, config ChatConfig) (*GroupChat, error) {
	if gc, err := m.Get(ctx, id); err == nil {
		return gc, nil
	}
	gc, err := m.Create(ctx, id, config)
	if err == nil {
		return gc, nil
	}
	// Lost a race with a concurrent creator; the session exists now.
	if existing, getErr := m.Get(ctx, id); getErr == nil {
		return existing, nil
	}
	return nil, err
}

// Save persists the session's current snapshot.
func (m *Manager) Save(ctx context.Context, gc *GroupChat) error {
	if gc == nil {
		return fmt.Errorf("session cannot be nil")
	}
	if err := m.ensureStore(); err != nil {
		return err
	}
	if err := m.store.Save(ctx, gc.Snapshot()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session from memory and storage. The session is cleaned
// up and becomes unusable.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gc, ok := m.sessions[id]; ok {
		gc.Cleanup()
	}
	delete(m.sessions, id)

	if err := m.ensureStore(); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.logger.Info("session deleted", "id", id)
	return nil
}

// List returns all persisted session ids.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	if err := m.ensureStore(); err != nil {
		return nil, err
	}
	return m.store.List(ctx)
}

// Count returns the number of persisted sessions.
func (m *Manager) Count(ctx context.Context) (int, error) {
	if err := m.ensureStore(); err != nil {
		return 0, err
	}
	return m.store.Count(ctx)
}

func (m *Manager) ensureStore() error {
	if m.store == nil {
		return fmt.Errorf("chat manager store is not configured")
	}
	return nil
}
