package agent

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/sweetpotato0/agentchat/pkg/logging"
)

// Registry resolves participant names to Agent instances. Implementations
// must be safe for concurrent use from multiple sessions.
type Registry interface {
	// GetAgent returns the agent registered under the given name.
	GetAgent(name string) (Agent, bool)

	// AvailableAgents returns the names of registered agents that are
	// currently available, in registration order.
	AvailableAgents() []string

	// Register adds an agent to the registry.
	Register(a Agent) error
}

// InMemoryRegistry is the default Registry backed by a map. Registration
// order is preserved so iteration is deterministic.
type InMemoryRegistry struct {
	mu     sync.RWMutex
	agents map[string]Agent
	order  []string
	logger *slog.Logger
}

// NewInMemoryRegistry creates an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		agents: make(map[string]Agent),
		logger: logging.WithComponent("agent_registry"),
	}
}

// Register adds an agent. Re-registering a name replaces the previous
// agent but keeps its original position.
func (r *InMemoryRegistry) Register(a Agent) error {
	if a == nil {
		return fmt.Errorf("agent cannot be nil")
	}
	if a.Name() == "" {
		return fmt.Errorf("agent name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[a.Name()]; !exists {
		r.order = append(r.order, a.Name())
	}
	r.agents[a.Name()] = a
	r.logger.Info("agent registered", "name", a.Name())
	return nil
}

// Unregister removes an agent by name.
func (r *InMemoryRegistry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[name]; !exists {
		return false
	}
	delete(r.agents, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Info("agent unregistered", "name", name)
	return true
}

// GetAgent returns the agent registered under the given name.
func (r *InMemoryRegistry) GetAgent(name string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// AvailableAgents returns names of registered agents that report available.
func (r *InMemoryRegistry) AvailableAgents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if a, ok := r.agents[name]; ok && a.IsAvailable() {
			names = append(names, name)
		}
	}
	return names
}
