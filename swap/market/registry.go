package market

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrEnvironmentNotFound  = errors.New("market environment not found")
	ErrDuplicateEnvironment = errors.New("market environment already registered")
)

// Registry is a thread-safe store of market environments keyed by id.
// Lifetime is caller managed: whatever is added stays until Remove.
type Registry struct {
	mu   sync.RWMutex
	envs map[string]*Environment
	log  zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		envs: make(map[string]*Environment),
		log:  log.With().Str("component", "market_registry").Logger(),
	}
}

// Add registers env under its id. Ids must be unique.
func (r *Registry) Add(env *Environment) error {
	if env == nil {
		return fmt.Errorf("Add: nil environment")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.envs[env.ID()]; ok {
		return fmt.Errorf("Add: %w: %s", ErrDuplicateEnvironment, env.ID())
	}
	r.envs[env.ID()] = env
	r.log.Info().Str("env_id", env.ID()).Int("curves", len(env.curves)).Msg("market environment added")
	return nil
}

// Get returns the environment registered under id.
func (r *Registry) Get(id string) (*Environment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	env, ok := r.envs[id]
	if !ok {
		return nil, fmt.Errorf("Get: %w: %s", ErrEnvironmentNotFound, id)
	}
	return env, nil
}

// Remove drops id and reports whether it was present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.envs[id]; !ok {
		return false
	}
	delete(r.envs, id)
	r.log.Info().Str("env_id", id).Msg("market environment removed")
	return true
}

// Len returns the number of registered environments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.envs)
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.envs))
	for id := range r.envs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
