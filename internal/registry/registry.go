// Package registry maps environment IDs to factories. The host builds and owns
// the registry; nothing registers itself at init time.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"skirmish/internal/combat"
)

const (
	SkirmishID         = "Skirmish-v0"
	SkirmishMaxEpisode = 100
)

var (
	ErrDuplicateID = errors.New("environment id already registered")
	ErrUnknownID   = errors.New("unknown environment id")
)

// Factory builds a fresh environment from construction options.
type Factory func(opts combat.Options) (combat.Environment, error)

type Spec struct {
	ID string
	// MaxEpisodeSteps wraps made environments in a TimeLimit; 0 disables it.
	MaxEpisodeSteps int
	New             Factory
}

type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

func New() *Registry {
	return &Registry{specs: map[string]Spec{}}
}

// Default returns a registry holding the skirmish environment.
func Default() *Registry {
	r := New()
	_ = r.Register(Spec{ID: SkirmishID, MaxEpisodeSteps: SkirmishMaxEpisode, New: NewSkirmish})
	return r
}

func NewSkirmish(opts combat.Options) (combat.Environment, error) {
	env, err := combat.New(opts)
	if err != nil {
		return nil, err
	}
	return env, nil
}

func (r *Registry) Register(s Spec) error {
	if s.ID == "" || s.New == nil {
		return fmt.Errorf("register %q: id and factory are required", s.ID)
	}
	if s.MaxEpisodeSteps < 0 {
		return fmt.Errorf("register %q: negative max episode steps", s.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.specs[s.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, s.ID)
	}
	r.specs[s.ID] = s
	return nil
}

func (r *Registry) Spec(id string) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[id]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrUnknownID, id)
	}
	return s, nil
}

// Make builds the environment registered under id, applying the episode cap.
func (r *Registry) Make(id string, opts combat.Options) (combat.Environment, error) {
	s, err := r.Spec(id)
	if err != nil {
		return nil, err
	}
	env, err := s.New(opts)
	if err != nil {
		return nil, fmt.Errorf("make %s: %w", id, err)
	}
	if s.MaxEpisodeSteps > 0 {
		return NewTimeLimit(env, s.MaxEpisodeSteps), nil
	}
	return env, nil
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
