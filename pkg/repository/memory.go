package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/model"
)

// Memory implements Catalog in process memory. Contents vanish with the process.
type Memory struct {
	mu       sync.RWMutex
	profiles []*model.Profile
}

type MemoryOption func(*Memory)

// WithProfiles seeds the catalog with the given profiles in order
func WithProfiles(profiles ...*model.Profile) MemoryOption {
	return func(m *Memory) {
		for _, p := range profiles {
			m.profiles = append(m.profiles, p.Clone())
		}
	}
}

// NewMemory creates an in-memory catalog
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) FindByName(ctx context.Context, query string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(query)
	for _, p := range m.profiles {
		if strings.Contains(strings.ToLower(p.Name), q) {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

func (m *Memory) InsertAtFront(ctx context.Context, profile *model.Profile) error {
	if profile == nil {
		return goerr.New("profile is nil")
	}
	if err := profile.Validate(); err != nil {
		return goerr.Wrap(err, "invalid profile")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(profile.ID) >= 0 {
		return goerr.Wrap(model.ErrDuplicateProfile, "failed to insert profile", goerr.V("id", profile.ID))
	}

	m.profiles = append([]*model.Profile{profile.Clone()}, m.profiles...)
	return nil
}

func (m *Memory) Get(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return nil, goerr.Wrap(model.ErrProfileNotFound, "failed to get profile", goerr.V("id", id))
	}
	return m.profiles[idx].Clone(), nil
}

func (m *Memory) List(ctx context.Context) ([]*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]*model.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, p.Clone())
	}
	return profiles, nil
}

func (m *Memory) AppendComment(ctx context.Context, id model.ProfileID, comment *model.Comment) error {
	if comment == nil {
		return goerr.New("comment is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return goerr.Wrap(model.ErrProfileNotFound, "failed to append comment", goerr.V("id", id))
	}

	copied := *comment
	m.profiles[idx].Comments = append(m.profiles[idx].Comments, &copied)
	return nil
}

// indexOf must be called with mu held
func (m *Memory) indexOf(id model.ProfileID) int {
	for i, p := range m.profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}
