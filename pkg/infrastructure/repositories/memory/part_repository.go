package memory

import (
	"context"
	"fmt"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// LoadParts loads parts into the repository
func (s *Store) LoadParts(parts []*entities.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, part := range parts {
		s.upsertPart(*part)
	}
	return nil
}

// SaveParts inserts or replaces parts by id
func (s *Store) SaveParts(_ context.Context, parts []entities.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, part := range parts {
		s.upsertPart(part)
	}
	return nil
}

func (s *Store) upsertPart(part entities.Part) {
	if index, exists := s.partsMap[part.ID]; exists {
		s.parts[index] = part
		return
	}
	s.partsMap[part.ID] = len(s.parts)
	s.parts = append(s.parts, part)
}

// GetPart returns a copy of the part with the given id
func (s *Store) GetPart(_ context.Context, id entities.PartID) (*entities.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, exists := s.partsMap[id]
	if !exists {
		return nil, fmt.Errorf("part %s: %w", id, entities.ErrNotFound)
	}
	part := s.parts[index]
	return &part, nil
}

// ListParts returns a snapshot of all parts in insertion order
func (s *Store) ListParts(_ context.Context) ([]entities.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parts := make([]entities.Part, len(s.parts))
	copy(parts, s.parts)
	return parts, nil
}
