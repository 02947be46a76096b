package memory

import (
	"context"
	"fmt"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// LoadComponents loads component edges into the repository
func (s *Store) LoadComponents(edges []*entities.AssemblyComponent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, edge := range edges {
		s.upsertComponent(*edge)
	}
	return nil
}

// SaveComponents inserts edges, replacing an existing edge between the same
// assembly and component. Nothing is written if any edge is invalid.
func (s *Store) SaveComponents(_ context.Context, edges []entities.AssemblyComponent) error {
	for i, edge := range edges {
		if err := edge.Validate(); err != nil {
			return fmt.Errorf("component edge %d: %w", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, edge := range edges {
		s.upsertComponent(edge)
	}
	return nil
}

func (s *Store) upsertComponent(edge entities.AssemblyComponent) {
	for _, index := range s.edgeIndex[edge.AssemblyID] {
		if s.edges[index].ComponentID == edge.ComponentID {
			s.edges[index] = edge
			return
		}
	}
	s.edgeIndex[edge.AssemblyID] = append(s.edgeIndex[edge.AssemblyID], len(s.edges))
	s.edges = append(s.edges, edge)
}

// ComponentsOf returns the edges of one assembly
func (s *Store) ComponentsOf(_ context.Context, assemblyID entities.PartID) ([]entities.AssemblyComponent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexes := s.edgeIndex[assemblyID]
	edges := make([]entities.AssemblyComponent, 0, len(indexes))
	for _, index := range indexes {
		edges = append(edges, s.edges[index])
	}
	return edges, nil
}

// ListComponents returns all edges
func (s *Store) ListComponents(_ context.Context) ([]entities.AssemblyComponent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]entities.AssemblyComponent, len(s.edges))
	copy(edges, s.edges)
	return edges, nil
}
