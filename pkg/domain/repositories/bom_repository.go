package repositories

import (
	"context"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// BOMRepository provides access to assembly component edges
type BOMRepository interface {
	ListComponents(ctx context.Context) ([]entities.AssemblyComponent, error)

	// ComponentsOf returns the edges originating from one assembly.
	// An unknown assembly yields an empty slice, not an error.
	ComponentsOf(ctx context.Context, assemblyID entities.PartID) ([]entities.AssemblyComponent, error)

	SaveComponents(ctx context.Context, edges []entities.AssemblyComponent) error
}
