package repositories

import (
	"context"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// PartRepository provides access to part master data
type PartRepository interface {
	GetPart(ctx context.Context, id entities.PartID) (*entities.Part, error)
	ListParts(ctx context.Context) ([]entities.Part, error)
	SaveParts(ctx context.Context, parts []entities.Part) error
}
