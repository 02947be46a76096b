package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/vsinha/partstock/pkg/domain/entities"
	"github.com/vsinha/partstock/pkg/infrastructure/batch"
)

const partColumns = "id, description, is_assembly, unit_cost, stock_quantity, markup_percent, assembly_labor_cost"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPart(row rowScanner) (entities.Part, error) {
	var (
		p     entities.Part
		id    string
		stock int64
	)
	err := row.Scan(&id, &p.Description, &p.IsAssembly, &p.UnitCost, &stock, &p.MarkupPercent, &p.AssemblyLaborCost)
	p.ID = entities.PartID(id)
	p.StockQuantity = entities.Quantity(stock)
	return p, err
}

// GetPart returns one part
func (s *Store) GetPart(ctx context.Context, id entities.PartID) (*entities.Part, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+partColumns+" FROM parts WHERE id=?", string(id))
	part, err := scanPart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("part %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load part %s: %w", id, err)
	}
	return &part, nil
}

// ListParts returns all parts ordered by id
func (s *Store) ListParts(ctx context.Context) ([]entities.Part, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+partColumns+" FROM parts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query parts: %w", err)
	}
	defer rows.Close()

	var parts []entities.Part
	for rows.Next() {
		part, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		parts = append(parts, part)
	}
	return parts, rows.Err()
}

// SaveParts upserts parts in batches, one transaction per batch
func (s *Store) SaveParts(ctx context.Context, parts []entities.Part) error {
	return batch.Apply(ctx, parts, s.batch, func(ctx context.Context, chunk []entities.Part) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO parts (`+partColumns+`) VALUES (?,?,?,?,?,?,?)
			ON CONFLICT(id) DO UPDATE SET
				description=excluded.description,
				is_assembly=excluded.is_assembly,
				unit_cost=excluded.unit_cost,
				stock_quantity=excluded.stock_quantity,
				markup_percent=excluded.markup_percent,
				assembly_labor_cost=excluded.assembly_labor_cost,
				updated_at=CURRENT_TIMESTAMP`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range chunk {
			if _, err := stmt.ExecContext(ctx, string(p.ID), p.Description, p.IsAssembly,
				p.UnitCost, int64(p.StockQuantity), p.MarkupPercent, p.AssemblyLaborCost); err != nil {
				return fmt.Errorf("save part %s: %w", p.ID, err)
			}
		}
		return tx.Commit()
	})
}

// ListComponents returns all component edges
func (s *Store) ListComponents(ctx context.Context) ([]entities.AssemblyComponent, error) {
	return s.queryComponents(ctx,
		"SELECT assembly_id, component_id, quantity_required FROM assembly_components ORDER BY assembly_id, component_id")
}

// ComponentsOf returns the edges of one assembly
func (s *Store) ComponentsOf(ctx context.Context, assemblyID entities.PartID) ([]entities.AssemblyComponent, error) {
	return s.queryComponents(ctx,
		"SELECT assembly_id, component_id, quantity_required FROM assembly_components WHERE assembly_id=? ORDER BY component_id",
		string(assemblyID))
}

func (s *Store) queryComponents(ctx context.Context, query string, args ...any) ([]entities.AssemblyComponent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query components: %w", err)
	}
	defer rows.Close()

	edges := make([]entities.AssemblyComponent, 0)
	for rows.Next() {
		var assemblyID, componentID string
		var qty int64
		if err := rows.Scan(&assemblyID, &componentID, &qty); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		edges = append(edges, entities.AssemblyComponent{
			AssemblyID:       entities.PartID(assemblyID),
			ComponentID:      entities.PartID(componentID),
			QuantityRequired: entities.Quantity(qty),
		})
	}
	return edges, rows.Err()
}

// SaveComponents upserts edges in batches. Edges are validated up front so a
// bad edge never leaves earlier batches half written.
func (s *Store) SaveComponents(ctx context.Context, edges []entities.AssemblyComponent) error {
	for _, edge := range edges {
		if err := edge.Validate(); err != nil {
			return err
		}
	}

	return batch.Apply(ctx, edges, s.batch, func(ctx context.Context, chunk []entities.AssemblyComponent) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		for _, edge := range chunk {
			if _, err := tx.ExecContext(ctx, `INSERT INTO assembly_components (assembly_id, component_id, quantity_required)
				VALUES (?,?,?) ON CONFLICT(assembly_id, component_id) DO UPDATE SET quantity_required=excluded.quantity_required`,
				string(edge.AssemblyID), string(edge.ComponentID), int64(edge.QuantityRequired)); err != nil {
				return fmt.Errorf("save component %s -> %s: %w", edge.AssemblyID, edge.ComponentID, err)
			}
		}
		return tx.Commit()
	})
}

func sortedPartIDs(deltas map[entities.PartID]entities.Quantity) []entities.PartID {
	ids := make([]entities.PartID, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
