package entities

import "fmt"

// AssemblyComponent is a BOM edge: one unit of AssemblyID consumes
// QuantityRequired units of ComponentID
type AssemblyComponent struct {
	AssemblyID       PartID
	ComponentID      PartID
	QuantityRequired Quantity
}

// NewAssemblyComponent creates a validated AssemblyComponent
func NewAssemblyComponent(assemblyID, componentID PartID, quantityRequired Quantity) (*AssemblyComponent, error) {
	edge := AssemblyComponent{
		AssemblyID:       assemblyID,
		ComponentID:      componentID,
		QuantityRequired: quantityRequired,
	}
	if err := edge.Validate(); err != nil {
		return nil, err
	}
	return &edge, nil
}

// Validate checks the edge invariants
func (c AssemblyComponent) Validate() error {
	if string(c.AssemblyID) == "" {
		return NewValidationError("assembly_id", "assembly part id cannot be empty")
	}
	if string(c.ComponentID) == "" {
		return NewValidationError("component_id", "component part id cannot be empty")
	}
	if c.AssemblyID == c.ComponentID {
		return NewValidationError("component_id", fmt.Sprintf("assembly cannot contain itself: %s", c.AssemblyID))
	}
	if c.QuantityRequired <= 0 {
		return NewValidationError("quantity_required", fmt.Sprintf("quantity required must be positive, got %d", c.QuantityRequired))
	}
	return nil
}

// BOMIndex holds component edges keyed by assembly id
type BOMIndex map[PartID][]AssemblyComponent

// IndexComponents groups edges by assembly in a single pass. Any invalid
// edge rejects the whole set.
func IndexComponents(edges []AssemblyComponent) (BOMIndex, error) {
	index := make(BOMIndex)
	for i, edge := range edges {
		if err := edge.Validate(); err != nil {
			return nil, fmt.Errorf("component edge %d (%s -> %s): %w", i, edge.AssemblyID, edge.ComponentID, err)
		}
		index[edge.AssemblyID] = append(index[edge.AssemblyID], edge)
	}
	return index, nil
}
