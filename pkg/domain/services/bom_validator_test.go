package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

func part(id entities.PartID, assembly bool) entities.Part {
	return entities.Part{ID: id, IsAssembly: assembly}
}

func edge(assembly, component entities.PartID, qty entities.Quantity) entities.AssemblyComponent {
	return entities.AssemblyComponent{AssemblyID: assembly, ComponentID: component, QuantityRequired: qty}
}

func TestBOMValidator_CleanGraph(t *testing.T) {
	validator := NewBOMValidator()
	result := validator.ValidateBOM(
		[]entities.Part{part("KIT", true), part("SUB", true), part("BOLT", false), part("NUT", false)},
		[]entities.AssemblyComponent{edge("KIT", "BOLT", 4), edge("KIT", "SUB", 1), edge("SUB", "NUT", 2)},
	)

	assert.False(t, result.HasIssues())
	assert.False(t, result.HasCycles)
	assert.Empty(t, result.Warnings)
}

func TestBOMValidator_DetectsCycle(t *testing.T) {
	validator := NewBOMValidator()
	result := validator.ValidateBOM(
		[]entities.Part{part("A", true), part("B", true)},
		[]entities.AssemblyComponent{edge("A", "B", 1), edge("B", "A", 1)},
	)

	require.True(t, result.HasCycles)
	require.Len(t, result.CyclePaths, 1)
	assert.Equal(t, []entities.PartID{"A", "B", "A"}, result.CyclePaths[0])

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, entities.CycleDetected, result.Warnings[0].Kind)
	assert.Equal(t, entities.PartID("B"), result.Warnings[0].AssemblyID)
	assert.Equal(t, entities.PartID("A"), result.Warnings[0].ComponentID)
}

func TestBOMValidator_SharedComponentIsNotACycle(t *testing.T) {
	// diamond: KIT uses X and Y, both use BOLT
	validator := NewBOMValidator()
	result := validator.ValidateBOM(
		[]entities.Part{part("KIT", true), part("X", true), part("Y", true), part("BOLT", false)},
		[]entities.AssemblyComponent{
			edge("KIT", "X", 1), edge("KIT", "Y", 1),
			edge("X", "BOLT", 1), edge("Y", "BOLT", 1),
		},
	)

	assert.False(t, result.HasCycles)
	assert.False(t, result.HasIssues())
}

func TestBOMValidator_ReportsStructuralIssues(t *testing.T) {
	validator := NewBOMValidator()
	result := validator.ValidateBOM(
		[]entities.Part{part("KIT", true), part("EMPTY", true), part("BOLT", false)},
		[]entities.AssemblyComponent{
			edge("KIT", "BOLT", 1),
			edge("KIT", "BOLT", 2),
			edge("KIT", "GHOST", 1),
			edge("BOLT", "KIT", 1),
		},
	)

	assert.Len(t, result.DuplicateEdges, 1)
	require.Len(t, result.DanglingReferences, 1)
	assert.Equal(t, entities.PartID("GHOST"), result.DanglingReferences[0].ComponentID)
	require.Len(t, result.AtomicParents, 1)
	assert.Equal(t, entities.PartID("BOLT"), result.AtomicParents[0].AssemblyID)
	assert.Equal(t, []entities.PartID{"EMPTY"}, result.EmptyAssemblies)

	assert.Contains(t, result.Errors, "assembly KIT references missing component GHOST")
	assert.Contains(t, result.Errors, "assembly EMPTY has no components")
	assert.Contains(t, result.Errors, "Found 1 duplicate component edges")
}

func TestBOMValidator_PartUniqueness(t *testing.T) {
	validator := NewBOMValidator()

	result := validator.ValidatePartUniqueness([]entities.Part{part("A", false), part("B", false)})
	assert.False(t, result.HasIssues())

	result = validator.ValidatePartUniqueness([]entities.Part{part("A", false), part("A", true)})
	require.True(t, result.HasIssues())
	assert.Equal(t, "Duplicate part ids found: [A]", result.Errors[0])
}
