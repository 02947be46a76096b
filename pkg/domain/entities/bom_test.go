package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblyComponent_Validation(t *testing.T) {
	edge, err := NewAssemblyComponent("KIT", "BOLT", 4)
	require.NoError(t, err)
	assert.Equal(t, Quantity(4), edge.QuantityRequired)

	testCases := []struct {
		name        string
		assembly    PartID
		component   PartID
		qty         Quantity
		expectError string
	}{
		{"empty assembly", "", "BOLT", 1, "assembly_id: assembly part id cannot be empty"},
		{"empty component", "KIT", "", 1, "component_id: component part id cannot be empty"},
		{"self reference", "KIT", "KIT", 1, "component_id: assembly cannot contain itself: KIT"},
		{"zero quantity", "KIT", "BOLT", 0, "quantity_required: quantity required must be positive, got 0"},
		{"negative quantity", "KIT", "BOLT", -2, "quantity_required: quantity required must be positive, got -2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAssemblyComponent(tc.assembly, tc.component, tc.qty)
			require.Error(t, err)
			assert.EqualError(t, err, tc.expectError)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestIndexComponents(t *testing.T) {
	edges := []AssemblyComponent{
		{AssemblyID: "KIT", ComponentID: "BOLT", QuantityRequired: 4},
		{AssemblyID: "SUB", ComponentID: "NUT", QuantityRequired: 2},
		{AssemblyID: "KIT", ComponentID: "SUB", QuantityRequired: 1},
	}

	index, err := IndexComponents(edges)
	require.NoError(t, err)
	require.Len(t, index["KIT"], 2)
	assert.Equal(t, PartID("BOLT"), index["KIT"][0].ComponentID)
	assert.Equal(t, PartID("SUB"), index["KIT"][1].ComponentID)
	assert.Len(t, index["SUB"], 1)
	assert.Empty(t, index["BOLT"])
}

func TestIndexComponents_RejectsInvalidEdge(t *testing.T) {
	edges := []AssemblyComponent{
		{AssemblyID: "KIT", ComponentID: "BOLT", QuantityRequired: 4},
		{AssemblyID: "KIT", ComponentID: "NUT", QuantityRequired: 0},
	}

	_, err := IndexComponents(edges)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "component edge 1 (KIT -> NUT)")
}
