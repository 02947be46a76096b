package entities

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("saving: %w", NewValidationError("quantity_received", "cannot decrease"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrConcurrencyConflict)
	assert.EqualError(t, err, "saving: quantity_received: cannot decrease")
}

func TestWarning_Message(t *testing.T) {
	cycle := Warning{Kind: CycleDetected, AssemblyID: "B", ComponentID: "A", Path: []PartID{"A", "B", "A"}}
	assert.Equal(t, "BOM cycle detected: A -> B -> A", cycle.Message())

	dangling := Warning{Kind: DanglingReference, AssemblyID: "KIT", ComponentID: "GHOST"}
	assert.Equal(t, "assembly KIT references missing component GHOST", dangling.Message())

	assert.NotEqual(t, cycle.Key(), dangling.Key())
}

func TestWarning_JSONUsesKindName(t *testing.T) {
	data, err := json.Marshal(Warning{Kind: DanglingReference, AssemblyID: "KIT", ComponentID: "GHOST"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"DanglingReference","assembly_id":"KIT","component_id":"GHOST"}`, string(data))
}
