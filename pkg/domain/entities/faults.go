package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is
	ErrValidation = errors.New("validation fault")

	// ErrConcurrencyConflict is returned by stores when a commit was computed
	// from a snapshot that no longer matches persisted state
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrNotFound is returned by repositories for unknown ids
	ErrNotFound = errors.New("not found")
)

// ValidationError rejects an input before any mutation happens
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// WarningKind classifies data-integrity warnings found while resolving a BOM
type WarningKind int

const (
	CycleDetected WarningKind = iota
	DanglingReference
)

// String method for WarningKind enum
func (k WarningKind) String() string {
	switch k {
	case CycleDetected:
		return "CycleDetected"
	case DanglingReference:
		return "DanglingReference"
	default:
		return "Unknown"
	}
}

// MarshalText renders the kind by name in JSON and YAML
func (k WarningKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Warning is a recovered data-integrity problem. The offending contribution
// was replaced by zero; it is surfaced for operators, never returned as an error.
type Warning struct {
	Kind        WarningKind `json:"kind"`
	AssemblyID  PartID      `json:"assembly_id"`
	ComponentID PartID      `json:"component_id"`
	Path        []PartID    `json:"path,omitempty"`
}

// Key identifies a warning for de-duplication
func (w Warning) Key() string {
	return fmt.Sprintf("%d|%s|%s", w.Kind, w.AssemblyID, w.ComponentID)
}

// Message renders the warning for logs and reports
func (w Warning) Message() string {
	switch w.Kind {
	case CycleDetected:
		parts := make([]string, len(w.Path))
		for i, id := range w.Path {
			parts[i] = string(id)
		}
		return fmt.Sprintf("BOM cycle detected: %s", strings.Join(parts, " -> "))
	case DanglingReference:
		return fmt.Sprintf("assembly %s references missing component %s", w.AssemblyID, w.ComponentID)
	default:
		return "unknown warning"
	}
}
