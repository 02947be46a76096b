package services

import (
	"fmt"
	"sort"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// BOMValidator reports structural problems in a component graph. It never
// rejects data; the resolver tolerates everything reported here.
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles          bool
	CyclePaths         [][]entities.PartID
	DuplicateEdges     []entities.AssemblyComponent
	DanglingReferences []entities.AssemblyComponent
	// AtomicParents lists edges whose assembly side is an atomic part; the
	// resolver ignores them because atomic parts are never resolved
	AtomicParents   []entities.AssemblyComponent
	EmptyAssemblies []entities.PartID
	Warnings        []entities.Warning
	Errors          []string
}

// HasIssues reports whether anything was found
func (r *ValidationResult) HasIssues() bool {
	return len(r.Errors) > 0
}

// ValidateBOM performs comprehensive validation of parts and component edges
func (v *BOMValidator) ValidateBOM(parts []entities.Part, edges []entities.AssemblyComponent) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:         make([][]entities.PartID, 0),
		DuplicateEdges:     make([]entities.AssemblyComponent, 0),
		DanglingReferences: make([]entities.AssemblyComponent, 0),
		AtomicParents:      make([]entities.AssemblyComponent, 0),
		EmptyAssemblies:    make([]entities.PartID, 0),
		Warnings:           make([]entities.Warning, 0),
		Errors:             make([]string, 0),
	}

	partSet := entities.NewPartSet(parts)
	adjacencyMap := v.buildAdjacencyMap(edges)

	result.CyclePaths = v.detectCycles(adjacencyMap)
	result.HasCycles = len(result.CyclePaths) > 0
	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %v", cycle))
		result.Warnings = append(result.Warnings, entities.Warning{
			Kind:        entities.CycleDetected,
			AssemblyID:  cycle[len(cycle)-2],
			ComponentID: cycle[len(cycle)-1],
			Path:        cycle,
		})
	}

	result.DuplicateEdges = v.detectDuplicateEdges(edges)
	if len(result.DuplicateEdges) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d duplicate component edges", len(result.DuplicateEdges)))
	}

	for _, edge := range edges {
		if _, ok := partSet[edge.AssemblyID]; ok && !partSet[edge.AssemblyID].IsAssembly {
			result.AtomicParents = append(result.AtomicParents, edge)
			result.Errors = append(result.Errors, fmt.Sprintf("atomic part %s has component %s", edge.AssemblyID, edge.ComponentID))
		}
		if _, ok := partSet[edge.ComponentID]; !ok {
			result.DanglingReferences = append(result.DanglingReferences, edge)
			result.Errors = append(result.Errors, fmt.Sprintf("assembly %s references missing component %s", edge.AssemblyID, edge.ComponentID))
			result.Warnings = append(result.Warnings, entities.Warning{
				Kind:        entities.DanglingReference,
				AssemblyID:  edge.AssemblyID,
				ComponentID: edge.ComponentID,
			})
		}
	}

	for _, part := range parts {
		if part.IsAssembly && len(adjacencyMap[part.ID]) == 0 {
			result.EmptyAssemblies = append(result.EmptyAssemblies, part.ID)
			result.Errors = append(result.Errors, fmt.Sprintf("assembly %s has no components", part.ID))
		}
	}

	return result
}

// buildAdjacencyMap creates a map of assembly -> distinct components
func (v *BOMValidator) buildAdjacencyMap(edges []entities.AssemblyComponent) map[entities.PartID][]entities.PartID {
	adjacencyMap := make(map[entities.PartID][]entities.PartID)

	for _, edge := range edges {
		children := adjacencyMap[edge.AssemblyID]

		found := false
		for _, child := range children {
			if child == edge.ComponentID {
				found = true
				break
			}
		}

		if !found {
			adjacencyMap[edge.AssemblyID] = append(children, edge.ComponentID)
		}
	}

	return adjacencyMap
}

// detectCycles uses DFS to find cycles. Roots are visited in sorted order so
// the reported paths are stable.
func (v *BOMValidator) detectCycles(adjacencyMap map[entities.PartID][]entities.PartID) [][]entities.PartID {
	visited := make(map[entities.PartID]bool)
	recursionStack := make(map[entities.PartID]bool)
	cycles := make([][]entities.PartID, 0)

	roots := make([]entities.PartID, 0, len(adjacencyMap))
	for parent := range adjacencyMap {
		roots = append(roots, parent)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	for _, parent := range roots {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *BOMValidator) dfsDetectCycle(
	current entities.PartID,
	adjacencyMap map[entities.PartID][]entities.PartID,
	visited map[entities.PartID]bool,
	recursionStack map[entities.PartID]bool,
	path []entities.PartID,
	cycles *[][]entities.PartID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
			continue
		}
		if !recursionStack[child] {
			continue
		}

		for i, part := range path {
			if part == child {
				cycle := make([]entities.PartID, 0, len(path)-i+1)
				cycle = append(cycle, path[i:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
				break
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateEdges finds repeated (assembly, component) pairs
func (v *BOMValidator) detectDuplicateEdges(edges []entities.AssemblyComponent) []entities.AssemblyComponent {
	seen := make(map[string]bool)
	duplicates := make([]entities.AssemblyComponent, 0)

	for _, edge := range edges {
		key := fmt.Sprintf("%s|%s", edge.AssemblyID, edge.ComponentID)
		if seen[key] {
			duplicates = append(duplicates, edge)
			continue
		}
		seen[key] = true
	}

	return duplicates
}

// ValidatePartUniqueness validates that part ids are unique
func (v *BOMValidator) ValidatePartUniqueness(parts []entities.Part) *ValidationResult {
	result := &ValidationResult{
		Errors: make([]string, 0),
	}

	seen := make(map[entities.PartID]bool)
	duplicates := make([]entities.PartID, 0)

	for _, part := range parts {
		if seen[part.ID] {
			duplicates = append(duplicates, part.ID)
		} else {
			seen[part.ID] = true
		}
	}

	if len(duplicates) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate part ids found: %v", duplicates))
	}

	return result
}
