// Package valuation derives assembly cost, sales price and available-to-build
// quantity from the component graph.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// visitPath is the chain of assemblies on the branch currently being
// resolved. It is never mutated: extend returns a new node that points at its
// parent, so sibling branches cannot see each other's visits.
type visitPath struct {
	id     entities.PartID
	parent *visitPath
}

func (p *visitPath) extend(id entities.PartID) *visitPath {
	return &visitPath{id: id, parent: p}
}

func (p *visitPath) contains(id entities.PartID) bool {
	for node := p; node != nil; node = node.parent {
		if node.id == id {
			return true
		}
	}
	return false
}

// cycleTo returns the path from the earlier visit of id down to the current
// node, closed with id again.
func (p *visitPath) cycleTo(id entities.PartID) []entities.PartID {
	var reversed []entities.PartID
	for node := p; node != nil; node = node.parent {
		reversed = append(reversed, node.id)
		if node.id == id {
			break
		}
	}
	cycle := make([]entities.PartID, 0, len(reversed)+1)
	for i := len(reversed) - 1; i >= 0; i-- {
		cycle = append(cycle, reversed[i])
	}
	return append(cycle, id)
}

// Resolver resolves cost and availability over one snapshot of parts and
// component edges. Results of subgraphs that contain no cycle are memoized
// for the lifetime of the Resolver; create a new one for every snapshot.
type Resolver struct {
	parts     entities.PartSet
	edges     entities.BOMIndex
	costMemo  map[entities.PartID]decimal.Decimal
	availMemo map[entities.PartID]entities.Quantity
	warnings  []entities.Warning
	seen      map[string]bool
}

// NewResolver creates a resolver bound to a snapshot
func NewResolver(parts entities.PartSet, edges entities.BOMIndex) *Resolver {
	return &Resolver{
		parts:     parts,
		edges:     edges,
		costMemo:  make(map[entities.PartID]decimal.Decimal),
		availMemo: make(map[entities.PartID]entities.Quantity),
		seen:      make(map[string]bool),
	}
}

// ResolveCost returns the unit cost of a part: the stored cost for atomic
// parts, labor plus component costs for assemblies.
func ResolveCost(id entities.PartID, parts entities.PartSet, edges entities.BOMIndex) (decimal.Decimal, []entities.Warning) {
	r := NewResolver(parts, edges)
	cost := r.Cost(id)
	return cost, r.Warnings()
}

// ResolveAvailability returns how many units of a part are available: stored
// stock for atomic parts, the buildable count for assemblies.
func ResolveAvailability(id entities.PartID, parts entities.PartSet, edges entities.BOMIndex) (entities.Quantity, []entities.Warning) {
	r := NewResolver(parts, edges)
	available := r.Availability(id)
	return available, r.Warnings()
}

// Cost resolves the unit cost of id
func (r *Resolver) Cost(id entities.PartID) decimal.Decimal {
	part, ok := r.parts[id]
	if !ok {
		r.warn(entities.Warning{Kind: entities.DanglingReference, ComponentID: id})
		return decimal.Zero
	}
	if !part.IsAssembly {
		return part.UnitCost
	}
	cost, _ := r.assemblyCost(part, nil)
	return cost
}

// Availability resolves the available quantity of id
func (r *Resolver) Availability(id entities.PartID) entities.Quantity {
	part, ok := r.parts[id]
	if !ok {
		r.warn(entities.Warning{Kind: entities.DanglingReference, ComponentID: id})
		return 0
	}
	if !part.IsAssembly {
		return part.StockQuantity
	}
	available, _ := r.assemblyAvailability(part, nil)
	return available
}

// Warnings returns the data-integrity warnings collected so far
func (r *Resolver) Warnings() []entities.Warning {
	out := make([]entities.Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// assemblyCost reports whether a cycle was cut anywhere below the assembly;
// such results depend on the path and are not memoized.
func (r *Resolver) assemblyCost(assembly entities.Part, path *visitPath) (decimal.Decimal, bool) {
	if cost, ok := r.costMemo[assembly.ID]; ok {
		return cost, false
	}

	branch := path.extend(assembly.ID)
	total := assembly.AssemblyLaborCost
	cyclic := false

	for _, edge := range r.edges[assembly.ID] {
		if edge.QuantityRequired <= 0 {
			continue
		}
		component, ok := r.parts[edge.ComponentID]
		if !ok {
			r.warnDangling(assembly.ID, edge.ComponentID)
			continue
		}

		unitCost := component.UnitCost
		if component.IsAssembly {
			if branch.contains(component.ID) {
				r.warnCycle(assembly.ID, component.ID, branch)
				cyclic = true
				continue
			}
			var childCyclic bool
			unitCost, childCyclic = r.assemblyCost(component, branch)
			cyclic = cyclic || childCyclic
		}

		total = total.Add(unitCost.Mul(decimal.NewFromInt(int64(edge.QuantityRequired))))
	}

	if !cyclic {
		r.costMemo[assembly.ID] = total
	}
	return total, cyclic
}

func (r *Resolver) assemblyAvailability(assembly entities.Part, path *visitPath) (entities.Quantity, bool) {
	if available, ok := r.availMemo[assembly.ID]; ok {
		return available, false
	}

	edges := r.edges[assembly.ID]
	if len(edges) == 0 {
		// an assembly with nothing to build it from cannot be built
		r.availMemo[assembly.ID] = 0
		return 0, false
	}

	branch := path.extend(assembly.ID)
	var (
		limit  entities.Quantity
		first  = true
		cyclic bool
	)

	for _, edge := range edges {
		var available entities.Quantity

		component, ok := r.parts[edge.ComponentID]
		switch {
		case !ok:
			r.warnDangling(assembly.ID, edge.ComponentID)
		case !component.IsAssembly:
			available = component.StockQuantity
		case branch.contains(component.ID):
			r.warnCycle(assembly.ID, component.ID, branch)
			cyclic = true
		default:
			var childCyclic bool
			available, childCyclic = r.assemblyAvailability(component, branch)
			cyclic = cyclic || childCyclic
		}

		var buildable entities.Quantity
		if available > 0 && edge.QuantityRequired > 0 {
			buildable = available / edge.QuantityRequired
		}
		if first || buildable < limit {
			limit = buildable
			first = false
		}
	}

	if !cyclic {
		r.availMemo[assembly.ID] = limit
	}
	return limit, cyclic
}

func (r *Resolver) warnDangling(assemblyID, componentID entities.PartID) {
	r.warn(entities.Warning{
		Kind:        entities.DanglingReference,
		AssemblyID:  assemblyID,
		ComponentID: componentID,
	})
}

func (r *Resolver) warnCycle(assemblyID, componentID entities.PartID, branch *visitPath) {
	r.warn(entities.Warning{
		Kind:        entities.CycleDetected,
		AssemblyID:  assemblyID,
		ComponentID: componentID,
		Path:        branch.cycleTo(componentID),
	})
}

func (r *Resolver) warn(w entities.Warning) {
	key := w.Key()
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	r.warnings = append(r.warnings, w)
}
