package valuation

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/partstock/pkg/application/dto"
	"github.com/vsinha/partstock/pkg/application/services/onorder"
	"github.com/vsinha/partstock/pkg/domain/entities"
)

// ViewOptions controls how derived values are reported
type ViewOptions struct {
	PricePlaces int32
}

// DefaultViewOptions reports money in the currency minor unit
func DefaultViewOptions() ViewOptions {
	return ViewOptions{PricePlaces: DefaultPricePlaces}
}

// ResolvePartsView resolves every part against the component graph and
// annotates it with on-order quantities. Parts keep their input order.
func ResolvePartsView(
	parts []entities.Part,
	edges []entities.AssemblyComponent,
	openOrders []entities.PurchaseOrder,
	opts ViewOptions,
) (*dto.PartsViewResult, error) {
	index, err := entities.IndexComponents(edges)
	if err != nil {
		return nil, fmt.Errorf("invalid component graph: %w", err)
	}

	resolver := NewResolver(entities.NewPartSet(parts), index)
	onOrder := onorder.ComputeOnOrderAll(openOrders)

	views := make([]dto.PartView, 0, len(parts))
	for _, part := range parts {
		cost := resolver.Cost(part.ID)
		available := resolver.Availability(part.ID)
		price := ProjectSalesPrice(cost, part.MarkupPercent)

		views = append(views, dto.PartView{
			ID:                       part.ID,
			Description:              part.Description,
			IsAssembly:               part.IsAssembly,
			MarkupPercent:            part.MarkupPercent,
			AssemblyLaborCost:        part.AssemblyLaborCost,
			DerivedUnitCost:          ReportAmount(cost, opts.PricePlaces),
			DerivedSalesPrice:        ReportAmount(price, opts.PricePlaces),
			DerivedAvailableQuantity: available,
			OnOrderQuantity:          onOrder[part.ID],
		})
	}

	warnings := resolver.Warnings()
	for _, w := range warnings {
		log.Warn().
			Str("kind", w.Kind.String()).
			Str("assembly_id", string(w.AssemblyID)).
			Str("component_id", string(w.ComponentID)).
			Msg(w.Message())
	}

	return &dto.PartsViewResult{Parts: views, Warnings: warnings}, nil
}
