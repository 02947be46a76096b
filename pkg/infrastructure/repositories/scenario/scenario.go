// Package scenario reads a whole catalog (parts, component edges and purchase
// orders) from a single YAML document.
package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// Document is the YAML layout of a scenario file
type Document struct {
	Name           string         `yaml:"name,omitempty"`
	Parts          []PartDoc      `yaml:"parts"`
	Components     []ComponentDoc `yaml:"components"`
	PurchaseOrders []OrderDoc     `yaml:"purchase_orders,omitempty"`
}

// PartDoc describes one part
type PartDoc struct {
	ID                string          `yaml:"id"`
	Description       string          `yaml:"description,omitempty"`
	Assembly          bool            `yaml:"assembly,omitempty"`
	UnitCost          decimal.Decimal `yaml:"unit_cost,omitempty"`
	Stock             int64           `yaml:"stock,omitempty"`
	MarkupPercent     decimal.Decimal `yaml:"markup_percent,omitempty"`
	AssemblyLaborCost decimal.Decimal `yaml:"labor_cost,omitempty"`
}

// ComponentDoc describes one assembly component edge
type ComponentDoc struct {
	Assembly string `yaml:"assembly"`
	Part     string `yaml:"part"`
	Quantity int64  `yaml:"quantity"`
}

// OrderDoc describes one purchase order
type OrderDoc struct {
	ID           string          `yaml:"id"`
	Supplier     string          `yaml:"supplier,omitempty"`
	Status       string          `yaml:"status,omitempty"`
	Currency     string          `yaml:"currency,omitempty"`
	ExchangeRate decimal.Decimal `yaml:"exchange_rate,omitempty"`
	Items        []ItemDoc       `yaml:"items"`
}

// ItemDoc describes one purchase order line
type ItemDoc struct {
	ID        string          `yaml:"id"`
	Part      string          `yaml:"part"`
	Ordered   int64           `yaml:"ordered"`
	Received  int64           `yaml:"received,omitempty"`
	UnitPrice decimal.Decimal `yaml:"unit_price,omitempty"`
}

// LoadFile reads and converts a scenario file
func LoadFile(path string) (*entities.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	catalog, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return catalog, nil
}

// Decode parses a scenario document. Unknown keys are rejected so that typos
// do not silently drop data.
func Decode(r io.Reader) (*entities.Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &entities.Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return doc.Catalog()
}

// Catalog converts the document into validated entities
func (d Document) Catalog() (*entities.Catalog, error) {
	catalog := &entities.Catalog{}

	for i, p := range d.Parts {
		part, err := p.part()
		if err != nil {
			return nil, fmt.Errorf("parts[%d]: %w", i, err)
		}
		catalog.Parts = append(catalog.Parts, *part)
	}

	for i, c := range d.Components {
		edge, err := entities.NewAssemblyComponent(entities.PartID(c.Assembly), entities.PartID(c.Part), entities.Quantity(c.Quantity))
		if err != nil {
			return nil, fmt.Errorf("components[%d]: %w", i, err)
		}
		catalog.Components = append(catalog.Components, *edge)
	}

	seen := make(map[string]bool, len(d.PurchaseOrders))
	for i, o := range d.PurchaseOrders {
		order, err := o.order()
		if err != nil {
			return nil, fmt.Errorf("purchase_orders[%d]: %w", i, err)
		}
		if seen[order.ID] {
			return nil, fmt.Errorf("purchase_orders[%d]: duplicate purchase order %s", i, order.ID)
		}
		seen[order.ID] = true
		catalog.PurchaseOrders = append(catalog.PurchaseOrders, *order)
	}

	return catalog, nil
}

func (p PartDoc) part() (*entities.Part, error) {
	if p.Stock < 0 {
		return nil, entities.NewValidationError("stock", "stock cannot be negative")
	}
	id := entities.PartID(strings.TrimSpace(p.ID))
	if p.Assembly {
		return entities.NewAssemblyPart(id, p.Description, p.AssemblyLaborCost, p.MarkupPercent)
	}
	return entities.NewAtomicPart(id, p.Description, p.UnitCost, entities.Quantity(p.Stock), p.MarkupPercent)
}

func (o OrderDoc) order() (*entities.PurchaseOrder, error) {
	if strings.TrimSpace(o.ID) == "" {
		return nil, entities.NewValidationError("id", "purchase order id cannot be empty")
	}

	status := entities.Ordered
	if o.Status != "" {
		var err error
		if status, err = entities.ParsePOStatus(o.Status); err != nil {
			return nil, err
		}
	}

	rate := o.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	if rate.IsNegative() {
		return nil, entities.NewValidationError("exchange_rate", "exchange rate must be positive, got "+rate.String())
	}

	order := &entities.PurchaseOrder{
		ID:           o.ID,
		Supplier:     o.Supplier,
		Status:       status,
		Currency:     strings.ToUpper(o.Currency),
		ExchangeRate: rate,
	}

	for j, it := range o.Items {
		if it.Received < 0 {
			return nil, fmt.Errorf("items[%d]: %w", j, entities.NewValidationError("received", "received quantity cannot be negative"))
		}
		item, err := entities.NewPurchaseOrderItem(entities.ItemID(it.ID), entities.PartID(it.Part), entities.Quantity(it.Ordered), it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", j, err)
		}
		if _, dup := order.Item(item.ID); dup {
			return nil, fmt.Errorf("items[%d]: duplicate item %s", j, item.ID)
		}
		item.PurchaseOrderID = order.ID
		item.QuantityReceived = entities.Quantity(it.Received)
		item.Received = item.IsFullyReceived()
		order.Items = append(order.Items, *item)
	}

	if err := order.CheckComplete(); err != nil {
		return nil, err
	}
	return order, nil
}

// Encode writes a catalog as a scenario document
func Encode(w io.Writer, catalog *entities.Catalog) error {
	doc := Document{}
	for _, p := range catalog.Parts {
		doc.Parts = append(doc.Parts, PartDoc{
			ID:                string(p.ID),
			Description:       p.Description,
			Assembly:          p.IsAssembly,
			UnitCost:          p.UnitCost,
			Stock:             int64(p.StockQuantity),
			MarkupPercent:     p.MarkupPercent,
			AssemblyLaborCost: p.AssemblyLaborCost,
		})
	}
	for _, c := range catalog.Components {
		doc.Components = append(doc.Components, ComponentDoc{
			Assembly: string(c.AssemblyID),
			Part:     string(c.ComponentID),
			Quantity: int64(c.QuantityRequired),
		})
	}
	for _, o := range catalog.PurchaseOrders {
		od := OrderDoc{
			ID:           o.ID,
			Supplier:     o.Supplier,
			Status:       strings.ToLower(o.Status.String()),
			Currency:     o.Currency,
			ExchangeRate: o.ExchangeRate,
		}
		for _, it := range o.Items {
			od.Items = append(od.Items, ItemDoc{
				ID:        string(it.ID),
				Part:      string(it.PartID),
				Ordered:   int64(it.QuantityOrdered),
				Received:  int64(it.QuantityReceived),
				UnitPrice: it.UnitPrice,
			})
		}
		doc.PurchaseOrders = append(doc.PurchaseOrders, od)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}
	return enc.Close()
}
