// Package csv loads parts, component edges, purchase orders and receipts
// from CSV files with a fixed header per file.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// File names read by LoadDir
const (
	PartsFile          = "parts.csv"
	ComponentsFile     = "components.csv"
	PurchaseOrdersFile = "purchase_orders.csv"
	ReceiptsFile       = "receipts.csv"
)

var (
	partsHeader          = []string{"id", "description", "is_assembly", "unit_cost", "stock_quantity", "markup_percent", "assembly_labor_cost"}
	componentsHeader     = []string{"assembly_id", "component_id", "quantity_required"}
	purchaseOrdersHeader = []string{"po_id", "supplier", "status", "currency", "exchange_rate", "item_id", "part_id", "quantity_ordered", "quantity_received", "unit_price"}
	receiptsHeader       = []string{"po_id", "item_id", "quantity_received"}
)

// Loader handles loading catalog data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDir loads parts.csv and components.csv from dir, plus
// purchase_orders.csv when it exists
func (l *Loader) LoadDir(dir string) (*entities.Catalog, error) {
	parts, err := l.LoadParts(filepath.Join(dir, PartsFile))
	if err != nil {
		return nil, err
	}

	components, err := l.LoadComponents(filepath.Join(dir, ComponentsFile))
	if err != nil {
		return nil, err
	}

	catalog := &entities.Catalog{Parts: parts, Components: components}

	ordersPath := filepath.Join(dir, PurchaseOrdersFile)
	if _, err := os.Stat(ordersPath); err == nil {
		orders, err := l.LoadPurchaseOrders(ordersPath)
		if err != nil {
			return nil, err
		}
		catalog.PurchaseOrders = orders
	}

	return catalog, nil
}

// LoadParts loads parts from a CSV file. Assemblies ignore the unit_cost and
// stock_quantity columns.
func (l *Loader) LoadParts(filename string) ([]entities.Part, error) {
	records, err := readRecords(filename, "parts", partsHeader)
	if err != nil {
		return nil, err
	}

	parts := make([]entities.Part, 0, len(records))
	for i, record := range records {
		part, err := parsePart(record)
		if err != nil {
			return nil, fmt.Errorf("parts CSV row %d: %w", i+2, err)
		}
		parts = append(parts, *part)
	}

	return parts, nil
}

// LoadComponents loads assembly component edges from a CSV file
func (l *Loader) LoadComponents(filename string) ([]entities.AssemblyComponent, error) {
	records, err := readRecords(filename, "components", componentsHeader)
	if err != nil {
		return nil, err
	}

	edges := make([]entities.AssemblyComponent, 0, len(records))
	for i, record := range records {
		qty, err := parseQuantity("quantity_required", record[2])
		if err != nil {
			return nil, fmt.Errorf("components CSV row %d: %w", i+2, err)
		}

		edge, err := entities.NewAssemblyComponent(entities.PartID(record[0]), entities.PartID(record[1]), qty)
		if err != nil {
			return nil, fmt.Errorf("components CSV row %d: %w", i+2, err)
		}
		edges = append(edges, *edge)
	}

	return edges, nil
}

// LoadPurchaseOrders loads purchase orders from a CSV file with one row per
// line item. Order columns are taken from the first row of each po_id; orders
// keep the order of their first appearance.
func (l *Loader) LoadPurchaseOrders(filename string) ([]entities.PurchaseOrder, error) {
	records, err := readRecords(filename, "purchase orders", purchaseOrdersHeader)
	if err != nil {
		return nil, err
	}

	var orders []entities.PurchaseOrder
	index := make(map[string]int)
	for i, record := range records {
		poID := strings.TrimSpace(record[0])
		if poID == "" {
			return nil, fmt.Errorf("purchase orders CSV row %d: po_id cannot be empty", i+2)
		}

		pos, ok := index[poID]
		if !ok {
			order, err := parseOrderHeader(record)
			if err != nil {
				return nil, fmt.Errorf("purchase orders CSV row %d: %w", i+2, err)
			}
			orders = append(orders, order)
			pos = len(orders) - 1
			index[poID] = pos
		}

		item, err := parseOrderItem(record)
		if err != nil {
			return nil, fmt.Errorf("purchase orders CSV row %d: %w", i+2, err)
		}
		if _, dup := orders[pos].Item(item.ID); dup {
			return nil, fmt.Errorf("purchase orders CSV row %d: duplicate item %s in %s", i+2, item.ID, poID)
		}
		orders[pos].Items = append(orders[pos].Items, item)
	}

	for _, order := range orders {
		if err := order.CheckComplete(); err != nil {
			return nil, fmt.Errorf("purchase orders CSV: %w", err)
		}
	}

	return orders, nil
}

// LoadReceipts loads proposed received quantities grouped by purchase order
func (l *Loader) LoadReceipts(filename string) (map[string]map[entities.ItemID]entities.Quantity, error) {
	records, err := readRecords(filename, "receipts", receiptsHeader)
	if err != nil {
		return nil, err
	}

	receipts := make(map[string]map[entities.ItemID]entities.Quantity)
	for i, record := range records {
		poID := strings.TrimSpace(record[0])
		itemID := entities.ItemID(strings.TrimSpace(record[1]))
		if poID == "" || itemID == "" {
			return nil, fmt.Errorf("receipts CSV row %d: po_id and item_id are required", i+2)
		}

		qty, err := parseQuantity("quantity_received", record[2])
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: %w", i+2, err)
		}

		if receipts[poID] == nil {
			receipts[poID] = make(map[entities.ItemID]entities.Quantity)
		}
		if _, dup := receipts[poID][itemID]; dup {
			return nil, fmt.Errorf("receipts CSV row %d: duplicate receipt for %s/%s", i+2, poID, itemID)
		}
		receipts[poID][itemID] = qty
	}

	return receipts, nil
}

// Helper functions for parsing CSV records

func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		// tolerate a UTF-8 BOM written by spreadsheet exports
		got := strings.TrimPrefix(actual[i], "\ufeff")
		if strings.ToLower(strings.TrimSpace(got)) != col {
			return false
		}
	}

	return true
}

func parsePart(record []string) (*entities.Part, error) {
	id := entities.PartID(strings.TrimSpace(record[0]))
	description := record[1]

	isAssembly, err := parseBool("is_assembly", record[2])
	if err != nil {
		return nil, err
	}

	markup, err := parseDecimal("markup_percent", record[5])
	if err != nil {
		return nil, err
	}

	if isAssembly {
		labor, err := parseDecimal("assembly_labor_cost", record[6])
		if err != nil {
			return nil, err
		}
		return entities.NewAssemblyPart(id, description, labor, markup)
	}

	unitCost, err := parseDecimal("unit_cost", record[3])
	if err != nil {
		return nil, err
	}

	stock, err := parseQuantity("stock_quantity", record[4])
	if err != nil {
		return nil, err
	}

	return entities.NewAtomicPart(id, description, unitCost, stock, markup)
}

func parseOrderHeader(record []string) (entities.PurchaseOrder, error) {
	status, err := entities.ParsePOStatus(record[2])
	if err != nil {
		return entities.PurchaseOrder{}, err
	}

	rate := decimal.NewFromInt(1)
	if strings.TrimSpace(record[4]) != "" {
		rate, err = parseDecimal("exchange_rate", record[4])
		if err != nil {
			return entities.PurchaseOrder{}, err
		}
		if !rate.IsPositive() {
			return entities.PurchaseOrder{}, fmt.Errorf("invalid exchange_rate: %s (must be positive)", record[4])
		}
	}

	return entities.PurchaseOrder{
		ID:           strings.TrimSpace(record[0]),
		Supplier:     record[1],
		Status:       status,
		Currency:     strings.ToUpper(strings.TrimSpace(record[3])),
		ExchangeRate: rate,
	}, nil
}

func parseOrderItem(record []string) (entities.PurchaseOrderItem, error) {
	ordered, err := parseQuantity("quantity_ordered", record[7])
	if err != nil {
		return entities.PurchaseOrderItem{}, err
	}

	received, err := parseQuantity("quantity_received", record[8])
	if err != nil {
		return entities.PurchaseOrderItem{}, err
	}

	price, err := parseDecimal("unit_price", record[9])
	if err != nil {
		return entities.PurchaseOrderItem{}, err
	}

	item, err := entities.NewPurchaseOrderItem(
		entities.ItemID(strings.TrimSpace(record[5])),
		entities.PartID(strings.TrimSpace(record[6])),
		ordered,
		price,
	)
	if err != nil {
		return entities.PurchaseOrderItem{}, err
	}

	item.PurchaseOrderID = strings.TrimSpace(record[0])
	item.QuantityReceived = received
	item.Received = item.IsFullyReceived()
	return *item, nil
}

func parseBool(field, s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	switch strings.ToLower(s) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", field, s)
	}
	return b, nil
}

func parseQuantity(field, s string) (entities.Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: %s (cannot be negative)", field, s)
	}
	return entities.Quantity(n), nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return d, nil
}
