package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

const orderColumns = "id, supplier, status, currency, exchange_rate"

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func statusValue(status entities.POStatus) string {
	return strings.ToLower(status.String())
}

func scanOrder(row rowScanner) (entities.PurchaseOrder, error) {
	var (
		order  entities.PurchaseOrder
		status string
	)
	if err := row.Scan(&order.ID, &order.Supplier, &status, &order.Currency, &order.ExchangeRate); err != nil {
		return order, err
	}
	parsed, err := entities.ParsePOStatus(status)
	if err != nil {
		return order, err
	}
	order.Status = parsed
	return order, nil
}

// GetPurchaseOrder returns one purchase order with its items in line order
func (s *Store) GetPurchaseOrder(ctx context.Context, id string) (*entities.PurchaseOrder, error) {
	return getOrder(ctx, s.db, id)
}

func getOrder(ctx context.Context, q querier, id string) (*entities.PurchaseOrder, error) {
	row := q.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM purchase_orders WHERE id=?", id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("purchase order %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load purchase order %s: %w", id, err)
	}

	items, err := loadItems(ctx, q, "WHERE po_id=?", id)
	if err != nil {
		return nil, err
	}
	order.Items = items[id]
	return &order, nil
}

// ListPurchaseOrders returns every purchase order
func (s *Store) ListPurchaseOrders(ctx context.Context) ([]entities.PurchaseOrder, error) {
	return s.listOrders(ctx, "", "")
}

// ListOpenPurchaseOrders returns orders whose status is not complete
func (s *Store) ListOpenPurchaseOrders(ctx context.Context) ([]entities.PurchaseOrder, error) {
	return s.listOrders(ctx,
		"WHERE status <> 'complete'",
		"WHERE po_id IN (SELECT id FROM purchase_orders WHERE status <> 'complete')")
}

func (s *Store) listOrders(ctx context.Context, orderFilter, itemFilter string) ([]entities.PurchaseOrder, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM purchase_orders "+orderFilter+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []entities.PurchaseOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := loadItems(ctx, s.db, itemFilter)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func loadItems(ctx context.Context, q querier, filter string, args ...any) (map[string][]entities.PurchaseOrderItem, error) {
	rows, err := q.QueryContext(ctx, `SELECT po_id, id, part_id, quantity_ordered, quantity_received, received, unit_price
		FROM purchase_order_items `+filter+` ORDER BY po_id, line_num`, args...)
	if err != nil {
		return nil, fmt.Errorf("query purchase order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]entities.PurchaseOrderItem)
	for rows.Next() {
		var (
			item             entities.PurchaseOrderItem
			id, partID       string
			ordered, receivd int64
		)
		if err := rows.Scan(&item.PurchaseOrderID, &id, &partID, &ordered, &receivd, &item.Received, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		item.ID = entities.ItemID(id)
		item.PartID = entities.PartID(partID)
		item.QuantityOrdered = entities.Quantity(ordered)
		item.QuantityReceived = entities.Quantity(receivd)
		items[item.PurchaseOrderID] = append(items[item.PurchaseOrderID], item)
	}
	return items, rows.Err()
}

// SavePurchaseOrder inserts an order or merges it over the stored one in one
// transaction. Stored receipts survive a re-save; see entities.ResolveSave.
func (s *Store) SavePurchaseOrder(ctx context.Context, incoming *entities.PurchaseOrder) error {
	if incoming == nil || incoming.ID == "" {
		return entities.NewValidationError("id", "purchase order id cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save purchase order: %w", err)
	}
	defer tx.Rollback()

	persisted, err := getOrder(ctx, tx, incoming.ID)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return err
	}
	merged, err := entities.ResolveSave(persisted, *incoming)
	if err != nil {
		return fmt.Errorf("save purchase order %s: %w", incoming.ID, err)
	}
	order := &merged

	if _, err := tx.ExecContext(ctx, `INSERT INTO purchase_orders (`+orderColumns+`) VALUES (?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET supplier=excluded.supplier, status=excluded.status,
			currency=excluded.currency, exchange_rate=excluded.exchange_rate`,
		order.ID, order.Supplier, statusValue(order.Status), order.Currency, order.ExchangeRate); err != nil {
		return fmt.Errorf("save purchase order %s: %w", order.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM purchase_order_items WHERE po_id=?", order.ID); err != nil {
		return fmt.Errorf("clear items of %s: %w", order.ID, err)
	}
	for line, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `INSERT INTO purchase_order_items
			(po_id, id, line_num, part_id, quantity_ordered, quantity_received, received, unit_price)
			VALUES (?,?,?,?,?,?,?,?)`,
			order.ID, string(item.ID), line+1, string(item.PartID), int64(item.QuantityOrdered),
			int64(item.QuantityReceived), item.Received, item.UnitPrice); err != nil {
			return fmt.Errorf("save item %s of %s: %w", item.ID, order.ID, err)
		}
	}

	return tx.Commit()
}
