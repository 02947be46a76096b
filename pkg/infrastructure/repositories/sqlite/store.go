// Package sqlite persists parts, component edges and purchase orders in
// SQLite through database/sql and the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/vsinha/partstock/pkg/domain/entities"
	"github.com/vsinha/partstock/pkg/domain/repositories"
	"github.com/vsinha/partstock/pkg/infrastructure/batch"
)

// Store is a SQLite-backed implementation of every repository interface
type Store struct {
	db    *sql.DB
	batch batch.Config
}

// Verify interface compliance
var (
	_ repositories.PartRepository          = (*Store)(nil)
	_ repositories.BOMRepository           = (*Store)(nil)
	_ repositories.PurchaseOrderRepository = (*Store)(nil)
	_ repositories.ReceivingStore          = (*Store)(nil)
)

// Open opens (or creates) the database at path and runs migrations. Pragmas
// are passed through the DSN so that every pooled connection gets them.
func Open(path string, batchCfg batch.Config) (*Store, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_txlock=immediate"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if path == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(0)

	store := &Store{db: db, batch: batchCfg}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite %s: %w", path, err)
	}
	return store, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS parts (
			id TEXT PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			is_assembly INTEGER NOT NULL DEFAULT 0,
			unit_cost TEXT NOT NULL DEFAULT '0',
			stock_quantity INTEGER NOT NULL DEFAULT 0,
			markup_percent TEXT NOT NULL DEFAULT '0',
			assembly_labor_cost TEXT NOT NULL DEFAULT '0',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS assembly_components (
			assembly_id TEXT NOT NULL,
			component_id TEXT NOT NULL,
			quantity_required INTEGER NOT NULL CHECK(quantity_required > 0),
			PRIMARY KEY (assembly_id, component_id),
			CHECK(assembly_id <> component_id)
		)`,
		`CREATE TABLE IF NOT EXISTS purchase_orders (
			id TEXT PRIMARY KEY,
			supplier TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft' CHECK(status IN ('draft','ordered','complete')),
			currency TEXT NOT NULL DEFAULT '',
			exchange_rate TEXT NOT NULL DEFAULT '1',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS purchase_order_items (
			po_id TEXT NOT NULL,
			id TEXT NOT NULL,
			line_num INTEGER NOT NULL,
			part_id TEXT NOT NULL,
			quantity_ordered INTEGER NOT NULL CHECK(quantity_ordered > 0),
			quantity_received INTEGER NOT NULL DEFAULT 0 CHECK(quantity_received >= 0),
			received INTEGER NOT NULL DEFAULT 0,
			unit_price TEXT NOT NULL DEFAULT '0',
			PRIMARY KEY (po_id, id),
			FOREIGN KEY (po_id) REFERENCES purchase_orders(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS stock_movements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			part_id TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			reference TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (part_id) REFERENCES parts(id) ON DELETE CASCADE
		)`,
	}
	for _, t := range tables {
		if _, err := s.db.Exec(t); err != nil {
			return err
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_po_items_part_id ON purchase_order_items(part_id)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_status ON purchase_orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_part_id ON stock_movements(part_id)",
	}
	for _, idx := range indexes {
		if _, err := s.db.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}

// CommitReceiving writes a reconciliation pass in one transaction. Item rows
// are updated with a compare-and-set on quantity_received; a row that moved
// since the pass started aborts the whole transaction with
// entities.ErrConcurrencyConflict.
func (s *Store) CommitReceiving(ctx context.Context, commit repositories.ReceivingCommit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin receiving transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM purchase_orders WHERE id=?", commit.OrderID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("purchase order %s: %w", commit.OrderID, entities.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load purchase order %s: %w", commit.OrderID, err)
	}

	for _, item := range commit.UpdatedItems {
		res, err := tx.ExecContext(ctx,
			`UPDATE purchase_order_items SET quantity_received=?, received=?
			 WHERE po_id=? AND id=? AND quantity_received=?`,
			int64(item.QuantityReceived), item.Received, commit.OrderID, string(item.ID), int64(commit.Expected[item.ID]))
		if err != nil {
			return fmt.Errorf("update item %s: %w", item.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("purchase order %s item %s changed since read: %w",
				commit.OrderID, item.ID, entities.ErrConcurrencyConflict)
		}
	}

	for _, partID := range sortedPartIDs(commit.StockDeltas) {
		delta := commit.StockDeltas[partID]
		res, err := tx.ExecContext(ctx,
			"UPDATE parts SET stock_quantity = stock_quantity + ?, updated_at = CURRENT_TIMESTAMP WHERE id=?",
			int64(delta), string(partID))
		if err != nil {
			return fmt.Errorf("update stock of %s: %w", partID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("part %s: %w", partID, entities.ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO stock_movements (part_id, quantity, reference) VALUES (?,?,?)",
			string(partID), int64(delta), commit.OrderID); err != nil {
			return fmt.Errorf("record stock movement for %s: %w", partID, err)
		}
	}

	if commit.Complete {
		res, err := tx.ExecContext(ctx,
			"UPDATE purchase_orders SET status='complete', completed_at=CURRENT_TIMESTAMP WHERE id=? AND status <> 'complete'",
			commit.OrderID)
		if err != nil {
			return fmt.Errorf("complete purchase order %s: %w", commit.OrderID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("purchase order %s already complete: %w", commit.OrderID, entities.ErrConcurrencyConflict)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit receiving for %s: %w", commit.OrderID, err)
	}

	log.Debug().
		Str("purchase_order_id", commit.OrderID).
		Int("items", len(commit.UpdatedItems)).
		Msg("receiving committed to sqlite")
	return nil
}

// StockMovement is one journal row written per stock delta
type StockMovement struct {
	PartID    entities.PartID
	Quantity  entities.Quantity
	Reference string
}

// StockMovements returns the journal of stock changes for a part, oldest first
func (s *Store) StockMovements(ctx context.Context, partID entities.PartID) ([]StockMovement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT part_id, quantity, reference FROM stock_movements WHERE part_id=? ORDER BY id", string(partID))
	if err != nil {
		return nil, fmt.Errorf("query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []StockMovement
	for rows.Next() {
		var m StockMovement
		var qty int64
		var id string
		if err := rows.Scan(&id, &qty, &m.Reference); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.PartID = entities.PartID(id)
		m.Quantity = entities.Quantity(qty)
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
