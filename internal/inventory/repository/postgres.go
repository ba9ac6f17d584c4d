package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/patwikx/retail-inventory-service/internal/errs"
	"github.com/patwikx/retail-inventory-service/internal/inventory/dto"
	"github.com/patwikx/retail-inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.DB.GetContext(ctx, &inv, `SELECT * FROM inventories WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) GetByProductSite(ctx context.Context, productID, siteID string) (*model.Inventory, error) {
	var inv model.Inventory
	query := `SELECT * FROM inventories WHERE product_id = $1 AND site_id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &inv, query, productID, siteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

const insertInventoryQuery = `
    INSERT INTO inventories (
        id, product_id, site_id, quantity, reserved_qty, available_qty,
        version, last_synced_at, updated_at
    )
    VALUES (
        :id, :product_id, :site_id, :quantity, :reserved_qty, :available_qty,
        1, :last_synced_at, :updated_at
    )
`

// updateInventoryQuery carries the optimistic concurrency check: the row must
// still be at the version the caller read.
const updateInventoryQuery = `
    UPDATE inventories
    SET quantity = :quantity,
        reserved_qty = :reserved_qty,
        available_qty = :available_qty,
        last_synced_at = :last_synced_at,
        updated_at = :updated_at,
        version = version + 1
    WHERE id = :id AND version = :version
`

const insertMovementQuery = `
    INSERT INTO inventory_movements (
        id, inventory_id, product_id, site_id, movement_type,
        quantity_change, quantity_before, quantity_after,
        transfer_group_id, reference, notes, created_by, created_at
    )
    VALUES (
        :id, :inventory_id, :product_id, :site_id, :movement_type,
        :quantity_change, :quantity_before, :quantity_after,
        :transfer_group_id, :reference, :notes, :created_by, :created_at
    )
`

func writeInventory(ctx context.Context, tx *sqlx.Tx, inv *model.Inventory, isNew bool) error {
	if isNew {
		_, err := tx.NamedExecContext(ctx, insertInventoryQuery, inv)
		return err
	}

	res, err := tx.NamedExecContext(ctx, updateInventoryQuery, inv)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.ErrConcurrentUpdate
	}
	return nil
}

func (r *PGRepository) SaveWithMovement(ctx context.Context, inv *model.Inventory, movement *model.InventoryMovement, isNew bool) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := writeInventory(ctx, tx, inv, isNew); err != nil {
		return err
	}

	if movement != nil {
		if _, err := tx.NamedExecContext(ctx, insertMovementQuery, movement); err != nil {
			return fmt.Errorf("failed to log movement: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) TransferWithMovements(ctx context.Context, src, dst *model.Inventory, dstNew bool, out, in *model.InventoryMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := writeInventory(ctx, tx, src, false); err != nil {
		return err
	}
	if err := writeInventory(ctx, tx, dst, dstNew); err != nil {
		return err
	}
	if _, err := tx.NamedExecContext(ctx, insertMovementQuery, out); err != nil {
		return fmt.Errorf("failed to log outbound movement: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, insertMovementQuery, in); err != nil {
		return fmt.Errorf("failed to log inbound movement: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	var items []model.InventoryMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.InventoryID != "" {
		conditions = append(conditions, "inventory_id = :inventory_id")
		args["inventory_id"] = f.InventoryID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.SiteID != "" {
		conditions = append(conditions, "site_id = :site_id")
		args["site_id"] = f.SiteID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
