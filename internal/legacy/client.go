// Package legacy talks to the legacy POS SQL Server the sync reconciles against.
package legacy

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb" // sqlserver database/sql driver
	"github.com/patwikx/retail-inventory-service/config"
	"github.com/patwikx/retail-inventory-service/internal/errs"
)

// InventoryRow is one item of a site's inventory snapshot as the legacy
// system reports it.
type InventoryRow struct {
	Barcode        string  `db:"barcode"`
	ProductCode    string  `db:"product_code"`
	Name           string  `db:"name"`
	RetailPrice    float64 `db:"retail_price"`
	WholesalePrice float64 `db:"wholesale_price"`
	POPrice        float64 `db:"po_price"`
	OnHandQuantity float64 `db:"on_hand_quantity"`
	BaseUnitCode   string  `db:"base_unit_code"`
	CategoryName   string  `db:"category_name"`
	CategoryID     string  `db:"category_id"`
	SiteCode       string  `db:"site_code"`
	SiteName       string  `db:"site_name"`
}

// Source is the snapshot query interface the orchestrator consumes.
type Source interface {
	FetchSiteInventory(ctx context.Context, siteCode string) ([]InventoryRow, error)
}

type Client struct {
	db *sqlx.DB
}

func NewClient(cfg config.LegacyConfig) (*Client, error) {
	dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	db, err := sqlx.Connect("sqlserver", dsn)
	if err != nil {
		return nil, err
	}
	return &Client{db: db}, nil
}

// snapshotQuery returns the full on-hand picture for one site, pre-filtered to
// active, non-consignment, in-stock items outside the Consignment category,
// most recently updated first.
const snapshotQuery = `
    SELECT
        i.Barcode            AS barcode,
        i.ItemCode           AS product_code,
        i.ItemDescription    AS name,
        i.RetailPrice        AS retail_price,
        i.WholesalePrice     AS wholesale_price,
        i.POPrice            AS po_price,
        q.OnHandQty          AS on_hand_quantity,
        i.BaseUnitCode       AS base_unit_code,
        c.CategoryName       AS category_name,
        c.CategoryCode       AS category_id,
        s.SiteCode           AS site_code,
        s.SiteName           AS site_name
    FROM dbo.ItemSiteQty q
    INNER JOIN dbo.Items i       ON i.ItemCode = q.ItemCode
    INNER JOIN dbo.Categories c  ON c.CategoryCode = i.CategoryCode
    INNER JOIN dbo.Sites s       ON s.SiteCode = q.SiteCode
    WHERE s.SiteCode = @p1
      AND i.IsActive = 1
      AND i.IsConsignment = 0
      AND q.OnHandQty > 0
      AND c.CategoryName <> 'Consignment'
    ORDER BY i.UpdatedAt DESC
`

func (c *Client) FetchSiteInventory(ctx context.Context, siteCode string) ([]InventoryRow, error) {
	var rows []InventoryRow
	if err := c.db.SelectContext(ctx, &rows, snapshotQuery, siteCode); err != nil {
		return nil, &errs.ExternalSourceError{Op: "fetch site inventory", Err: err}
	}
	return rows, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}
