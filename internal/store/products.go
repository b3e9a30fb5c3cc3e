package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ddshop/reports-manager/internal/dependency"
	"github.com/ddshop/reports-manager/internal/entity"
)

type productsStore struct {
	*MYSQLStore
}

// Products returns an object implementing Products interface
func (ms *MYSQLStore) Products() dependency.Products {
	return &productsStore{
		MYSQLStore: ms,
	}
}

// GetProductByID returns a product with its price tiers, files and bundle
// contents.
func (ms *MYSQLStore) GetProductByID(ctx context.Context, id int) (*entity.ProductFull, error) {
	product, err := QueryNamedOne[entity.Product](ctx, ms.DB(), `
	SELECT * FROM products WHERE id = :id`, map[string]any{
		"id": id,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product not found: %d", id)
		}
		return nil, fmt.Errorf("can't get product by id: %w", err)
	}

	prices, err := QueryListNamed[entity.ProductPrice](ctx, ms.DB(), `
	SELECT * FROM product_prices WHERE product_id = :id ORDER BY price_id`, map[string]any{
		"id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get product prices: %w", err)
	}

	files, err := QueryListNamed[entity.ProductFile](ctx, ms.DB(), `
	SELECT * FROM product_files WHERE product_id = :id ORDER BY id`, map[string]any{
		"id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get product files: %w", err)
	}

	full := &entity.ProductFull{
		Product: product,
		Prices:  prices,
		Files:   files,
	}

	if product.Bundle {
		type bundledRow struct {
			ProductID int `db:"bundled_product_id"`
		}
		rows, err := QueryListNamed[bundledRow](ctx, ms.DB(), `
		SELECT bundled_product_id FROM product_bundles WHERE bundle_id = :id ORDER BY position`,
			map[string]any{"id": id})
		if err != nil {
			return nil, fmt.Errorf("can't get bundle contents: %w", err)
		}
		for _, r := range rows {
			full.Bundled = append(full.Bundled, r.ProductID)
		}
	}

	return full, nil
}

// ListGateways returns the payment gateway dictionary, loaded once at boot
// into the cache.
func (ms *MYSQLStore) ListGateways(ctx context.Context) ([]entity.Gateway, error) {
	gateways, err := QueryListNamed[entity.Gateway](ctx, ms.DB(), `
	SELECT * FROM gateways ORDER BY id`, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("can't get gateways: %w", err)
	}
	return gateways, nil
}
