package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene la vista kardex de un producto. Devuelve nil sin error si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, sku, name, status, stock_quantity, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Status, &p.StockQuantity, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// UpdateStock escribe el stock cacheado del producto. Única vía de escritura
// del agregado: el resto de la aplicación registra movimientos.
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, quantity decimal.Decimal) error {
	query := `UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// GetRefsByIDs resuelve datos de presentación en lote (una sola consulta).
func (r *ProductRepo) GetRefsByIDs(ctx context.Context, ids []string) (map[string]entity.ProductRef, error) {
	if len(ids) == 0 {
		return map[string]entity.ProductRef{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id, sku, name FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get product refs: %w", err)
	}
	defer rows.Close()

	refs := make(map[string]entity.ProductRef, len(ids))
	for rows.Next() {
		var ref entity.ProductRef
		if err := rows.Scan(&ref.ID, &ref.SKU, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan product ref: %w", err)
		}
		refs[ref.ID] = ref
	}
	return refs, rows.Err()
}
