package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura/escritura de productos para el
// kardex. UpdateStock es la única vía de escritura del agregado cacheado:
// el resto de la aplicación debe pasar por un Movement.
type ProductRepository interface {
	// GetByID devuelve nil sin error si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// UpdateStock escribe el nuevo stock cacheado del producto.
	// Devuelve domain.ErrProductNotFound si el producto no existe.
	UpdateStock(ctx context.Context, productID string, quantity decimal.Decimal) error
	// GetRefsByIDs resuelve datos de presentación en lote (una consulta por
	// conjunto de IDs distintos). IDs inexistentes simplemente no aparecen.
	GetRefsByIDs(ctx context.Context, ids []string) (map[string]entity.ProductRef, error)
}
