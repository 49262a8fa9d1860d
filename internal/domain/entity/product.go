package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un producto.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product es la vista del producto relevante para el kardex.
// StockQuantity es el agregado cacheado: se mantiene por delta desde los
// movimientos ACTIVE, nunca se recalcula desde el histórico en cada lectura.
// Solo el motor de kardex escribe StockQuantity.
type Product struct {
	ID            string
	SKU           string
	Name          string
	Status        string // active, inactive
	StockQuantity decimal.Decimal
	UpdatedAt     time.Time
}

// IsActive indica si el producto admite salidas de stock.
func (p *Product) IsActive() bool { return p.Status == ProductStatusActive }

// ProductRef datos de presentación de un producto (enriquecimiento de listados).
type ProductRef struct {
	ID   string
	SKU  string
	Name string
}
