package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	MovementKindEntry = "ENTRY" // entrada: suma stock
	MovementKindExit  = "EXIT"  // salida: resta stock
)

// Motivos de movimiento.
const (
	ReasonSale       = "SALE"       // generado por el subsistema de ventas (inmutable aquí)
	ReasonAdjustment = "ADJUSTMENT" // ajuste manual
	ReasonPurchase   = "PURCHASE"   // recepción de compra
	ReasonReturn     = "RETURN"     // devolución
)

// Estados de un movimiento.
const (
	MovementStatusActive = "ACTIVE"
	MovementStatusVoid   = "VOID" // terminal: no se reactiva ni se enmienda
)

// Movement representa una entrada del kardex: un cambio registrado sobre el
// stock de un producto. Solo los movimientos ACTIVE cuentan para el agregado.
// La anulación guarda auditoría estructurada (VoidedAt/VoidedBy/VoidReason)
// sin tocar la nota del usuario.
type Movement struct {
	ID         string
	ProductID  string
	Kind       string          // ENTRY | EXIT
	Quantity   decimal.Decimal // siempre > 0; el signo lo da Kind
	Reason     string          // SALE | ADJUSTMENT | PURCHASE | RETURN
	OccurredOn time.Time       // fecha contable (sin componente horario)
	RecordedAt time.Time       // timestamp de creación, inmutable
	ActorID    string          // usuario que registró (opcional)
	Note       string          // texto libre del usuario
	Status     string          // ACTIVE | VOID
	VoidedAt   *time.Time
	VoidedBy   string
	VoidReason string
}

// IsVoid indica si el movimiento está anulado (estado terminal).
func (m *Movement) IsVoid() bool { return m.Status == MovementStatusVoid }

// StockDelta devuelve el efecto neto sobre el stock: +Quantity para ENTRY,
// -Quantity para EXIT.
func (m *Movement) StockDelta() decimal.Decimal {
	if m.Kind == MovementKindExit {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// ValidKind valida el tipo de movimiento.
func ValidKind(kind string) bool {
	return kind == MovementKindEntry || kind == MovementKindExit
}

// ValidReason valida el motivo.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonSale, ReasonAdjustment, ReasonPurchase, ReasonReturn:
		return true
	}
	return false
}
