package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Precondiciones e invariantes se rechazan antes de cualquier escritura;
// ErrCompensationFailed señala estado inconsistente que requiere conciliación manual.
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrProductInactive   = errors.New("producto inactivo")
	ErrMovementNotFound  = errors.New("movimiento no encontrado")
	ErrMovementVoid      = errors.New("movimiento anulado")
	ErrSaleOriginated    = errors.New("movimiento originado por venta: anular la venta en su lugar")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrWouldGoNegative   = errors.New("la operación dejaría stock negativo")

	ErrCompensationFailed = errors.New("compensación fallida: requiere conciliación manual")
)

// CompensationError indica que una escritura dependiente falló y la acción
// compensatoria tampoco pudo completarse. El stock cacheado y el libro de
// movimientos quedaron inconsistentes para ProductID.
type CompensationError struct {
	Op        string // operación en curso: create, amend, void
	ProductID string // producto cuyo stock quedó sin conciliar
	Cause     error  // fallo original de la escritura dependiente
	CompErr   error  // fallo de la acción compensatoria
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("%s: %v (compensación: %v, producto %s)", e.Op, e.Cause, e.CompErr, e.ProductID)
}

// Is permite errors.Is(err, ErrCompensationFailed).
func (e *CompensationError) Is(target error) bool {
	return target == ErrCompensationFailed
}

func (e *CompensationError) Unwrap() error { return e.Cause }
