package kardex

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// VoidMovementInput entrada para anular un movimiento.
type VoidMovementInput struct {
	VoidedBy   string
	VoidReason string
}

// VoidMovement anula un movimiento ACTIVE: revierte su efecto sobre el stock y
// marca la fila como VOID con auditoría estructurada (quién, cuándo, por qué),
// sin tocar la nota del usuario. VOID es terminal. Los movimientos con motivo
// SALE no se anulan aquí: debe anularse la venta que los originó.
func (uc *LedgerUseCase) VoidMovement(ctx context.Context, id string, in VoidMovementInput) (*MovementView, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	unlockMov := uc.movementLocks.Lock(id)
	defer unlockMov()

	mov, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer movimiento: %w", err)
	}
	if mov == nil {
		return nil, domain.ErrMovementNotFound
	}
	if mov.IsVoid() {
		return nil, domain.ErrMovementVoid
	}
	if mov.Reason == entity.ReasonSale {
		return nil, domain.ErrSaleOriginated
	}

	unlock := uc.productLocks.Lock(mov.ProductID)
	defer unlock()

	product, err := uc.products.GetByID(ctx, mov.ProductID)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if !product.IsActive() {
		return nil, domain.ErrProductInactive
	}

	prior := product.StockQuantity
	reverted := prior.Sub(mov.StockDelta())
	if reverted.IsNegative() {
		// El movimiento queda ACTIVE y no cambia nada.
		return nil, domain.ErrWouldGoNegative
	}

	if err := uc.products.UpdateStock(ctx, mov.ProductID, reverted); err != nil {
		return nil, fmt.Errorf("revertir stock: %w", err)
	}

	now := uc.now()
	mov.Status = entity.MovementStatusVoid
	mov.VoidedAt = &now
	mov.VoidedBy = in.VoidedBy
	mov.VoidReason = in.VoidReason
	if err := uc.movements.Update(ctx, mov); err != nil {
		return nil, uc.compensate(ctx, "void", mov.ID, fmt.Errorf("marcar movimiento como anulado: %w", err),
			stockRestore{productID: mov.ProductID, quantity: prior})
	}
	return uc.enrichOne(ctx, mov)
}

// stockRestore valor previo de stock a restaurar durante una compensación.
type stockRestore struct {
	productID string
	quantity  decimal.Decimal
}

// compensate restaura los stocks previos tras el fallo de una escritura
// dependiente y devuelve la causa original. Si alguna restauración falla, el
// agregado quedó inconsistente con el libro: se devuelve CompensationError
// para que un operador concilie manualmente.
func (uc *LedgerUseCase) compensate(ctx context.Context, op, movementID string, cause error, restores ...stockRestore) error {
	for _, r := range restores {
		if err := uc.products.UpdateStock(ctx, r.productID, r.quantity); err != nil {
			uc.log.Error().Err(err).
				Str("op", op).
				Str("movement_id", movementID).
				Str("product_id", r.productID).
				Msg("compensación fallida: stock sin conciliar con el kardex")
			return &domain.CompensationError{Op: op, ProductID: r.productID, Cause: cause, CompErr: err}
		}
	}
	uc.log.Warn().Err(cause).
		Str("op", op).
		Str("movement_id", movementID).
		Msg("operación revertida por fallo en escritura dependiente")
	return cause
}
