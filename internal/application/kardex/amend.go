package kardex

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// AmendMovementInput cambios parciales sobre un movimiento ACTIVE.
// Campos nil se conservan. Mover el movimiento de fecha no está soportado.
type AmendMovementInput struct {
	ProductID *string
	Kind      *string
	Quantity  *decimal.Decimal
	Note      *string
}

// AmendMovement enmienda un movimiento ACTIVE. Como el stock cacheado es un
// total acumulado y no un recálculo, la enmienda revierte explícitamente el
// efecto anterior y aplica el nuevo:
//
//   - sin cambio de tipo/cantidad/producto: solo campos descriptivos;
//   - mismo producto: stock final = (actual ∓ cantidadAnterior) ± cantidadFinal;
//   - producto distinto: revierte sobre el producto original, valida y aplica
//     sobre el destino, y restaura el original si la segunda fase falla.
//
// La fila del movimiento se persiste al final; si esa escritura falla se
// restauran los stocks previos.
func (uc *LedgerUseCase) AmendMovement(ctx context.Context, id string, in AmendMovementInput) (*MovementView, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Kind != nil && !entity.ValidKind(*in.Kind) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.ProductID != nil && *in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Serializa enmiendas y anulaciones sobre el mismo movimiento.
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

	finalProduct := mov.ProductID
	if in.ProductID != nil {
		finalProduct = *in.ProductID
	}
	finalKind := mov.Kind
	if in.Kind != nil {
		finalKind = *in.Kind
	}
	finalQty := mov.Quantity
	if in.Quantity != nil {
		finalQty = *in.Quantity
	}

	// Mismo efecto neto: no hay trabajo de stock, solo campos descriptivos.
	if finalProduct == mov.ProductID && finalKind == mov.Kind && finalQty.Equal(mov.Quantity) {
		if in.Note != nil {
			mov.Note = *in.Note
		}
		if err := uc.movements.Update(ctx, mov); err != nil {
			return nil, fmt.Errorf("actualizar movimiento: %w", err)
		}
		return uc.enrichOne(ctx, mov)
	}

	if finalProduct == mov.ProductID {
		return uc.amendSameProduct(ctx, mov, in, finalKind, finalQty)
	}
	return uc.amendCrossProduct(ctx, mov, in, finalProduct, finalKind, finalQty)
}

func (uc *LedgerUseCase) amendSameProduct(ctx context.Context, mov *entity.Movement, in AmendMovementInput, finalKind string, finalQty decimal.Decimal) (*MovementView, error) {
	unlock := uc.productLocks.Lock(mov.ProductID)
	defer unlock()

	product, err := uc.products.GetByID(ctx, mov.ProductID)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if finalKind == entity.MovementKindExit && !product.IsActive() {
		return nil, domain.ErrProductInactive
	}

	prior := product.StockQuantity
	finalDelta := deltaOf(finalKind, finalQty)
	// reverted = stock como quedaría sin este movimiento
	reverted := prior.Sub(mov.StockDelta())
	if finalKind == entity.MovementKindExit && finalQty.GreaterThan(reverted) {
		return nil, domain.ErrInsufficientStock
	}

	var final decimal.Decimal
	if finalKind != mov.Kind && finalQty.Equal(mov.Quantity) {
		// Flip puro de signo: atajo equivalente a revertir y reaplicar.
		final = flippedStock(prior, finalDelta)
	} else {
		final = amendedStock(prior, mov.StockDelta(), finalDelta)
	}
	// Cubre también el caso en que otras salidas ya consumieron la entrada
	// original y la base revertida quedaría negativa.
	if final.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}

	if err := uc.products.UpdateStock(ctx, mov.ProductID, final); err != nil {
		return nil, fmt.Errorf("actualizar stock: %w", err)
	}

	applyAmend(mov, in, mov.ProductID, finalKind, finalQty)
	if err := uc.movements.Update(ctx, mov); err != nil {
		return nil, uc.compensate(ctx, "amend", mov.ID, fmt.Errorf("actualizar movimiento: %w", err),
			stockRestore{productID: mov.ProductID, quantity: prior})
	}
	return uc.enrichOne(ctx, mov)
}

func (uc *LedgerUseCase) amendCrossProduct(ctx context.Context, mov *entity.Movement, in AmendMovementInput, finalProduct, finalKind string, finalQty decimal.Decimal) (*MovementView, error) {
	unlock := uc.productLocks.LockPair(mov.ProductID, finalProduct)
	defer unlock()

	oldProduct, err := uc.products.GetByID(ctx, mov.ProductID)
	if err != nil {
		return nil, fmt.Errorf("leer producto original: %w", err)
	}
	if oldProduct == nil {
		return nil, domain.ErrProductNotFound
	}
	newProduct, err := uc.products.GetByID(ctx, finalProduct)
	if err != nil {
		return nil, fmt.Errorf("leer producto destino: %w", err)
	}
	if newProduct == nil {
		return nil, domain.ErrProductNotFound
	}

	oldPrior := oldProduct.StockQuantity
	newPrior := newProduct.StockQuantity
	revertedOld := oldPrior.Sub(mov.StockDelta())
	if revertedOld.IsNegative() {
		return nil, domain.ErrWouldGoNegative
	}

	// Fase 1: revertir el efecto sobre el producto original.
	if err := uc.products.UpdateStock(ctx, mov.ProductID, revertedOld); err != nil {
		return nil, fmt.Errorf("revertir stock original: %w", err)
	}

	// Fase 2: validar y aplicar sobre el destino. Si falla, el stock no puede
	// desaparecer de un producto sin aparecer en el otro: restaurar fase 1.
	restoreOld := stockRestore{productID: mov.ProductID, quantity: oldPrior}
	if !newProduct.IsActive() {
		return nil, uc.compensate(ctx, "amend", mov.ID, domain.ErrProductInactive, restoreOld)
	}
	finalDelta := deltaOf(finalKind, finalQty)
	if finalKind == entity.MovementKindExit && finalQty.GreaterThan(newPrior) {
		return nil, uc.compensate(ctx, "amend", mov.ID, domain.ErrInsufficientStock, restoreOld)
	}
	finalNew := newPrior.Add(finalDelta)
	if err := uc.products.UpdateStock(ctx, finalProduct, finalNew); err != nil {
		return nil, uc.compensate(ctx, "amend", mov.ID, fmt.Errorf("actualizar stock destino: %w", err), restoreOld)
	}

	// Fase 3: persistir los cambios de la fila al final.
	applyAmend(mov, in, finalProduct, finalKind, finalQty)
	if err := uc.movements.Update(ctx, mov); err != nil {
		return nil, uc.compensate(ctx, "amend", mov.ID, fmt.Errorf("actualizar movimiento: %w", err),
			stockRestore{productID: finalProduct, quantity: newPrior}, restoreOld)
	}
	return uc.enrichOne(ctx, mov)
}

// applyAmend vuelca los cambios aprobados sobre la entidad.
func applyAmend(mov *entity.Movement, in AmendMovementInput, productID, kind string, qty decimal.Decimal) {
	mov.ProductID = productID
	mov.Kind = kind
	mov.Quantity = qty
	if in.Note != nil {
		mov.Note = *in.Note
	}
}

// deltaOf efecto neto sobre el stock: +qty para ENTRY, -qty para EXIT.
func deltaOf(kind string, qty decimal.Decimal) decimal.Decimal {
	if kind == entity.MovementKindExit {
		return qty.Neg()
	}
	return qty
}

// amendedStock camino general: revierte el delta anterior y aplica el final.
func amendedStock(current, oldDelta, finalDelta decimal.Decimal) decimal.Decimal {
	return current.Sub(oldDelta).Add(finalDelta)
}

// flippedStock atajo para el flip puro de tipo con cantidad idéntica:
// el delta final se aplica dos veces (una deshace, otra aplica).
// Numéricamente equivalente a amendedStock cuando oldDelta == -finalDelta.
func flippedStock(current, finalDelta decimal.Decimal) decimal.Decimal {
	return current.Add(finalDelta).Add(finalDelta)
}
