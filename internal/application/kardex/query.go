package kardex

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ListMovements devuelve movimientos filtrados por rango de fechas, producto,
// tipo y motivo, enriquecidos, en orden de conciliación (actividad más
// reciente primero). Sin coincidencias devuelve slice vacío, nunca error.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*MovementView, error) {
	if filter.Kind != "" && !entity.ValidKind(filter.Kind) {
		return nil, domain.ErrInvalidInput
	}
	if filter.Reason != "" && !entity.ValidReason(filter.Reason) {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.From != nil {
		f := dateOnly(*filter.From)
		filter.From = &f
	}
	if filter.To != nil {
		t := dateOnly(*filter.To)
		filter.To = &t
	}

	movements, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	return uc.enrich(ctx, movements)
}

// GetMovement obtiene un movimiento por ID, enriquecido.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id string) (*MovementView, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	mov, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer movimiento: %w", err)
	}
	if mov == nil {
		return nil, domain.ErrMovementNotFound
	}
	return uc.enrichOne(ctx, mov)
}
