package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos del kardex.
// From/To acotan occurred_on (inclusivo). Campos vacíos no filtran.
type MovementFilter struct {
	From      *time.Time
	To        *time.Time
	ProductID string
	Kind      string
	Reason    string
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia para movimientos del kardex.
// Delete existe únicamente como acción compensatoria del motor (rollback de una
// creación cuya escritura de stock falló); nunca se expone a los callers.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	Update(ctx context.Context, movement *entity.Movement) error
	Delete(ctx context.Context, id string) error
	// List devuelve movimientos en orden de conciliación:
	// occurred_on DESC, recorded_at DESC. Sin coincidencias devuelve slice vacío.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
