package kardex

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// LedgerUseCase es el motor del kardex: registra, enmienda y anula movimientos
// manteniendo el stock cacheado del producto consistente con el histórico.
//
// Las operaciones son multi-paso contra dos recursos (movimientos y productos)
// sin transacción que las envuelva: la serialización por producto la da un lock
// por clave sostenido durante toda la secuencia, y los fallos parciales se
// resuelven con acciones compensatorias explícitas (saga de dos fases).
type LedgerUseCase struct {
	movements repository.MovementRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	log       *logger.Logger

	productLocks  keyedMutex
	movementLocks keyedMutex

	now func() time.Time // inyectable en tests
}

// NewLedgerUseCase construye el motor del kardex.
func NewLedgerUseCase(
	movements repository.MovementRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		movements: movements,
		products:  products,
		users:     users,
		log:       log,
		now:       time.Now,
	}
}

// CreateMovementInput entrada para registrar un movimiento.
type CreateMovementInput struct {
	ProductID  string
	Kind       string
	Quantity   decimal.Decimal
	Reason     string
	OccurredOn *time.Time // nil = fecha local de hoy
	ActorID    string
	Note       string
}

// CreateMovement registra un movimiento y aplica su delta al stock del producto.
//
// Secuencia: validar → insertar fila → lectura fresca del stock → escribir
// nuevo stock. Si la escritura de stock falla, la fila insertada se elimina
// (rollback compensatorio) para no dejar un asiento huérfano sin efecto en el
// agregado. Todo ocurre bajo el lock del producto.
func (uc *LedgerUseCase) CreateMovement(ctx context.Context, in CreateMovementInput) (*MovementView, error) {
	if in.ProductID == "" || !entity.ValidKind(in.Kind) || !entity.ValidReason(in.Reason) {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	unlock := uc.productLocks.Lock(in.ProductID)
	defer unlock()

	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Kind == entity.MovementKindExit {
		// Solo las salidas exigen producto activo; una entrada sobre un
		// producto descatalogado (devolución tardía, recepción pendiente)
		// es legítima.
		if !product.IsActive() {
			return nil, domain.ErrProductInactive
		}
		if in.Quantity.GreaterThan(product.StockQuantity) {
			return nil, domain.ErrInsufficientStock
		}
	}

	now := uc.now()
	occurred := now
	if in.OccurredOn != nil {
		occurred = *in.OccurredOn
	}
	mov := &entity.Movement{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		Kind:       in.Kind,
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		OccurredOn: dateOnly(occurred),
		RecordedAt: now,
		ActorID:    in.ActorID,
		Note:       in.Note,
		Status:     entity.MovementStatusActive,
	}
	if err := uc.movements.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("crear movimiento: %w", err)
	}

	// Lectura fresca: no se reutiliza el valor leído en la validación.
	fresh, err := uc.products.GetByID(ctx, in.ProductID)
	if err == nil && fresh == nil {
		err = domain.ErrProductNotFound
	}
	if err != nil {
		return nil, uc.compensateCreate(ctx, mov, fmt.Errorf("releer stock: %w", err))
	}
	newStock := fresh.StockQuantity.Add(mov.StockDelta())
	if newStock.IsNegative() {
		return nil, uc.compensateCreate(ctx, mov, domain.ErrInsufficientStock)
	}
	if err := uc.products.UpdateStock(ctx, in.ProductID, newStock); err != nil {
		return nil, uc.compensateCreate(ctx, mov, fmt.Errorf("actualizar stock: %w", err))
	}
	return uc.enrichOne(ctx, mov)
}

// compensateCreate elimina la fila recién insertada cuando la escritura de
// stock no pudo completarse. Si la eliminación también falla, el estado quedó
// inconsistente y se reporta como tal.
func (uc *LedgerUseCase) compensateCreate(ctx context.Context, mov *entity.Movement, cause error) error {
	if delErr := uc.movements.Delete(ctx, mov.ID); delErr != nil {
		uc.log.Error().Err(delErr).
			Str("movement_id", mov.ID).
			Str("product_id", mov.ProductID).
			Msg("compensación de creación fallida: movimiento huérfano en el kardex")
		return &domain.CompensationError{Op: "create", ProductID: mov.ProductID, Cause: cause, CompErr: delErr}
	}
	uc.log.Warn().Err(cause).
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Msg("creación revertida por fallo en la escritura de stock")
	return cause
}

// dateOnly normaliza a fecha contable sin componente horario.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
