package kardex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func TestCreateMovement_EntradaSumaStock(t *testing.T) {
	uc, movements, products := newTestEngine()
	products.put(activeProduct("p1", 10))

	view, err := uc.CreateMovement(context.Background(), CreateMovementInput{
		ProductID: "p1",
		Kind:      entity.MovementKindEntry,
		Quantity:  d(5),
		Reason:    entity.ReasonPurchase,
		ActorID:   "u-laura",
	})
	require.NoError(t, err)

	assert.True(t, products.stock("p1").Equal(d(15)))
	assert.Equal(t, entity.MovementStatusActive, view.Status)
	assert.Equal(t, "Producto p1", view.ProductName)
	assert.Equal(t, "Laura Gómez", view.ActorName)
	// el agregado coincide con la suma de movimientos ACTIVE sobre la base inicial
	assert.True(t, d(10).Add(movements.activeDelta("p1")).Equal(products.stock("p1")))
}

func TestCreateMovement_SalidaDescuentaStock(t *testing.T) {
	uc, _, products := newTestEngine()
	products.put(activeProduct("p1", 10))

	_, err := uc.CreateMovement(context.Background(), CreateMovementInput{
		ProductID: "p1",
		Kind:      entity.MovementKindExit,
		Quantity:  d(4),
		Reason:    entity.ReasonAdjustment,
	})
	require.NoError(t, err)
	assert.True(t, products.stock("p1").Equal(d(6)))
}

func TestCreateMovement_SalidaStockInsuficiente(t *testing.T) {
	uc, movements, products := newTestEngine()
	products.put(activeProduct("p1", 3))

	_, err := uc.CreateMovement(context.Background(), CreateMovementInput{
		ProductID: "p1",
		Kind:      entity.MovementKindExit,
		Quantity:  d(4),
		Reason:    entity.ReasonSale,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, products.stock("p1").Equal(d(3)), "se rechaza antes de cualquier escritura")
	assert.Empty(t, movements.rows)
}

func TestCreateMovement_SalidaProductoInactivo(t *testing.T) {
	uc, _, products := newTestEngine()
	products.put(inactiveProduct("p1", 10))

	_, err := uc.CreateMovement(context.Background(), CreateMovementInput{
		ProductID: "p1",
		Kind:      entity.MovementKindExit,
		Quantity:  d(1),
		Reason:    entity.ReasonAdjustment,
	})
	require.ErrorIs(t, err, domain.ErrProductInactive)
}

// Política documentada: una entrada sobre un producto inactivo es válida
// (recepción o devolución tardía de un producto descatalogado).
func TestCreateMovement_EntradaSobreProductoInactivoPermitida(t *testing.T) {
	uc, _, products := newTestEngine()
	products.put(inactiveProduct("p1", 0))

	_, err := uc.CreateMovement(context.Background(), CreateMovementInput{
		ProductID: "p1",
		Kind:      entity.MovementKindEntry,
		Quantity:  d(5),
		Reason:    entity.ReasonPurchase,
	})
	require.NoError(t, err)
	assert.True(t, products.stock("p1").Equal(d(5)))
}

func TestCreateMovement_ProductoInexistente(t *testing.T) {
	uc, _, _ := newTestEngine()

	for _, kind := range []string{entity.MovementKindEntry, entity.MovementKindExit} {
		_, err := uc.CreateMovement(context.Background(), CreateMovementInput{
			ProductID: "no-existe",
			Kind:      kind,
			Quantity:  d(1),
			Reason:    entity.ReasonAdjustment,
		})
		require.ErrorIs(t, err, domain.ErrProductNotFound, kind)
	}
}

func TestCreateMovement_EntradaInvalida(t *testing.T) {
	uc, _, products := newTestEngine()
	products.put(activeProduct("p1", 10))

	cases := []CreateMovementInput{
		{ProductID: "", Kind: entity.MovementKindEntry, Quantity: d(1), Reason: entity.ReasonPurchase},
		{ProductID: "p1", Kind: "TRANSFER", Quantity: d(1), Reason: entity.ReasonPurchase},
		{ProductID: "p1", Kind: entity.MovementKindEntry, Quantity: d(0), Reason: entity.ReasonPurchase},
		{ProductID: "p1", Kind: entity.MovementKindEntry, Quantity: d(-3), Reason: entity.ReasonPurchase},
		{ProductID: "p1", Kind: entity.MovementKindEntry, Quantity: d(1), Reason: "DONATION"},
	}
	for _, in := range cases {
		_, err := uc.CreateMovement(context.Background(), in)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.True(t, products.stock("p1").Equal(d(10)))
}

func TestCreateMovement_FechaContable(t *testing.T) {
	uc, _, products := newTestEngine()
	products.put(activeProduct("p1", 0))
	fixed := time.Date(2026, 8, 31, 15, 42, 7, 0, time.Local)
	uc.now = func() time.Time { return fixed }

	// Sin occurred_on: fecha local de hoy, sin componente horario.
	view, err := uc.CreateMovement(context.Background(), CreateMovementInput{
		ProductID: "p1",
		Kind:      entity.MovementKindEntry,
		Quantity:  d(1),
		Reason:    entity.ReasonPurchase,
	})
	require.NoError(t, err)
	assert.True(t, view.OccurredOn.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)))
	assert.True(t, view.RecordedAt.Equal(fixed))

	// Con occurred_on explícito se respeta la fecha del caller.
	view, err = uc.CreateMovement(context.Background(), CreateMovementInput{
		ProductID:  "p1",
		Kind:       entity.MovementKindEntry,
		Quantity:   d(1),
		Reason:     entity.ReasonPurchase,
		OccurredOn: datePtr(2026, time.August, 20),
	})
	require.NoError(t, err)
	assert.True(t, view.OccurredOn.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.Local)))
}

func TestCreateMovement_CompensaSiFallaEscrituraDeStock(t *testing.T) {
	uc, movements, products := newTestEngine()
	products.put(activeProduct("p1", 10))
	boom := errors.New("conexión perdida")
	products.updateStockErr = func(string) error { return boom }

	_, err := uc.CreateMovement(context.Background(), CreateMovementInput{
		ProductID: "p1",
		Kind:      entity.MovementKindExit,
		Quantity:  d(4),
		Reason:    entity.ReasonAdjustment,
	})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrCompensationFailed)
	assert.Empty(t, movements.rows, "la fila insertada debe eliminarse: sin asiento huérfano")
	assert.True(t, products.stock("p1").Equal(d(10)))
}

func TestCreateMovement_CompensacionFallida(t *testing.T) {
	uc, movements, products := newTestEngine()
	products.put(activeProduct("p1", 10))
	products.updateStockErr = func(string) error { return errors.New("timeout") }
	movements.deleteErr = func(string) error { return errors.New("timeout") }

	_, err := uc.CreateMovement(context.Background(), CreateMovementInput{
		ProductID: "p1",
		Kind:      entity.MovementKindExit,
		Quantity:  d(4),
		Reason:    entity.ReasonAdjustment,
	})
	require.ErrorIs(t, err, domain.ErrCompensationFailed)

	var compErr *domain.CompensationError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, "create", compErr.Op)
	assert.Equal(t, "p1", compErr.ProductID)
	assert.Len(t, movements.rows, 1, "el asiento huérfano queda visible para conciliación")
}
