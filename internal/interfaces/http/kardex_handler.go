package http

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// KardexHandler maneja las peticiones HTTP del kardex (protegido).
type KardexHandler struct {
	ledger   *kardex.LedgerUseCase
	validate *validator.Validate
}

// NewKardexHandler construye el handler.
func NewKardexHandler(ledger *kardex.LedgerUseCase) *KardexHandler {
	return &KardexHandler{
		ledger:   ledger,
		validate: validator.New(),
	}
}

// CreateMovement godoc
// @Summary      Registrar movimiento del kardex
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_id, kind (ENTRY|EXIT), quantity, reason, occurred_on opcional (YYYY-MM-DD), note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/movements [post]
func (h *KardexHandler) CreateMovement(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	input := kardex.CreateMovementInput{
		ProductID: in.ProductID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		ActorID:   GetUserID(c),
		Note:      in.Note,
	}
	if in.OccurredOn != "" {
		occurred, _ := time.ParseInLocation("2006-01-02", in.OccurredOn, time.Local)
		input.OccurredOn = &occurred
	}
	view, err := h.ledger.CreateMovement(c.Context(), input)
	if err != nil {
		return kardexError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(view))
}

// AmendMovement godoc
// @Summary      Enmendar movimiento del kardex
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.AmendMovementRequest  true  "subconjunto de product_id, kind, quantity, note"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/movements/{id} [patch]
func (h *KardexHandler) AmendMovement(c *fiber.Ctx) error {
	var in dto.AmendMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	view, err := h.ledger.AmendMovement(c.Context(), c.Params("id"), kardex.AmendMovementInput{
		ProductID: in.ProductID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Note:      in.Note,
	})
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(dto.NewMovementResponse(view))
}

// VoidMovement godoc
// @Summary      Anular movimiento del kardex
// @Description  Revierte el efecto del movimiento sobre el stock y lo marca VOID
//
//	con auditoría estructurada. Los movimientos de venta se anulan
//	cancelando la venta, no aquí.
//
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.VoidMovementRequest  false  "reason: texto libre de la anulación"
// @Success      200   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/movements/{id}/void [post]
func (h *KardexHandler) VoidMovement(c *fiber.Ctx) error {
	var in dto.VoidMovementRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	view, err := h.ledger.VoidMovement(c.Context(), c.Params("id"), kardex.VoidMovementInput{
		VoidedBy:   GetUserID(c),
		VoidReason: in.Reason,
	})
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(dto.NewMovementResponse(view))
}

// ListMovements godoc
// @Summary      Listar movimientos del kardex
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        from        query  string  false  "Fecha desde (YYYY-MM-DD, inclusivo)"
// @Param        to          query  string  false  "Fecha hasta (YYYY-MM-DD, inclusivo)"
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        kind        query  string  false  "ENTRY | EXIT"
// @Param        reason      query  string  false  "SALE | ADJUSTMENT | PURCHASE | RETURN"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kardex/movements [get]
func (h *KardexHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.ListMovementsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	if err := h.validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	q.DefaultPage()

	filter := repository.MovementFilter{
		ProductID: q.ProductID,
		Kind:      q.Kind,
		Reason:    q.Reason,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	if q.From != "" {
		from, _ := time.ParseInLocation("2006-01-02", q.From, time.Local)
		filter.From = &from
	}
	if q.To != "" {
		to, _ := time.ParseInLocation("2006-01-02", q.To, time.Local)
		filter.To = &to
	}
	views, err := h.ledger.ListMovements(c.Context(), filter)
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":     len(views),
		"movements": dto.NewMovementListResponse(views),
	})
}

// GetMovement godoc
// @Summary      Obtener movimiento del kardex por ID
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/movements/{id} [get]
func (h *KardexHandler) GetMovement(c *fiber.Ctx) error {
	view, err := h.ledger.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(dto.NewMovementResponse(view))
}

// kardexError mapea errores de dominio a respuestas HTTP. Cualquier resultado
// no exitoso significa "la operación no tuvo efecto", salvo COMPENSATION_FAILED,
// que la UI debe mostrar como alerta de conciliación.
func kardexError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrMovementNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "MOVEMENT_NOT_FOUND", Message: "movimiento no encontrado"})
	case errors.Is(err, domain.ErrProductInactive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PRODUCT_INACTIVE", Message: "producto inactivo"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrWouldGoNegative):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WOULD_GO_NEGATIVE", Message: "la operación dejaría stock negativo"})
	case errors.Is(err, domain.ErrMovementVoid):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_VOID", Message: "el movimiento ya está anulado"})
	case errors.Is(err, domain.ErrSaleOriginated):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SALE_ORIGINATED", Message: "anular la venta que originó el movimiento"})
	case errors.Is(err, domain.ErrCompensationFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "COMPENSATION_FAILED", Message: "estado inconsistente: requiere conciliación manual"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
