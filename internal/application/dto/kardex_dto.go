package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// CreateMovementRequest body para POST /api/kardex/movements.
type CreateMovementRequest struct {
	ProductID  string          `json:"product_id" validate:"required"`
	Kind       string          `json:"kind" validate:"required,oneof=ENTRY EXIT"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reason     string          `json:"reason" validate:"required,oneof=SALE ADJUSTMENT PURCHASE RETURN"`
	OccurredOn string          `json:"occurred_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note       string          `json:"note,omitempty"`
}

// AmendMovementRequest body para PATCH /api/kardex/movements/:id.
// Campos ausentes se conservan.
type AmendMovementRequest struct {
	ProductID *string          `json:"product_id,omitempty"`
	Kind      *string          `json:"kind,omitempty" validate:"omitempty,oneof=ENTRY EXIT"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	Note      *string          `json:"note,omitempty"`
}

// VoidMovementRequest body para POST /api/kardex/movements/:id/void.
type VoidMovementRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ListMovementsQuery filtros para GET /api/kardex/movements.
type ListMovementsQuery struct {
	PageRequest
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	ProductID string `query:"product_id"`
	Kind      string `query:"kind" validate:"omitempty,oneof=ENTRY EXIT"`
	Reason    string `query:"reason" validate:"omitempty,oneof=SALE ADJUSTMENT PURCHASE RETURN"`
}

// MovementResponse representación HTTP de un movimiento enriquecido.
type MovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductSKU   string          `json:"product_sku,omitempty"`
	ProductName  string          `json:"product_name,omitempty"`
	Kind         string          `json:"kind"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	OccurredOn   string          `json:"occurred_on"`
	RecordedAt   time.Time       `json:"recorded_at"`
	ActorID      string          `json:"actor_id,omitempty"`
	ActorName    string          `json:"actor_name,omitempty"`
	Note         string          `json:"note,omitempty"`
	Status       string          `json:"status"`
	VoidedAt     *time.Time      `json:"voided_at,omitempty"`
	VoidedBy     string          `json:"voided_by,omitempty"`
	VoidedByName string          `json:"voided_by_name,omitempty"`
	VoidReason   string          `json:"void_reason,omitempty"`
}

// NewMovementResponse mapea la vista del motor a la representación HTTP.
func NewMovementResponse(v *kardex.MovementView) MovementResponse {
	return MovementResponse{
		ID:           v.ID,
		ProductID:    v.ProductID,
		ProductSKU:   v.ProductSKU,
		ProductName:  v.ProductName,
		Kind:         v.Kind,
		Quantity:     v.Quantity,
		Reason:       v.Reason,
		OccurredOn:   v.OccurredOn.Format("2006-01-02"),
		RecordedAt:   v.RecordedAt,
		ActorID:      v.ActorID,
		ActorName:    v.ActorName,
		Note:         v.Note,
		Status:       v.Status,
		VoidedAt:     v.VoidedAt,
		VoidedBy:     v.VoidedBy,
		VoidedByName: v.VoidedByName,
		VoidReason:   v.VoidReason,
	}
}

// NewMovementListResponse mapea un listado completo.
func NewMovementListResponse(views []*kardex.MovementView) []MovementResponse {
	out := make([]MovementResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewMovementResponse(v))
	}
	return out
}
