package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = "id, product_id, kind, quantity, reason, occurred_on, recorded_at, actor_id, note, status, voided_at, voided_by, void_reason"

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento del kardex.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Kind, m.Quantity, m.Reason, m.OccurredOn, m.RecordedAt,
		nullable(m.ActorID), m.Note, m.Status, m.VoidedAt, nullable(m.VoidedBy), m.VoidReason,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil sin error si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Update persiste los campos mutables del movimiento (recorded_at nunca cambia).
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE movements
		SET product_id = $2, kind = $3, quantity = $4, note = $5, status = $6,
		    voided_at = $7, voided_by = $8, void_reason = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Kind, m.Quantity, m.Note, m.Status,
		m.VoidedAt, nullable(m.VoidedBy), m.VoidReason,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

// Delete elimina un movimiento. Solo lo usa el motor como acción compensatoria.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

// List lista movimientos según el filtro, en orden occurred_on DESC, recorded_at DESC.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, f.Kind)
		pos++
	}
	if f.Reason != "" {
		query += fmt.Sprintf(" AND reason = $%d", pos)
		args = append(args, f.Reason)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND occurred_on >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND occurred_on <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY occurred_on DESC, recorded_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	list := []*entity.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var actorID, voidedBy *string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Kind, &m.Quantity, &m.Reason, &m.OccurredOn,
		&m.RecordedAt, &actorID, &m.Note, &m.Status, &m.VoidedAt, &voidedBy, &m.VoidReason,
	)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		m.ActorID = *actorID
	}
	if voidedBy != nil {
		m.VoidedBy = *voidedBy
	}
	return &m, nil
}

// nullable convierte "" en NULL para columnas de referencia opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
