package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// UserRepository define el puerto de lectura de usuarios (enriquecimiento).
type UserRepository interface {
	// GetByID devuelve nil sin error si el usuario no existe.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetNamesByIDs resuelve nombres en lote. IDs inexistentes no aparecen en el mapa.
	GetNamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}
