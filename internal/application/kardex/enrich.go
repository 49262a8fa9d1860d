package kardex

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementView movimiento enriquecido con datos de presentación. Los campos de
// enriquecimiento quedan vacíos cuando la referencia no existe: el listado
// nunca falla por un producto o usuario borrado.
type MovementView struct {
	entity.Movement
	ProductSKU   string
	ProductName  string
	ActorName    string
	VoidedByName string
}

// enrich resuelve nombres de producto y de actor en lote: una consulta por
// conjunto de IDs distintos, nunca una por fila. Las dos consultas corren en
// paralelo. El enriquecimiento es de solo lectura y no crítico: si una
// consulta falla se registra y los campos quedan vacíos.
func (uc *LedgerUseCase) enrich(ctx context.Context, movements []*entity.Movement) ([]*MovementView, error) {
	productIDs := make(map[string]struct{})
	userIDs := make(map[string]struct{})
	for _, m := range movements {
		productIDs[m.ProductID] = struct{}{}
		if m.ActorID != "" {
			userIDs[m.ActorID] = struct{}{}
		}
		if m.VoidedBy != "" {
			userIDs[m.VoidedBy] = struct{}{}
		}
	}

	var (
		refs  map[string]entity.ProductRef
		names map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	if len(productIDs) > 0 {
		g.Go(func() error {
			var err error
			refs, err = uc.products.GetRefsByIDs(gctx, keys(productIDs))
			return err
		})
	}
	if len(userIDs) > 0 {
		g.Go(func() error {
			var err error
			names, err = uc.users.GetNamesByIDs(gctx, keys(userIDs))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		uc.log.Warn().Err(err).Msg("enriquecimiento de movimientos incompleto")
	}

	views := make([]*MovementView, 0, len(movements))
	for _, m := range movements {
		v := &MovementView{Movement: *m}
		if ref, ok := refs[m.ProductID]; ok {
			v.ProductSKU = ref.SKU
			v.ProductName = ref.Name
		}
		v.ActorName = names[m.ActorID]
		v.VoidedByName = names[m.VoidedBy]
		views = append(views, v)
	}
	return views, nil
}

func (uc *LedgerUseCase) enrichOne(ctx context.Context, mov *entity.Movement) (*MovementView, error) {
	views, err := uc.enrich(ctx, []*entity.Movement{mov})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
