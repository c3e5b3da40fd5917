package vacante

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinicaandina/postulaciones/internal/catalog"
	"github.com/clinicaandina/postulaciones/internal/models"
	"github.com/clinicaandina/postulaciones/internal/supa"
)

const retryDelay = 500 * time.Millisecond

var ErrNoEncontrada = errors.New("vacante no encontrada")

// VacanteView is a vacante enriched with the catalog name of its area, for
// rows whose area column still holds a surrogate id instead of a name.
type VacanteView struct {
	models.Vacante
	AreaNombre string `json:"area_nombre,omitempty"`
}

// Service covers the public vacante listings and the admin mutations. All
// mutations share the bounded stale-schema retry of the submission writer.
type Service struct {
	store    supa.Store
	catalog  *catalog.Catalog
	resolver *catalog.Resolver
	log      *logrus.Logger
	sleep    func(time.Duration)
}

func NewService(store supa.Store, cat *catalog.Catalog, resolver *catalog.Resolver, log *logrus.Logger) *Service {
	return &Service{store: store, catalog: cat, resolver: resolver, log: log, sleep: time.Sleep}
}

// Abiertas lists the open vacantes shown on the landing page.
func (s *Service) Abiertas(ctx context.Context) ([]VacanteView, error) {
	if s.store == nil {
		return nil, nil
	}
	rows, err := s.store.Select(ctx, "vacantes", "id,titulo,area,descripcion,estado",
		supa.Eq("estado", models.VacanteAbierta))
	if err != nil {
		return nil, err
	}
	var vs []models.Vacante
	if err := supa.DecodeRows(rows, &vs); err != nil {
		return nil, err
	}
	return s.enrich(ctx, vs), nil
}

func (s *Service) Detalle(ctx context.Context, id int64) (*VacanteView, error) {
	if s.store == nil {
		return nil, ErrNoEncontrada
	}
	row, err := s.store.SelectSingle(ctx, "vacantes", "*", supa.Eq("id", id))
	if err != nil {
		return nil, ErrNoEncontrada
	}
	var v models.Vacante
	if err := supa.DecodeRows(row, &v); err != nil {
		return nil, err
	}
	views := s.enrich(ctx, []models.Vacante{v})
	return &views[0], nil
}

func (s *Service) enrich(ctx context.Context, vs []models.Vacante) []VacanteView {
	_, areaMap := s.catalog.Load(ctx)
	out := make([]VacanteView, 0, len(vs))
	for _, v := range vs {
		view := VacanteView{Vacante: v}
		for id, nombre := range areaMap {
			if id.String() == v.Area {
				view.AreaNombre = nombre
				break
			}
		}
		out = append(out, view)
	}
	return out
}

// Crear registers a vacante, resolving the raw area token to its canonical
// name first. In local mode the save is skipped.
func (s *Service) Crear(ctx context.Context, titulo, areaToken, descripcion, estado string) error {
	area := s.resolver.Resolve(ctx, areaToken)
	if estado == "" {
		estado = models.VacanteAbierta
	}
	if titulo == "" || area.Nombre == "" || descripcion == "" {
		return fmt.Errorf("faltan campos de la vacante")
	}
	if s.store == nil {
		s.log.Warn("modo local: se omitió el guardado de la vacante")
		return nil
	}
	payload := supa.Row{
		"titulo":      titulo,
		"area":        area.Nombre,
		"descripcion": descripcion,
		"estado":      estado,
	}
	return supa.RetryStaleSchema(retryDelay, s.sleep, func() error {
		_, err := s.store.Insert(ctx, "vacantes", payload)
		return err
	})
}

func (s *Service) Cerrar(ctx context.Context, id int64) error {
	if s.store == nil {
		return nil
	}
	return supa.RetryStaleSchema(retryDelay, s.sleep, func() error {
		return s.store.Update(ctx, "vacantes", supa.Row{"estado": models.VacanteCerrada}, supa.Eq("id", id))
	})
}

func (s *Service) Eliminar(ctx context.Context, id int64) error {
	if s.store == nil {
		return nil
	}
	return s.store.Delete(ctx, "vacantes", supa.Eq("id", id))
}
