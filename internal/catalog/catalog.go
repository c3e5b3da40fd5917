package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/clinicaandina/postulaciones/internal/supa"
)

// Departamentos de Mendoza, used when the reference tables are unreachable.
var fallbackLocalidades = []string{
	"Capital",
	"Godoy Cruz",
	"Guaymallén",
	"Las Heras",
	"Maipú",
	"Luján de Cuyo",
	"Lavalle",
	"San Martín",
	"Rivadavia",
	"Junín",
	"Santa Rosa",
	"La Paz",
	"Tunuyán",
	"Tupungato",
	"San Carlos",
	"San Rafael",
	"General Alvear",
	"Malargüe",
}

var fallbackAreas = []string{
	"Recepción",
	"Administración",
	"Cocina",
	"Mecánica",
}

var fallbackAreasPreferencia = []string{
	"Administración",
	"Recepción",
	"Enfermería",
	"Mantenimiento",
	"Limpieza",
	"Recursos Humanos",
	"Farmacia",
}

// Disponibilidades is the fixed availability enumeration offered on the form.
var Disponibilidades = []string{"Full time", "Part time", "Fines de semana"}

// Ref is a catalog entry exposed to the form endpoints.
type Ref struct {
	ID     Ident  `json:"id"`
	Nombre string `json:"nombre"`
}

// Catalog loads the locality and area reference tables. It never returns an
// error: any remote failure degrades to the static fallback lists.
type Catalog struct {
	store supa.Querier
	log   *logrus.Logger
}

// New builds a Catalog. A nil store skips the remote tables entirely.
func New(store supa.Querier, log *logrus.Logger) *Catalog {
	return &Catalog{store: store, log: log}
}

// Load returns (localities, areas), each keyed by row id. Failed reads leave
// the map empty; an empty map is replaced wholesale by the fallback list with
// ids assigned sequentially from 1.
func (c *Catalog) Load(ctx context.Context) (map[Ident]string, map[Ident]string) {
	locs := make(map[Ident]string)
	areas := make(map[Ident]string)
	if c.store != nil {
		c.fill(ctx, "localidades", locs)
		c.fill(ctx, "areas", areas)
	}
	if len(locs) == 0 {
		for i, nombre := range fallbackLocalidades {
			locs[NumID(int64(i+1))] = nombre
		}
	}
	if len(areas) == 0 {
		for i, nombre := range fallbackAreas {
			areas[NumID(int64(i+1))] = nombre
		}
	}
	return locs, areas
}

func (c *Catalog) fill(ctx context.Context, table string, dst map[Ident]string) {
	rows, err := c.store.Select(ctx, table, "id,nombre")
	if err != nil {
		c.log.WithError(err).WithField("tabla", table).Debug("lectura de catálogo falló, se usa el fallback")
		return
	}
	for _, row := range rows {
		nombre, _ := row["nombre"].(string)
		if nombre == "" {
			continue
		}
		dst[identFromJSON(row["id"])] = nombre
	}
}

// AreasCatalogo returns the area catalog as id/nombre pairs, preferring the
// areas_preferencia table, then areas, then the local catalog.
func (c *Catalog) AreasCatalogo(ctx context.Context) []Ref {
	if c.store != nil {
		for _, table := range []string{"areas_preferencia", "areas"} {
			rows, err := c.store.Select(ctx, table, "id,nombre", supa.Order("nombre", false))
			if err != nil {
				c.log.WithError(err).WithField("tabla", table).Debug("lectura de áreas falló")
				continue
			}
			var out []Ref
			for _, row := range rows {
				nombre, _ := row["nombre"].(string)
				if nombre == "" {
					continue
				}
				out = append(out, Ref{ID: identFromJSON(row["id"]), Nombre: nombre})
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	_, areaMap := c.Load(ctx)
	out := make([]Ref, 0, len(areaMap))
	for id, nombre := range areaMap {
		out = append(out, Ref{ID: id, Nombre: nombre})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Nombre) < strings.ToLower(out[j].Nombre)
	})
	return out
}

// AreasPreferencia merges the names of both area tables with the static
// preference list and returns them sorted. Used to populate filter options.
func (c *Catalog) AreasPreferencia(ctx context.Context) []string {
	nombres := make(map[string]struct{})
	if c.store != nil {
		for _, table := range []string{"areas", "areas_preferencia"} {
			rows, err := c.store.Select(ctx, table, "nombre", supa.Order("nombre", false))
			if err != nil {
				continue
			}
			for _, row := range rows {
				if nombre, _ := row["nombre"].(string); nombre != "" {
					nombres[nombre] = struct{}{}
				}
			}
		}
	}
	if len(nombres) == 0 {
		_, areaMap := c.Load(ctx)
		for _, nombre := range areaMap {
			nombres[nombre] = struct{}{}
		}
	}
	if c.store == nil {
		// Local mode merges the static list in; a reachable store is
		// authoritative even when both tables are empty.
		for _, nombre := range fallbackAreasPreferencia {
			nombres[nombre] = struct{}{}
		}
	}
	out := make([]string, 0, len(nombres))
	for nombre := range nombres {
		out = append(out, nombre)
	}
	sort.Strings(out)
	return out
}
