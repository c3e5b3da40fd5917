package catalog

import (
	"context"
	"strings"

	"github.com/clinicaandina/postulaciones/internal/supa"
)

// Area is a resolved work-area classification. A zero ID is legal: name-only
// is a valid terminal state, and an unresolved token comes back verbatim as
// the name.
type Area struct {
	Nombre string `json:"nombre"`
	ID     Ident  `json:"id,omitzero"`
}

// Resolver turns a raw form token (numeric id, UUID, or free text) into an
// Area. It never fails: each lookup in the chain is individually
// fault-tolerant and the worst case echoes the token back as the name.
type Resolver struct {
	store   supa.Querier
	catalog *Catalog
}

func NewResolver(store supa.Querier, cat *Catalog) *Resolver {
	return &Resolver{store: store, catalog: cat}
}

// lookup is one strategy in a resolution chain.
type lookup func(ctx context.Context) (Area, bool)

// firstMatch runs the strategies in order and returns the first hit.
func firstMatch(ctx context.Context, steps ...lookup) (Area, bool) {
	for _, step := range steps {
		if area, ok := step(ctx); ok {
			return area, true
		}
	}
	return Area{}, false
}

// looksLikeID reports whether the token reads as a surrogate id: all decimal
// digits, or UUID-shaped (length 32/36, hyphenated or alphanumeric). This is
// a loose heuristic, not strict UUID validation.
func looksLikeID(s string) bool {
	if isDigits(s) {
		return true
	}
	s = strings.ToLower(s)
	if len(s) != 32 && len(s) != 36 {
		return false
	}
	return strings.Contains(s, "-") || isAlnum(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		default:
			return false
		}
	}
	return true
}

// Resolve maps a form token to its canonical area. Id-shaped tokens try the
// areas_preferencia table, then areas, then the local catalog; free text
// tries exact remote name matches and then the local catalog (exact, then
// case-insensitive). Unresolved tokens are accepted verbatim, never rejected.
func (r *Resolver) Resolve(ctx context.Context, token string) Area {
	token = strings.TrimSpace(token)
	if token == "" {
		return Area{}
	}

	if looksLikeID(token) {
		id := ParseIdent(token)
		if area, ok := firstMatch(ctx,
			r.remoteByID("areas_preferencia", id),
			r.remoteByID("areas", id),
			r.localByID(id),
		); ok {
			return area
		}
		if id.IsNum() {
			return Area{Nombre: token, ID: id}
		}
		return Area{Nombre: token}
	}

	if area, ok := firstMatch(ctx,
		r.remoteByName("areas_preferencia", token),
		r.remoteByName("areas", token),
		r.localByName(token),
	); ok {
		return area
	}
	return Area{Nombre: token}
}

func (r *Resolver) remoteByID(table string, id Ident) lookup {
	return func(ctx context.Context) (Area, bool) {
		if r.store == nil {
			return Area{}, false
		}
		row, err := r.store.SelectSingle(ctx, table, "id,nombre", supa.Eq("id", id.Value()))
		if err != nil {
			return Area{}, false
		}
		nombre, _ := row["nombre"].(string)
		if nombre == "" {
			return Area{}, false
		}
		return Area{Nombre: nombre, ID: identFromJSON(row["id"])}, true
	}
}

func (r *Resolver) remoteByName(table, nombre string) lookup {
	return func(ctx context.Context) (Area, bool) {
		if r.store == nil {
			return Area{}, false
		}
		row, err := r.store.SelectSingle(ctx, table, "id,nombre", supa.Eq("nombre", nombre))
		if err != nil {
			return Area{}, false
		}
		if row["id"] == nil {
			return Area{}, false
		}
		return Area{Nombre: nombre, ID: identFromJSON(row["id"])}, true
	}
}

func (r *Resolver) localByID(id Ident) lookup {
	return func(ctx context.Context) (Area, bool) {
		// The fallback catalog only carries numeric ids.
		if !id.IsNum() {
			return Area{}, false
		}
		_, areaMap := r.catalog.Load(ctx)
		nombre := areaMap[id]
		if nombre == "" {
			return Area{}, false
		}
		return Area{Nombre: nombre, ID: id}, true
	}
}

func (r *Resolver) localByName(nombre string) lookup {
	return func(ctx context.Context) (Area, bool) {
		_, areaMap := r.catalog.Load(ctx)
		for id, candidato := range areaMap {
			if candidato == nombre {
				if id.IsNum() {
					return Area{Nombre: nombre, ID: id}, true
				}
				return Area{Nombre: nombre}, true
			}
		}
		for id, candidato := range areaMap {
			if strings.EqualFold(candidato, nombre) {
				if id.IsNum() {
					return Area{Nombre: nombre, ID: id}, true
				}
				return Area{Nombre: nombre}, true
			}
		}
		return Area{}, false
	}
}
