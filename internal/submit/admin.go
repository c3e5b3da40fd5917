package submit

import (
	"context"
	"fmt"

	"github.com/clinicaandina/postulaciones/internal/models"
	"github.com/clinicaandina/postulaciones/internal/supa"
)

// ActualizarEstado moves a postulación to one of the allowed estados.
func (w *Writer) ActualizarEstado(ctx context.Context, postulacionID int64, estado string) error {
	if !models.EstadoValido(estado) {
		return fmt.Errorf("estado inválido: %q", estado)
	}
	if w.store == nil {
		return nil
	}
	return w.retryStaleSchema(adminRetryDelay, func() error {
		return w.store.Update(ctx, "postulaciones", supa.Row{"estado": estado}, supa.Eq("id", postulacionID))
	})
}

// Calificar sets the 1..10 rating on a postulación.
func (w *Writer) Calificar(ctx context.Context, postulacionID int64, calificacion int) error {
	if calificacion < 1 || calificacion > 10 {
		return fmt.Errorf("calificación fuera de rango (1..10): %d", calificacion)
	}
	if w.store == nil {
		return nil
	}
	return w.retryStaleSchema(adminRetryDelay, func() error {
		return w.store.Update(ctx, "postulaciones", supa.Row{"calificacion": calificacion}, supa.Eq("id", postulacionID))
	})
}

// EliminarCandidato removes an applicant record; the store cascades the
// delete over its postulaciones.
func (w *Writer) EliminarCandidato(ctx context.Context, candidatoID string) error {
	if w.store == nil {
		return nil
	}
	return w.store.Delete(ctx, "candidatos", supa.Eq("id", candidatoID))
}

// ListarCandidatos returns the applicant records, newest first.
func (w *Writer) ListarCandidatos(ctx context.Context) ([]models.Candidato, error) {
	if w.store == nil {
		return nil, nil
	}
	rows, err := w.store.Select(ctx, "candidatos", "*", supa.Order("created_at", true))
	if err != nil {
		return nil, err
	}
	var out []models.Candidato
	if err := supa.DecodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}
