package submit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinicaandina/postulaciones/internal/models"
	"github.com/clinicaandina/postulaciones/internal/supa"
)

const (
	// Stale-schema errors are rejected before anything is written, so one
	// short fixed delay and a single extra attempt is enough.
	retryDelay      = 500 * time.Millisecond
	adminRetryDelay = 600 * time.Millisecond
)

// Writer performs the idempotent applicant upsert and the dependent
// postulación insert. A nil store turns every write into a local-mode no-op.
type Writer struct {
	store supa.Store
	log   *logrus.Logger
	sleep func(time.Duration)
}

func NewWriter(store supa.Store, log *logrus.Logger) *Writer {
	return &Writer{store: store, log: log, sleep: time.Sleep}
}

// retryStaleSchema runs fn, retrying exactly once after delay when fn failed
// with a stale-schema error. Any other failure is returned as is.
func (w *Writer) retryStaleSchema(delay time.Duration, fn func() error) error {
	err := fn()
	if err != nil && supa.IsSchemaCacheStale(err) {
		w.log.WithError(err).Warn("schema cache desactualizado, se reintenta una vez")
		w.sleep(delay)
		err = fn()
	}
	return err
}

// InsertCandidato deletes any previous row with the same dni (best effort)
// and inserts the new record, returning the store-generated id. The
// delete-then-insert pair is not transactional; a crash in between leaves no
// live row, which the next submission repairs.
func (w *Writer) InsertCandidato(ctx context.Context, data supa.Row) (string, error) {
	if w.store == nil {
		return "", nil
	}
	if dni, _ := data["dni"].(string); dni != "" {
		if err := w.store.Delete(ctx, "candidatos", supa.Eq("dni", dni)); err != nil {
			w.log.WithError(err).WithField("dni", dni).Warn("no se pudo borrar el candidato previo")
		}
	}
	var id string
	err := w.retryStaleSchema(retryDelay, func() error {
		rows, err := w.store.Insert(ctx, "candidatos", data)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return &supa.Error{Message: "no se pudo insertar el candidato"}
		}
		id = rowID(rows[0])
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// InsertPostulacion records the application for an already inserted
// candidato. With no store or no candidato id (local-mode degradation) it
// succeeds without writing.
func (w *Writer) InsertPostulacion(ctx context.Context, candidatoID, vacanteID string) error {
	if w.store == nil || candidatoID == "" {
		return nil
	}
	payload := supa.Row{
		"candidato_id": candidatoID,
		"estado":       models.EstadoInicial,
		"tipo":         models.TipoGeneral,
	}
	if vacanteID != "" {
		payload["tipo"] = models.TipoVacante
		if n, err := strconv.ParseInt(vacanteID, 10, 64); err == nil {
			payload["vacante_id"] = n
		} else {
			payload["vacante_id"] = vacanteID
		}
	}
	return w.retryStaleSchema(retryDelay, func() error {
		rows, err := w.store.Insert(ctx, "postulaciones", payload)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return &supa.Error{Message: "no se pudo registrar la postulación"}
		}
		return nil
	})
}

func rowID(row supa.Row) string {
	switch v := row["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
