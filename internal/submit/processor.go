package submit

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/clinicaandina/postulaciones/internal/catalog"
	"github.com/clinicaandina/postulaciones/internal/cv"
	"github.com/clinicaandina/postulaciones/internal/supa"
)

// MensajeEsquemaActualizado is shown when the store kept rejecting a write
// with a stale schema cache after the bounded retry.
const MensajeEsquemaActualizado = "Se actualizó el esquema. Probá nuevamente."

// Submission carries the already validated form fields plus the CV handle.
type Submission struct {
	NombreApellido    string
	DNI               string
	Edad              int
	Localidad         string
	Disponibilidad    string
	AreaPreferencia   string // raw token: numeric id, UUID, or free text
	Celular           string
	Mail              string
	LicenciaConducir  bool
	MovilidadPropia   bool
	FamiliarEnClinica bool
	FuentePostulacion string
	VacanteID         string
	CV                io.ReadSeeker
}

// Result is the final outcome reported to the HTTP layer. A degraded
// local-mode submission is OK with ModoLocal set; only hard failures carry a
// Mensaje.
type Result struct {
	OK          bool   `json:"ok"`
	Mensaje     string `json:"error,omitempty"`
	CandidatoID string `json:"candidato_id,omitempty"`
	CVURL       string `json:"cv_url,omitempty"`
	ModoLocal   bool   `json:"modo_local,omitempty"`
}

// Processor runs the submission reconciliation pipeline: attachment upload,
// area resolution, candidato upsert, postulación insert.
type Processor struct {
	resolver *catalog.Resolver
	cvs      *cv.Store
	writer   *Writer
	log      *logrus.Logger
}

func NewProcessor(resolver *catalog.Resolver, cvs *cv.Store, writer *Writer, log *logrus.Logger) *Processor {
	return &Processor{resolver: resolver, cvs: cvs, writer: writer, log: log}
}

func (p *Processor) Process(ctx context.Context, s Submission) Result {
	dni := strings.TrimSpace(s.DNI)

	cvURL, err := p.cvs.Save(ctx, dni, s.CV)
	if err != nil {
		return Result{Mensaje: "Error subiendo CV: " + err.Error()}
	}

	area := p.resolver.Resolve(ctx, s.AreaPreferencia)

	data := supa.Row{
		"nombre_apellido":     strings.TrimSpace(s.NombreApellido),
		"dni":                 dni,
		"edad":                s.Edad,
		"area_preferencia":    area.Nombre,
		"licencia_conducir":   s.LicenciaConducir,
		"movilidad_propia":    s.MovilidadPropia,
		"disponibilidad":      strings.TrimSpace(s.Disponibilidad),
		"celular":             strings.TrimSpace(s.Celular),
		"mail":                strings.TrimSpace(s.Mail),
		"localidad":           strings.TrimSpace(s.Localidad),
		"cv_url":              cvURL,
		"familiar_en_clinica": s.FamiliarEnClinica,
	}
	if fuente := strings.TrimSpace(s.FuentePostulacion); fuente != "" {
		data["fuente_postulacion"] = fuente
	}

	candidatoID, err := p.writer.InsertCandidato(ctx, data)
	modoLocal := false
	if err != nil {
		switch supa.Classify(err) {
		case supa.KindNetworkUnreachable:
			// Store unreachable: the submission keeps going without a
			// remote record rather than blocking the applicant.
			p.log.WithError(err).WithField("dni", dni).Warn("almacén inalcanzable, se sigue en modo local")
			candidatoID = ""
			modoLocal = true
		case supa.KindSchemaCacheStale:
			return Result{Mensaje: MensajeEsquemaActualizado, CVURL: cvURL}
		default:
			return Result{Mensaje: err.Error(), CVURL: cvURL}
		}
	}

	if err := p.writer.InsertPostulacion(ctx, candidatoID, strings.TrimSpace(s.VacanteID)); err != nil {
		switch supa.Classify(err) {
		case supa.KindNetworkUnreachable:
			p.log.WithError(err).WithField("dni", dni).Warn("almacén inalcanzable al registrar la postulación")
			return Result{OK: true, CandidatoID: candidatoID, CVURL: cvURL, ModoLocal: true}
		case supa.KindSchemaCacheStale:
			return Result{Mensaje: MensajeEsquemaActualizado, CVURL: cvURL}
		default:
			return Result{Mensaje: err.Error(), CVURL: cvURL}
		}
	}

	return Result{OK: true, CandidatoID: candidatoID, CVURL: cvURL, ModoLocal: modoLocal}
}
