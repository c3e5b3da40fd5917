package models

import (
	"time"

	"github.com/google/uuid"
)

// Estados that a postulación can move through after intake. The store writes
// the pre-enumeration "recibido" on creation.
const (
	EstadoInicial = "recibido"

	EstadoRecibido        = "Recibido"
	EstadoPreseleccionado = "Preseleccionado"
	EstadoEntrevista      = "Entrevista"
	EstadoIngresado       = "Ingresado"
	EstadoRechazado       = "Rechazado"
)

// EstadoValido reports whether estado belongs to the admin enumeration.
func EstadoValido(estado string) bool {
	switch estado {
	case EstadoRecibido, EstadoPreseleccionado, EstadoEntrevista, EstadoIngresado, EstadoRechazado:
		return true
	}
	return false
}

const (
	TipoVacante = "vacante"
	TipoGeneral = "general"
)

const (
	VacanteAbierta = "abierta"
	VacanteCerrada = "cerrada"
)

// Candidato is an applicant record. The dni is the natural key: the store
// never holds two live rows for the same dni (delete-then-insert on
// resubmission). created_at is assigned by the store and is never sent on
// insert.
type Candidato struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id,omitzero"`
	NombreApellido    string    `gorm:"type:varchar(255);not null" json:"nombre_apellido"`
	DNI               string    `gorm:"column:dni;type:varchar(16);index;not null" json:"dni"`
	Edad              int       `json:"edad"`
	AreaPreferencia   string    `gorm:"type:varchar(255)" json:"area_preferencia"`
	LicenciaConducir  bool      `json:"licencia_conducir"`
	MovilidadPropia   bool      `json:"movilidad_propia"`
	Disponibilidad    string    `gorm:"type:varchar(64)" json:"disponibilidad"`
	Celular           string    `gorm:"type:varchar(64)" json:"celular"`
	Mail              string    `gorm:"type:varchar(255)" json:"mail"`
	Localidad         string    `gorm:"type:varchar(255)" json:"localidad"`
	CVURL             string    `gorm:"column:cv_url;type:text" json:"cv_url"`
	FamiliarEnClinica bool      `json:"familiar_en_clinica"`
	FuentePostulacion *string   `gorm:"type:text" json:"fuente_postulacion,omitempty"`
	CreatedAt         time.Time `gorm:"default:now()" json:"created_at,omitzero"`
}

func (Candidato) TableName() string { return "candidatos" }

// Postulacion links a candidato to an optional vacante. EntrevistadoPor,
// Observaciones and Calificacion are filled in later by admin actions.
type Postulacion struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id,omitzero"`
	CandidatoID     uuid.UUID `gorm:"type:uuid;not null;index" json:"candidato_id"`
	VacanteID       *int64    `gorm:"index" json:"vacante_id,omitempty"`
	Estado          string    `gorm:"type:varchar(32);default:'recibido'" json:"estado"`
	Tipo            string    `gorm:"type:varchar(16)" json:"tipo"`
	EntrevistadoPor *string   `gorm:"type:varchar(255)" json:"entrevistado_por,omitempty"`
	Observaciones   *string   `gorm:"type:text" json:"observaciones,omitempty"`
	Calificacion    *int      `json:"calificacion,omitempty"`
	CreatedAt       time.Time `gorm:"default:now()" json:"created_at,omitzero"`
}

func (Postulacion) TableName() string { return "postulaciones" }

type Vacante struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id,omitzero"`
	Titulo      string    `gorm:"type:varchar(255);not null" json:"titulo"`
	Area        string    `gorm:"type:varchar(255)" json:"area"`
	Descripcion string    `gorm:"type:text" json:"descripcion"`
	Estado      string    `gorm:"type:varchar(16);default:'abierta'" json:"estado"`
	CreatedAt   time.Time `gorm:"default:now()" json:"created_at,omitzero"`
}

func (Vacante) TableName() string { return "vacantes" }

type Localidad struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre string `gorm:"type:varchar(255);not null" json:"nombre"`
}

func (Localidad) TableName() string { return "localidades" }

type Area struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre string `gorm:"type:varchar(255);not null" json:"nombre"`
}

func (Area) TableName() string { return "areas" }

type AreaPreferencia struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nombre string    `gorm:"type:varchar(255);not null" json:"nombre"`
}

func (AreaPreferencia) TableName() string { return "areas_preferencia" }
