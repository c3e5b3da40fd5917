package handlers

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicaandina/postulaciones/internal/cv"
	"github.com/clinicaandina/postulaciones/internal/submit"
)

// camposRequeridos are the form fields that must be present; "0" counts as
// present (age, boolean selects).
var camposRequeridos = []string{
	"nombre_apellido",
	"dni",
	"edad",
	"localidad",
	"disponibilidad",
	"area_preferencia",
	"celular",
	"mail",
	"licencia_conducir",
	"movilidad_propia",
	"familiar_en_clinica",
	"fuente_postulacion",
}

// Postular receives the multipart submission form, validates it, gates it on
// the challenge result, and hands it to the reconciliation pipeline.
func (s *Server) Postular(c *gin.Context) {
	ctx := c.Request.Context()

	var faltantes []string
	for _, campo := range camposRequeridos {
		if c.PostForm(campo) == "" {
			faltantes = append(faltantes, campo)
		}
	}
	dni := strings.TrimSpace(c.PostForm("dni"))
	if !soloDigitos(dni) && !slices.Contains(faltantes, "dni") {
		faltantes = append(faltantes, "dni")
	}
	fileHeader, err := c.FormFile("cv")
	if err != nil || fileHeader.Filename == "" {
		faltantes = append(faltantes, "cv")
	}
	if len(faltantes) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":     false,
			"error":  "Completá todos los campos.",
			"campos": faltantes,
		})
		return
	}

	if s.Verificar != nil {
		token := c.PostForm("cf-turnstile-response")
		if !s.Verificar(ctx, token, c.ClientIP()) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Prueba fallida, intentá de nuevo."})
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "No se pudo leer el CV"})
		return
	}
	defer file.Close()
	if err := cv.ValidatePDF(file); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	edad, _ := strconv.Atoi(strings.TrimSpace(c.PostForm("edad")))

	result := s.Processor.Process(ctx, submit.Submission{
		NombreApellido:    c.PostForm("nombre_apellido"),
		DNI:               dni,
		Edad:              edad,
		Localidad:         c.PostForm("localidad"),
		Disponibilidad:    c.PostForm("disponibilidad"),
		AreaPreferencia:   c.PostForm("area_preferencia"),
		Celular:           c.PostForm("celular"),
		Mail:              c.PostForm("mail"),
		LicenciaConducir:  normalizarCheckbox(c.PostForm("licencia_conducir")),
		MovilidadPropia:   normalizarCheckbox(c.PostForm("movilidad_propia")),
		FamiliarEnClinica: normalizarCheckbox(c.PostForm("familiar_en_clinica")),
		FuentePostulacion: c.PostForm("fuente_postulacion"),
		VacanteID:         c.PostForm("vacante_id"),
		CV:                file,
	})

	c.JSON(http.StatusOK, result)
}

func normalizarCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "si", "sí", "true", "1", "on", "yes":
		return true
	}
	return false
}

func soloDigitos(s string) bool {
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
