package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinicaandina/postulaciones/internal/catalog"
	"github.com/clinicaandina/postulaciones/internal/config"
	"github.com/clinicaandina/postulaciones/internal/cv"
	"github.com/clinicaandina/postulaciones/internal/submit"
	"github.com/clinicaandina/postulaciones/internal/vacante"
)

var log = logrus.New()

// ChallengeVerifier reports whether the anti-bot challenge passed. The
// verification call itself lives outside this service; local setups inject
// an always-true verifier.
type ChallengeVerifier func(ctx context.Context, token, remoteIP string) bool

type Server struct {
	Cfg       *config.Config
	Catalog   *catalog.Catalog
	Resolver  *catalog.Resolver
	Processor *submit.Processor
	Writer    *submit.Writer
	Vacantes  *vacante.Service
	Verificar ChallengeVerifier
}

func Setup(r *gin.Engine, s *Server) {
	r.GET("/health", HealthCheck)
	r.GET("/", s.Home)
	r.GET("/vacantes/:id", s.VacanteDetalle)
	r.GET("/postular", s.OpcionesPostulacion)
	r.POST("/postular", s.Postular)
	r.GET("/uploads/:filename", s.Uploaded)

	admin := r.Group("/admin", gin.BasicAuth(gin.Accounts{s.Cfg.AdminUser: s.Cfg.AdminPass}))
	admin.GET("/candidatos", s.AdminCandidatos)
	admin.POST("/vacantes", s.AdminCrearVacante)
	admin.POST("/vacantes/:id/cerrar", s.AdminCerrarVacante)
	admin.DELETE("/vacantes/:id", s.AdminEliminarVacante)
	admin.POST("/postulaciones/:id/estado", s.AdminEstado)
	admin.POST("/postulaciones/:id/calificar", s.AdminCalificar)
	admin.DELETE("/candidatos/:id", s.AdminEliminarCandidato)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Home(c *gin.Context) {
	vacantes, err := s.Vacantes.Abiertas(c.Request.Context())
	if err != nil {
		log.WithError(err).Warn("no se pudieron listar las vacantes")
		vacantes = nil
	}
	c.JSON(http.StatusOK, gin.H{"vacantes": vacantes})
}

func (s *Server) VacanteDetalle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	v, err := s.Vacantes.Detalle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vacante no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vacante": v})
}

// OpcionesPostulacion returns everything the submission form needs: the
// area catalog, availability and locality options, and the area prefill for
// a vacante-specific application.
func (s *Server) OpcionesPostulacion(c *gin.Context) {
	ctx := c.Request.Context()
	areas := s.Catalog.AreasCatalogo(ctx)
	locMap, _ := s.Catalog.Load(ctx)

	localidades := make([]catalog.Ref, 0, len(locMap))
	for id, nombre := range locMap {
		localidades = append(localidades, catalog.Ref{ID: id, Nombre: nombre})
	}
	sort.Slice(localidades, func(i, j int) bool { return localidades[i].Nombre < localidades[j].Nombre })

	vacanteID := c.Query("vacante_id")
	prefill := c.Query("area")
	if prefill == "" {
		prefill = c.Query("area_prefill")
	}
	if prefill == "" && vacanteID != "" {
		if id, err := strconv.ParseInt(vacanteID, 10, 64); err == nil {
			if v, err := s.Vacantes.Detalle(ctx, id); err == nil {
				prefill = v.Area
			}
		}
	}
	if prefill != "" {
		prefill = s.Resolver.Resolve(ctx, prefill).Nombre
	}

	c.JSON(http.StatusOK, gin.H{
		"areas":            areas,
		"disponibilidades": catalog.Disponibilidades,
		"localidades":      localidades,
		"area_prefill":     prefill,
		"vacante_id":       vacanteID,
	})
}

// Uploaded serves CVs stored by the local fallback of the attachment store.
func (s *Server) Uploaded(c *gin.Context) {
	filename := cv.Sanitize(c.Param("filename"))
	if filename == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "archivo no encontrado"})
		return
	}
	path := filepath.Join(s.Cfg.UploadDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archivo no encontrado"})
		return
	}
	c.File(path)
}
