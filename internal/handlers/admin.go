package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) AdminCandidatos(c *gin.Context) {
	candidatos, err := s.Writer.ListarCandidatos(c.Request.Context())
	if err != nil {
		log.WithError(err).Warn("no se pudieron listar los candidatos")
		candidatos = nil
	}
	c.JSON(http.StatusOK, gin.H{"candidatos": candidatos})
}

func (s *Server) AdminCrearVacante(c *gin.Context) {
	titulo := strings.TrimSpace(c.PostForm("titulo"))
	area := strings.TrimSpace(c.PostForm("area"))
	descripcion := strings.TrimSpace(c.PostForm("descripcion"))
	estado := strings.TrimSpace(c.PostForm("estado"))

	if err := s.Vacantes.Crear(c.Request.Context(), titulo, area, descripcion, estado); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) AdminCerrarVacante(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "id inválido"})
		return
	}
	if err := s.Vacantes.Cerrar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "No se pudo cerrar la vacante"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) AdminEliminarVacante(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "id inválido"})
		return
	}
	if err := s.Vacantes.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "No se pudo eliminar: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) AdminEstado(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "id inválido"})
		return
	}
	estado := strings.TrimSpace(c.PostForm("estado"))
	if err := s.Writer.ActualizarEstado(c.Request.Context(), id, estado); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "estado": estado})
}

func (s *Server) AdminCalificar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "id inválido"})
		return
	}
	calStr := strings.TrimSpace(c.PostForm("calificacion"))
	if calStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Falta calificacion"})
		return
	}
	cal, err := strconv.Atoi(calStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Calificación inválida"})
		return
	}
	if err := s.Writer.Calificar(c.Request.Context(), id, cal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "calificacion": cal})
}

func (s *Server) AdminEliminarCandidato(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "id inválido"})
		return
	}
	if err := s.Writer.EliminarCandidato(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "No se pudo eliminar: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
