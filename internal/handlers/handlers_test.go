package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinicaandina/postulaciones/internal/catalog"
	"github.com/clinicaandina/postulaciones/internal/config"
	"github.com/clinicaandina/postulaciones/internal/cv"
	"github.com/clinicaandina/postulaciones/internal/submit"
	"github.com/clinicaandina/postulaciones/internal/vacante"
)

func init() {
	gin.SetMode(gin.TestMode)
	log.SetLevel(logrus.PanicLevel)
}

// newTestServer wires the full router in local mode: no remote store, CVs on
// a temp dir, challenge always passing unless the test swaps the verifier.
func newTestServer(t *testing.T) (*gin.Engine, *Server) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{
		PublicBaseURL: "http://localhost:8080",
		Bucket:        "cvs",
		UploadDir:     t.TempDir(),
		AdminUser:     "admin",
		AdminPass:     "secreto",
	}
	cat := catalog.New(nil, logger)
	resolver := catalog.NewResolver(nil, cat)
	cvs := cv.NewStore(nil, cfg.Bucket, cfg.UploadDir, cfg.PublicBaseURL, logger)
	writer := submit.NewWriter(nil, logger)
	s := &Server{
		Cfg:       cfg,
		Catalog:   cat,
		Resolver:  resolver,
		Processor: submit.NewProcessor(resolver, cvs, writer, logger),
		Writer:    writer,
		Vacantes:  vacante.NewService(nil, cat, resolver, logger),
		Verificar: func(context.Context, string, string) bool { return true },
	}
	r := gin.New()
	Setup(r, s)
	return r, s
}

func doRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
	return body
}

var formCompleto = map[string]string{
	"nombre_apellido":     "Ana Paz López",
	"dni":                 "30111222",
	"edad":                "33",
	"localidad":           "Godoy Cruz",
	"disponibilidad":      "Full time",
	"area_preferencia":    "Cocina",
	"celular":             "2611234567",
	"mail":                "ana@example.com",
	"licencia_conducir":   "si",
	"movilidad_propia":    "no",
	"familiar_en_clinica": "no",
	"fuente_postulacion":  "instagram",
}

func multipartForm(t *testing.T, fields map[string]string, cvContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if cvContent != nil {
		fw, err := mw.CreateFormFile("cv", "cv.pdf")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(cvContent); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf, mw.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestServer(t)
	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if body := decodeBody(t, w); body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestHomeLocalMode(t *testing.T) {
	r, _ := newTestServer(t)
	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	body := decodeBody(t, w)
	if _, ok := body["vacantes"]; !ok {
		t.Errorf("body = %v", body)
	}
}

func TestVacanteDetalle(t *testing.T) {
	r, _ := newTestServer(t)

	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/vacantes/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: code = %d", w.Code)
	}

	w = doRequest(r, httptest.NewRequest(http.MethodGet, "/vacantes/7", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: code = %d", w.Code)
	}
}

func TestOpcionesPostulacion(t *testing.T) {
	r, _ := newTestServer(t)
	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/postular?area=3", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	body := decodeBody(t, w)
	if disp, _ := body["disponibilidades"].([]any); len(disp) != 3 {
		t.Errorf("disponibilidades = %v", body["disponibilidades"])
	}
	if locs, _ := body["localidades"].([]any); len(locs) != 18 {
		t.Errorf("len(localidades) = %d, want 18", len(locs))
	}
	if areas, _ := body["areas"].([]any); len(areas) != 4 {
		t.Errorf("len(areas) = %d, want 4", len(areas))
	}
	if body["area_prefill"] != "Cocina" {
		t.Errorf("area_prefill = %v, want resolved Cocina", body["area_prefill"])
	}
}

func TestPostularMissingFields(t *testing.T) {
	r, _ := newTestServer(t)
	fields := map[string]string{}
	for k, v := range formCompleto {
		fields[k] = v
	}
	delete(fields, "mail")
	delete(fields, "celular")
	buf, contentType := multipartForm(t, fields, nil)

	req := httptest.NewRequest(http.MethodPost, "/postular", buf)
	req.Header.Set("Content-Type", contentType)
	w := doRequest(r, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Completá todos los campos." {
		t.Errorf("error = %v", body["error"])
	}
	campos, _ := body["campos"].([]any)
	got := make(map[string]bool)
	for _, c := range campos {
		got[c.(string)] = true
	}
	for _, want := range []string{"mail", "celular", "cv"} {
		if !got[want] {
			t.Errorf("campos = %v, missing %q", campos, want)
		}
	}
}

func TestPostularRejectsNonNumericDNI(t *testing.T) {
	r, _ := newTestServer(t)
	fields := map[string]string{}
	for k, v := range formCompleto {
		fields[k] = v
	}
	fields["dni"] = "30.111.222"
	buf, contentType := multipartForm(t, fields, []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/postular", buf)
	req.Header.Set("Content-Type", contentType)
	w := doRequest(r, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
	body := decodeBody(t, w)
	campos, _ := body["campos"].([]any)
	if len(campos) != 1 || campos[0] != "dni" {
		t.Errorf("campos = %v, want [dni]", campos)
	}
}

func TestPostularChallengeFails(t *testing.T) {
	r, s := newTestServer(t)
	s.Verificar = func(context.Context, string, string) bool { return false }

	buf, contentType := multipartForm(t, formCompleto, []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/postular", buf)
	req.Header.Set("Content-Type", contentType)
	w := doRequest(r, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Prueba fallida, intentá de nuevo." {
		t.Errorf("error = %v", body["error"])
	}
}

func TestPostularRejectsCorruptPDF(t *testing.T) {
	r, _ := newTestServer(t)
	buf, contentType := multipartForm(t, formCompleto, []byte("esto no es un pdf"))
	req := httptest.NewRequest(http.MethodPost, "/postular", buf)
	req.Header.Set("Content-Type", contentType)
	w := doRequest(r, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
	body := decodeBody(t, w)
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "PDF") {
		t.Errorf("error = %q", msg)
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	r, _ := newTestServer(t)

	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/admin/candidatos", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/candidatos", nil)
	req.SetBasicAuth("admin", "secreto")
	w = doRequest(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
}

func TestAdminEstado(t *testing.T) {
	r, _ := newTestServer(t)

	form := strings.NewReader("estado=Entrevista")
	req := httptest.NewRequest(http.MethodPost, "/admin/postulaciones/7/estado", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("admin", "secreto")
	w := doRequest(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["estado"] != "Entrevista" {
		t.Errorf("body = %v", body)
	}

	form = strings.NewReader("estado=archivado")
	req = httptest.NewRequest(http.MethodPost, "/admin/postulaciones/7/estado", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("admin", "secreto")
	w = doRequest(r, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown estado: code = %d", w.Code)
	}
}

func TestAdminCalificar(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/postulaciones/7/calificar", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("admin", "secreto")
	w := doRequest(r, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing calificacion: code = %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Falta calificacion" {
		t.Errorf("body = %v", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/postulaciones/7/calificar", strings.NewReader("calificacion=8"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("admin", "secreto")
	w = doRequest(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["calificacion"] != float64(8) {
		t.Errorf("body = %v", body)
	}
}

func TestUploaded(t *testing.T) {
	r, s := newTestServer(t)
	path := filepath.Join(s.Cfg.UploadDir, "30111222.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 contenido"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/uploads/30111222.pdf", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	data, _ := io.ReadAll(w.Body)
	if string(data) != "%PDF-1.4 contenido" {
		t.Errorf("body = %q", data)
	}

	w = doRequest(r, httptest.NewRequest(http.MethodGet, "/uploads/otro.pdf", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing file: code = %d", w.Code)
	}
}

func TestNormalizarCheckbox(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"si", true},
		{"Sí", true},
		{"TRUE", true},
		{"1", true},
		{"on", true},
		{"no", false},
		{"", false},
		{"0", false},
		{"false", false},
	}
	for _, tc := range cases {
		if got := normalizarCheckbox(tc.in); got != tc.want {
			t.Errorf("normalizarCheckbox(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
