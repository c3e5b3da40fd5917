package main

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinicaandina/postulaciones/internal/catalog"
	"github.com/clinicaandina/postulaciones/internal/config"
	"github.com/clinicaandina/postulaciones/internal/cv"
	"github.com/clinicaandina/postulaciones/internal/handlers"
	"github.com/clinicaandina/postulaciones/internal/submit"
	"github.com/clinicaandina/postulaciones/internal/supa"
	"github.com/clinicaandina/postulaciones/internal/vacante"
)

func main() {
	log := logrus.New()
	cfg := config.Load()

	// A nil store keeps the whole service in local mode: submissions are
	// still accepted, CVs land in the uploads dir.
	var store supa.Store
	if cfg.SupabaseEnabled() {
		store = supa.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
	} else {
		log.Warn("SUPABASE_URL/SUPABASE_KEY sin configurar: modo local")
	}

	var objects cv.ObjectStore
	if cfg.StorageEnabled() {
		s3store, err := supa.NewS3ObjectStore(context.Background(), supa.StorageConfig{
			ProjectURL: cfg.SupabaseURL,
			AccessKey:  cfg.StorageAccessKey,
			SecretKey:  cfg.StorageSecretKey,
			Region:     cfg.StorageRegion,
		})
		if err != nil {
			log.WithError(err).Fatal("no se pudo inicializar el cliente de storage")
		}
		objects = s3store
	}

	cat := catalog.New(store, log)
	resolver := catalog.NewResolver(store, cat)
	cvs := cv.NewStore(objects, cfg.Bucket, cfg.UploadDir, cfg.PublicBaseURL, log)
	writer := submit.NewWriter(store, log)
	processor := submit.NewProcessor(resolver, cvs, writer, log)
	vacantes := vacante.NewService(store, cat, resolver, log)

	// The Turnstile verification call itself is delegated to the edge; this
	// gate only consumes its boolean outcome (token presence).
	verificar := func(_ context.Context, token, _ string) bool {
		if !cfg.TurnstileEnabled {
			return true
		}
		return token != ""
	}

	r := gin.Default()
	r.Use(cors.Default())
	handlers.Setup(r, &handlers.Server{
		Cfg:       cfg,
		Catalog:   cat,
		Resolver:  resolver,
		Processor: processor,
		Writer:    writer,
		Vacantes:  vacantes,
		Verificar: verificar,
	})

	log.Printf("Servicio de postulaciones escuchando en %s", cfg.HTTPPort)
	if err := r.Run(cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
