// scripts/migrate.go
package scripts

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clinicaandina/postulaciones/internal/config"
	"github.com/clinicaandina/postulaciones/internal/models"
)

// Migrate creates or updates the schema tables against the project's direct
// Postgres DSN. Runtime traffic goes through the REST API; this script is
// the only direct SQL consumer. After a migration PostgREST may serve
// PGRST204 until its schema cache catches up; the service retries those.
func Migrate() {
	cfg := config.Load()
	if cfg.DBURL == "" {
		log.Fatal("DB_URL sin configurar")
	}

	dbConn, err := gorm.Open(postgres.Open(cfg.DBURL), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	err = dbConn.AutoMigrate(
		&models.Localidad{},
		&models.Area{},
		&models.AreaPreferencia{},
		&models.Vacante{},
		&models.Candidato{},
		&models.Postulacion{},
	)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Migraciones completadas")
}
