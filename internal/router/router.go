package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "vet-appointments/internal/adapters/storage/memory"
	pg "vet-appointments/internal/adapters/storage/postgres"
	_ "vet-appointments/internal/docs"
	"vet-appointments/internal/domain/appointments"
	"vet-appointments/internal/domain/pets"
	"vet-appointments/internal/domain/vets"
	"vet-appointments/internal/middleware"
	"vet-appointments/internal/platform/logger"
	"vet-appointments/internal/ports/auth"
	"vet-appointments/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: nil = sin mails de confirmación.
	Notifier notify.Notifier

	Log logger.Logger

	// Orígenes permitidos para CORS. Vacío = sin CORS.
	CORSAllowedOrigins []string
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		petRepo  pets.Repository
		vetRepo  vets.Repository
		apptRepo appointments.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		vetRepo = pg.NewVetsRepo(db)
		apptRepo = pg.NewAppointmentsRepo(db)
	} else {
		petRepo = mem.NewPetRepo()
		vetRepo = mem.NewVetRepo()
		apptRepo = mem.NewAppointmentRepo()
	}

	// Services por módulo. appointments mira el roster y las mascotas a
	// través de interfaces chicas; vets sólo cuenta turnos.
	petsSvc := pets.NewService(petRepo)
	vetsSvc := vets.NewService(vetRepo, apptRepo)
	apptSvc := appointments.NewService(apptRepo, vetsSvc, petsSvc, opts.Notifier, opts.Log)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	vets.RegisterRoutes(r, vetsSvc)
	appointments.RegisterRoutes(r, apptSvc)

	vets.RegisterAdminRoutes(r, vetsSvc)
	appointments.RegisterAdminRoutes(r, apptSvc)

	if len(opts.CORSAllowedOrigins) > 0 {
		return handlers.CORS(
			handlers.AllowedOrigins(opts.CORSAllowedOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID", "X-Debug-Email", "X-Debug-Role"}),
		)(r)
	}

	return r
}
