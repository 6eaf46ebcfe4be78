package routes

import (
	"net/http"

	_ "github.com/Dosada05/multiplayer-tournament/docs"
	"github.com/Dosada05/multiplayer-tournament/handlers"
	"github.com/Dosada05/multiplayer-tournament/middleware"
	"github.com/Dosada05/multiplayer-tournament/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

// SetupRoutes mounts the API. Reads are public; every change to a tournament
// needs an organizer token.
func SetupRoutes(
	router chi.Router,
	opts Options,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Post("/auth/login", authHandler.Login)

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	organizerOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.Authorize(services.RoleOrganizer))
	}

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournaments)

		r.Group(func(r chi.Router) {
			organizerOnly(r)
			r.Post("/", tournamentHandler.CreateTournament)
		})

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetTournament)
			r.Get("/rounds/next/preview", tournamentHandler.PreviewNextRound)
			r.Get("/snapshot", tournamentHandler.ExportSnapshot)
			r.Get("/standings", tournamentHandler.GetStandings)

			r.Group(func(r chi.Router) {
				organizerOnly(r)

				r.Delete("/", tournamentHandler.DeleteTournament)

				r.Put("/roster", tournamentHandler.LoadRoster)
				r.Post("/roster/fetch", tournamentHandler.FetchRoster)

				r.Post("/rounds", tournamentHandler.SeedFirstRound)
				r.Post("/rounds/next", tournamentHandler.BuildNextRound)
				r.Post("/rounds/{roundIndex}/compute", tournamentHandler.ComputeRound)
				r.Put("/rounds/{roundIndex}/matches/{matchIndex}/slots/{slotIndex}/points", tournamentHandler.RecordPoint)
				r.Put("/rounds/{roundIndex}/matches/{matchIndex}/slots/{slotIndex}/participant", tournamentHandler.AssignSlot)

				r.Post("/reset", tournamentHandler.Reset)

				r.Put("/snapshot", tournamentHandler.ImportSnapshot)
				r.Post("/snapshot/publish", tournamentHandler.PublishSnapshot)
			})
		})
	})
}
