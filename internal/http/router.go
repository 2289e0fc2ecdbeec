package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/juscash/djetracker/internal/http/api"
	authhandler "github.com/juscash/djetracker/internal/http/auth"
	"github.com/juscash/djetracker/internal/http/middleware"
	"github.com/juscash/djetracker/internal/http/publication"
	"github.com/juscash/djetracker/internal/http/scrape"
)

func New(
	tokens middleware.Verifier,
	authAPI *authhandler.Handler,
	publicacoesAPI *publication.Handler,
	scrapeAPI *scrape.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.OK(w, map[string]string{"status": "ok"})
	})

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(chimiddleware.AllowContentType("application/json"))
			authAPI.Routes(r)
		})

		r.Route("/publicacoes", func(r chi.Router) {
			// The scraper posts new records without a user token.
			publicacoesAPI.CreateRoute(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(tokens))

				r.Route("/busca-automatica", scrapeAPI.BuscaRoutes)
				r.Route("/scraper", scrapeAPI.ScraperRoutes)

				publicacoesAPI.Routes(r)
			})
		})
	})

	return router
}
