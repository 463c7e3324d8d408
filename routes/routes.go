package routes

import (
	"github.com/friendsleague/server/handlers"
	"github.com/friendsleague/server/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes вешает все маршруты приложения на переданный роутер.
// Чтение публичное, запись только с токеном.
func SetupRoutes(
	router chi.Router,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	gameHandler *handlers.GameHandler,
	backlogHandler *handlers.BacklogHandler,
	competitionHandler *handlers.CompetitionHandler,
	matchHandler *handlers.MatchHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	steamHandler *handlers.SteamHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/profiles", func(r chi.Router) {
		r.Get("/{profileID}", profileHandler.GetByIDHandler)
		r.Get("/{profileID}/stats", profileHandler.GetStatsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Put("/me", profileHandler.UpdateHandler)
			r.Post("/me/avatar", profileHandler.UploadAvatarHandler)
		})
	})

	router.Route("/games", func(r chi.Router) {
		r.Get("/", gameHandler.ListHandler)
		r.Get("/{gameID}", gameHandler.GetByIDHandler)
		r.Get("/slug/{slug}", gameHandler.GetBySlugHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", gameHandler.CreateHandler)
			r.Post("/{gameID}/cover", gameHandler.UploadCoverHandler)
		})
	})

	router.Route("/backlog", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", backlogHandler.ListHandler)
		r.Put("/{gameID}", backlogHandler.SetStatusHandler)
		r.Delete("/{gameID}", backlogHandler.RemoveHandler)
	})

	router.Route("/competitions", func(r chi.Router) {
		r.Get("/", competitionHandler.ListHandler)
		r.Get("/{competitionID}", competitionHandler.GetByIDHandler)
		r.Get("/{competitionID}/standings", competitionHandler.StandingsHandler)
		r.Get("/{competitionID}/matches", matchHandler.ListHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", competitionHandler.CreateHandler)
			r.Post("/{competitionID}/activate", competitionHandler.ActivateHandler)
			r.Post("/{competitionID}/finish", competitionHandler.FinishHandler)
			r.Delete("/{competitionID}", competitionHandler.DeleteHandler)
			r.Post("/{competitionID}/matches", matchHandler.ReportResultHandler)
			r.Post("/{competitionID}/matches/schedule", matchHandler.ScheduleHandler)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Delete("/matches/{matchID}", matchHandler.DeleteHandler)
	})

	router.Get("/leaderboard", leaderboardHandler.TitlesHandler)
	router.Get("/steam/search", steamHandler.SearchHandler)

	router.Get("/ws/competitions/{competitionID}", webSocketHandler.ServeWs)
}
