package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/masters-arena/arena-server/handlers"
	"github.com/masters-arena/arena-server/middleware"
	"github.com/masters-arena/arena-server/models"
)

// SetupRoutes mounts every route on the router. Three tiers exist:
// public reads, authenticated routes behind the gate, and management
// routes behind the gate with a required role.
func SetupRoutes(
	router *chi.Mux,
	gatekeeper *middleware.Gatekeeper,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	joinHandler *handlers.JoinHandler,
	adminHandler *handlers.AdminHandler,
	tournamentHandler *handlers.TournamentHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	teamHandler *handlers.TeamHandler,
	matchHandler *handlers.MatchHandler,
	voteHandler *handlers.VoteHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/signin", authHandler.SignIn)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.Get)
		r.Get("/{tournamentID}/bracket", tournamentHandler.Bracket)
		r.Get("/{tournamentID}/stages", tournamentHandler.Stages)
		r.Get("/{tournamentID}/teams", teamHandler.List)
		r.Get("/{tournamentID}/matches", matchHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(gatekeeper.Protect(models.RoleAdmin))

			r.Post("/", tournamentHandler.Create)
			r.Patch("/{tournamentID}", tournamentHandler.SetActive)
			r.Post("/{tournamentID}/teams", teamHandler.Add)
			r.Post("/{tournamentID}/matches", matchHandler.Schedule)
		})
	})
	router.Get("/bracket/shape", tournamentHandler.Shape)

	router.Route("/teams", func(r chi.Router) {
		r.Use(gatekeeper.Protect(models.RoleAdmin))

		r.Patch("/{teamID}", teamHandler.UpdateRecord)
		r.Delete("/{teamID}", teamHandler.Delete)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}/votes", voteHandler.Tally)

		r.Group(func(r chi.Router) {
			r.Use(gatekeeper.Protect(""))
			r.Post("/{matchID}/votes", voteHandler.Cast)
		})
		r.Group(func(r chi.Router) {
			r.Use(gatekeeper.Protect(models.RoleAdmin))
			r.Patch("/{matchID}/score", matchHandler.Score)
		})
	})

	router.Route("/leaderboards", func(r chi.Router) {
		r.Get("/", leaderboardHandler.List)
		r.Get("/{leaderboardID}", leaderboardHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(gatekeeper.Protect(models.RoleLeaderboard))

			r.Post("/", leaderboardHandler.Create)
			r.Patch("/{leaderboardID}", leaderboardHandler.SetActive)
			r.Post("/{leaderboardID}/stats", leaderboardHandler.AddStat)
			r.Patch("/stats/{statID}", leaderboardHandler.UpdateStat)
			r.Delete("/stats/{statID}", leaderboardHandler.DeleteStat)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(gatekeeper.Protect(""))

		r.Post("/auth/signout", authHandler.SignOut)

		r.Get("/users/me", userHandler.Me)
		r.Patch("/users/me", userHandler.UpdateMe)
		r.Post("/users/me/avatar", userHandler.UploadAvatar)

		r.Get("/join/{kind}", joinHandler.ListTargets)
		r.Post("/join/{kind}", joinHandler.Join)
		r.Get("/session/locks", joinHandler.Locks)
		r.Delete("/session/locks/{kind}", joinHandler.ClearLock)

		r.Get("/admin", middleware.ServeContent(adminHandler.Content()))

		r.Get("/ws/session", webSocketHandler.WatchSession)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.WatchTournament)
}
