package handlers

import (
	"sports-prediction-system/middleware"
	"sports-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContestRoutes(app *fiber.App, contestService *services.ContestService, predictionService *services.PredictionService, scoreService *services.ScoreService, authClient *services.AuthServiceClient) {
	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware(authClient))

	// Contest reads
	secured.Get("/contests", contestService.GetContests)
	secured.Get("/contests/:id", contestService.GetContestWithTeams)
	secured.Get("/contests/:id/teams", contestService.GetTeamsByContest)
	secured.Get("/contests/:id/predictions/count", predictionService.GetContestPredictionCount)

	// Prediction protocol
	secured.Post("/contests/:id/register", predictionService.RegisterForContest)
	secured.Post("/contests/:id/predictions", predictionService.SubmitPrediction)
	secured.Get("/contests/:id/predictions/me", predictionService.GetUserPrediction)

	// 🔒 Admin-only routes
	admin := secured.Group("/admin", middleware.RequireAdmin())
	admin.Post("/contests", contestService.CreateContest)
	admin.Patch("/contests/:id/status", contestService.UpdateContestStatus)
	admin.Post("/contests/:id/teams", contestService.CreateTeam)
	admin.Delete("/teams/:id", contestService.DeleteTeam)
	admin.Get("/stats", contestService.GetAdminStats)

	// Scoring job write surface
	admin.Put("/contests/:id/scores/:user_id", scoreService.UpsertContestScore)
}
