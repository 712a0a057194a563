package handlers

import (
	"sports-prediction-system/middleware"
	"sports-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService, authClient *services.AuthServiceClient) {
	secured := app.Group("/", middleware.UserContextMiddleware(authClient))

	secured.Get("/contests/:id/leaderboard", leaderboardService.GetContestLeaderboard)
	secured.Get("/leaderboard/all-time", leaderboardService.GetAllTimeLeaderboard)
	secured.Get("/competitions/:id/winners", leaderboardService.GetHistoricalWinners)
}
