package handlers

import (
	"sports-prediction-system/middleware"
	"sports-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCompetitionRoutes(app *fiber.App, competitionService *services.CompetitionService, authClient *services.AuthServiceClient) {
	secured := app.Group("/", middleware.UserContextMiddleware(authClient))

	secured.Get("/competitions", competitionService.GetCompetitions)
	secured.Get("/competitions/:slug", competitionService.GetCompetitionBySlug)

	admin := secured.Group("/admin", middleware.RequireAdmin())
	admin.Post("/competitions", competitionService.CreateCompetition)
}
