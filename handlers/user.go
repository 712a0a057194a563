package handlers

import (
	"sports-prediction-system/middleware"
	"sports-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, scoreService *services.ScoreService, authClient *services.AuthServiceClient) {
	secured := app.Group("/", middleware.UserContextMiddleware(authClient))

	secured.Get("/users/me", userService.GetMe)
	secured.Put("/users/me/profile", userService.UpsertProfile)
	secured.Get("/users/me/score", scoreService.GetMyOverallScore)
	secured.Get("/users/search", userService.SearchUsers)
}
