// handlers/tracker_routes.go
package handlers

import (
	"wellness-dashboard-system/middleware"
	"wellness-dashboard-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTrackerRoutes(app *fiber.App, trackerService *services.TrackerService) {
	// 🔐 All tracker mutations are per-user and require gateway user context.
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/user/track/water", trackerService.AddWater)
	securedGroup.Post("/user/track/sleep", trackerService.LogSleep)
	securedGroup.Post("/user/track/meals", trackerService.LogMeal)
	securedGroup.Post("/user/track/macros", trackerService.LogMacros)
	securedGroup.Post("/user/track/supplements", trackerService.LogSupplements)
	securedGroup.Post("/user/track/workout", trackerService.CompleteWorkout)

	securedGroup.Get("/user/goals", trackerService.GetGoals)
	securedGroup.Put("/user/goals", trackerService.UpdateGoals)
}
