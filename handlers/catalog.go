// handlers/catalog.go
package handlers

import (
	"wellness-dashboard-system/middleware"
	"wellness-dashboard-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app *fiber.App, catalogService *services.CatalogService) {
	// 🌐 Public storefront — no user context needed.
	app.Get("/shop/products", catalogService.ListPublished)
	app.Get("/shop/products/:slug", catalogService.GetBySlug)
	app.Post("/shop/quiz", catalogService.RecommendProducts)

	// 🔐 Admin catalog management
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Get("/products", catalogService.GetAllProducts)
	adminGroup.Post("/products", catalogService.CreateProduct)
	adminGroup.Put("/products/:id", catalogService.UpdateProduct)
	adminGroup.Delete("/products/:id", catalogService.DeleteProduct)
}
