// handlers/newsletter.go
package handlers

import (
	"errors"
	"log"
	"strings"

	"wellness-dashboard-system/middleware"
	"wellness-dashboard-system/models"
	"wellness-dashboard-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNewsletterRoutes(app *fiber.App, newsletterService *services.NewsletterService) {
	// 🔐 Newsletter management is back-office only.
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/newsletter", func(c *fiber.Ctx) error {
		var req struct {
			Subject   string `json:"subject"`
			Preheader string `json:"preheader"`
			BodyHTML  string `json:"body_html"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.BodyHTML) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "subject and body_html are required"})
		}

		issue := models.Newsletter{
			Subject:   strings.TrimSpace(req.Subject),
			Preheader: strings.TrimSpace(req.Preheader),
			BodyHTML:  req.BodyHTML,
			Status:    models.NewsletterStatusDraft,
		}
		if err := newsletterService.DB.Create(&issue).Error; err != nil {
			log.Printf("DB Error creating newsletter: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create newsletter"})
		}

		return c.Status(fiber.StatusCreated).JSON(issue)
	})

	adminGroup.Get("/newsletter/latest", func(c *fiber.Ctx) error {
		issue, err := newsletterService.LatestIssue()
		if err != nil {
			if errors.Is(err, services.ErrNoNewsletter) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No newsletter issue found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(issue)
	})

	adminGroup.Post("/newsletter/send", func(c *fiber.Ctx) error {
		sent, err := newsletterService.SendLatest(c.Context())
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNoNewsletter):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No newsletter issue found"})
			case errors.Is(err, services.ErrNoSubscribers):
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "No subscribed recipients found"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to send newsletter",
					"cause": err.Error(),
				})
			}
		}

		return c.JSON(fiber.Map{
			"message": "Newsletter sent",
			"sent":    sent,
		})
	})

	adminGroup.Post("/newsletter/send-test", func(c *fiber.Ctx) error {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Email) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
		}

		if err := newsletterService.SendTest(c.Context(), strings.TrimSpace(req.Email)); err != nil {
			if errors.Is(err, services.ErrNoNewsletter) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No newsletter issue found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to send test email",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"message": "Test email sent", "to": req.Email})
	})

	adminGroup.Get("/newsletter/subscribers", func(c *fiber.Ctx) error {
		var subscribers []models.Subscriber
		if err := newsletterService.DB.
			Where("subscribed = ?", true).
			Order("created_at DESC").
			Find(&subscribers).Error; err != nil {
			log.Printf("DB Error listing subscribers: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list subscribers"})
		}
		return c.JSON(fiber.Map{
			"subscribers": subscribers,
			"count":       len(subscribers),
		})
	})
}
