package services

import (
	"errors"
	"log"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"wellness-dashboard-system/models"
	"wellness-dashboard-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

var titleCaser = cases.Title(language.English)

// MinimalProduct struct for lightweight listing
type MinimalProduct struct {
	ID               string `json:"id"`
	Slug             string `json:"slug"`
	Name             string `json:"name"`
	ShortDescription string `json:"short_description"`
	PriceCents       int64  `json:"price_cents"`
	ImageURL         string `json:"image_url"`
	Featured         bool   `json:"featured"`
}

// CreateProduct creates a new **draft** catalog product with its image (Admin only).
func (s *CatalogService) CreateProduct(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	name = titleCaser.String(strings.ToLower(name))

	priceCents, err := strconv.ParseInt(c.FormValue("price_cents"), 10, 64)
	if err != nil || priceCents < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price_cents must be a non-negative integer"})
	}

	product := &models.Product{
		ID:               uuid.NewString(),
		Slug:             slug.Make(name),
		Name:             name,
		ShortDescription: c.FormValue("short_description"),
		LongDescription:  c.FormValue("long_description"),
		PriceCents:       priceCents,
		GoalTags:         strings.ToLower(c.FormValue("goal_tags")),
		Featured:         c.FormValue("featured") == "true",
		Status:           models.ProductStatusDraft,
	}

	// ✅ Product image upload → R2 (small, public asset), local dir as fallback
	if imageFile, err := c.FormFile("image"); err == nil && imageFile.Size > 0 {
		imageExt := filepath.Ext(imageFile.Filename)
		if imageExt == "" {
			imageExt = ".png"
		}
		imageKey := "products/" + uuid.NewString() + imageExt
		imageURL, err := utils.StoreImage(imageFile, imageKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "failed to store product image"})
		}
		product.ImageURL = imageURL
	}

	if err := s.DB.Create(product).Error; err != nil {
		log.Printf("DB Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create product"})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct updates an existing product (Admin only)
func (s *CatalogService) UpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var existing models.Product
	if err := s.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Name             *string               `json:"name"`
		ShortDescription *string               `json:"short_description"`
		LongDescription  *string               `json:"long_description"`
		PriceCents       *int64                `json:"price_cents"`
		GoalTags         *string               `json:"goal_tags"`
		Featured         *bool                 `json:"featured"`
		Status           *models.ProductStatus `json:"status"`
		PublishAt        *time.Time            `json:"publish_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		existing.Name = titleCaser.String(strings.ToLower(strings.TrimSpace(*req.Name)))
		existing.Slug = slug.Make(existing.Name)
	}
	if req.ShortDescription != nil {
		existing.ShortDescription = *req.ShortDescription
	}
	if req.LongDescription != nil {
		existing.LongDescription = *req.LongDescription
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price_cents must be non-negative"})
		}
		existing.PriceCents = *req.PriceCents
	}
	if req.GoalTags != nil {
		existing.GoalTags = strings.ToLower(*req.GoalTags)
	}
	if req.Featured != nil {
		existing.Featured = *req.Featured
	}
	if req.Status != nil {
		switch *req.Status {
		case models.ProductStatusDraft, models.ProductStatusScheduled,
			models.ProductStatusPublished, models.ProductStatusArchived:
			existing.Status = *req.Status
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
		}
		if *req.Status == models.ProductStatusScheduled && req.PublishAt == nil && existing.PublishAt == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "publish_at is required for scheduled products"})
		}
	}
	if req.PublishAt != nil {
		existing.PublishAt = req.PublishAt
	}

	if err := s.DB.Save(&existing).Error; err != nil {
		log.Printf("DB Error updating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
	}

	return c.JSON(existing)
}

// DeleteProduct soft-deletes a product (Admin only)
func (s *CatalogService) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product models.Product
	if err := s.DB.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&product).Error; err != nil {
		log.Printf("DB Error deleting product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// ListPublished returns the public storefront listing.
func (s *CatalogService) ListPublished(c *fiber.Ctx) error {
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	query := s.DB.Model(&models.Product{}).
		Where("status = ?", models.ProductStatusPublished).
		Order("featured DESC, created_at DESC").
		Limit(limit)

	if goal := strings.ToLower(strings.TrimSpace(c.Query("goal"))); goal != "" {
		query = query.Where("goal_tags LIKE ?", "%"+goal+"%")
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		log.Printf("DB Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
	}

	res := make([]MinimalProduct, len(products))
	for i, p := range products {
		res[i] = MinimalProduct{
			ID:               p.ID,
			Slug:             p.Slug,
			Name:             p.Name,
			ShortDescription: p.ShortDescription,
			PriceCents:       p.PriceCents,
			ImageURL:         p.ImageURL,
			Featured:         p.Featured,
		}
	}
	return c.JSON(res)
}

// GetBySlug returns one published product with full detail.
func (s *CatalogService) GetBySlug(c *fiber.Ctx) error {
	productSlug := c.Params("slug")

	var product models.Product
	if err := s.DB.Where("slug = ? AND status = ?", productSlug, models.ProductStatusPublished).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(product)
}

// GetAllProducts fetches all products regardless of status (Admin only)
func (s *CatalogService) GetAllProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := s.DB.Find(&products).Error; err != nil {
		log.Printf("DB Error fetching all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
	}
	return c.JSON(products)
}

// --- Quiz recommender ---

// QuizAnswers are the consumer quiz responses that drive recommendations.
type QuizAnswers struct {
	Goals            []string `json:"goals"`             // e.g., ["muscle", "energy"]
	TrainingDays     int      `json:"training_days"`     // sessions per week
	SleepTrouble     bool     `json:"sleep_trouble"`     // trouble falling/staying asleep
	PlantBased       bool     `json:"plant_based"`       // vegetarian/vegan diet
	LowEnergyMorning bool     `json:"low_energy_morning"`
}

// Recommendation pairs a product with its quiz match score.
type Recommendation struct {
	Product MinimalProduct `json:"product"`
	Score   int            `json:"score"`
}

// derivedGoals expands quiz answers into the goal-tag space products use.
func derivedGoals(answers QuizAnswers) []string {
	goals := make([]string, 0, len(answers.Goals)+3)
	for _, g := range answers.Goals {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" {
			goals = append(goals, g)
		}
	}
	if answers.TrainingDays >= 4 {
		goals = append(goals, "recovery")
	}
	if answers.SleepTrouble {
		goals = append(goals, "sleep")
	}
	if answers.LowEnergyMorning {
		goals = append(goals, "energy")
	}
	if answers.PlantBased {
		goals = append(goals, "plant-based")
	}
	return goals
}

// ScoreProducts ranks products by goal-tag overlap with the quiz answers.
// Pure; ties break on featured flag, then name, so the ranking is stable.
func ScoreProducts(answers QuizAnswers, products []models.Product) []Recommendation {
	wanted := make(map[string]bool)
	for _, g := range derivedGoals(answers) {
		wanted[g] = true
	}

	var recs []Recommendation
	for _, p := range products {
		score := 0
		for _, tag := range p.TagList() {
			if wanted[tag] {
				score += 2
			}
		}
		if p.Featured && score > 0 {
			score++
		}
		if score == 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Product: MinimalProduct{
				ID:               p.ID,
				Slug:             p.Slug,
				Name:             p.Name,
				ShortDescription: p.ShortDescription,
				PriceCents:       p.PriceCents,
				ImageURL:         p.ImageURL,
				Featured:         p.Featured,
			},
			Score: score,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if recs[i].Product.Featured != recs[j].Product.Featured {
			return recs[i].Product.Featured
		}
		return recs[i].Product.Name < recs[j].Product.Name
	})
	return recs
}

// RecommendProducts handles the quiz endpoint: scores published products
// against the submitted answers and returns the top matches.
func (s *CatalogService) RecommendProducts(c *fiber.Ctx) error {
	var answers QuizAnswers
	if err := c.BodyParser(&answers); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var products []models.Product
	if err := s.DB.Where("status = ?", models.ProductStatusPublished).Find(&products).Error; err != nil {
		log.Printf("DB Error fetching products for quiz: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
	}

	recs := ScoreProducts(answers, products)
	if len(recs) > 6 {
		recs = recs[:6]
	}
	return c.JSON(fiber.Map{
		"recommendations": recs,
		"goals":           derivedGoals(answers),
	})
}
