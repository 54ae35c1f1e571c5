package marketplace

import (
	"math"
	"strconv"

	"merenda-backend/internal/auth"
	"merenda-backend/internal/catalog"
	"merenda-backend/internal/database"
	"merenda-backend/internal/geo"
	"merenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Response Types
// -------------------------

type ProductResponse struct {
	Name            string                 `json:"nome"`
	Category        models.ProductCategory `json:"categoria"`
	Unit            string                 `json:"unidade"`
	UnitPrice       float64                `json:"preco_unitario"`
	DiscountedPrice float64                `json:"preco_com_desconto"`
}

type ProducerResponse struct {
	ID               uint                `json:"id"`
	Name             string              `json:"nome"`
	PropertyName     string              `json:"nome_propriedade"`
	Kind             models.SupplierKind `json:"tipo_fornecedor"`
	AverageRating    float64             `json:"avaliacao_media"`
	TotalDeliveries  int                 `json:"total_entregas"`
	DeliveryRadiusKm float64             `json:"raio_entrega_km"`
	DistanceKm       *float64            `json:"distancia_km,omitempty"`
	DiscountPercent  *float64            `json:"desconto_proximidade,omitempty"`
	MatchScore       *float64            `json:"score_match,omitempty"`
	Products         []ProductResponse   `json:"produtos"`
}

// GET /api/marketplace/produtores?categoria=&busca=&tipo=&raio_km=&apenas_no_raio=
// A escola logada é a origem: resultados saem ordenados por distância, com
// desconto de proximidade e score de compatibilidade calculados.
func ListProdutoresHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := auth.SchoolID(c)
		if err != nil {
			return err
		}

		var school models.School
		if err := database.DB.First(&school, "id = ?", schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Escola não encontrada")
		}

		filter := catalog.Filter{
			NameContains: c.Query("busca"),
			Origin:       &geo.Coordinate{Latitude: school.Latitude, Longitude: school.Longitude},
		}

		if cat := c.Query("categoria"); cat != "" {
			category := models.ProductCategory(cat)
			if !category.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "categoria inválida")
			}
			filter.Category = category
		}

		if tipo := c.Query("tipo"); tipo != "" {
			kind := models.SupplierKind(tipo)
			if !kind.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "tipo de fornecedor inválido")
			}
			filter.Kind = kind
		}

		if raioStr := c.Query("raio_km"); raioStr != "" {
			raio, err := strconv.ParseFloat(raioStr, 64)
			if err != nil || raio <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "raio_km inválido")
			}
			filter.MaxDistanceKm = raio
		}

		filter.WithinDeliveryRadius = c.Query("apenas_no_raio") == "true"

		var producers []models.Producer
		if err := database.DB.Preload("Products").Find(&producers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os produtores")
		}

		entries := make([]catalog.Entry, 0, len(producers))
		for _, p := range producers {
			entries = append(entries, catalog.Entry{
				ID:               p.ID,
				Name:             p.Name,
				PropertyName:     p.PropertyName,
				Kind:             p.Kind,
				Coordinate:       geo.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude},
				DeliveryRadiusKm: p.DeliveryRadiusKm,
				AverageRating:    p.AverageRating,
				TotalDeliveries:  p.TotalDeliveries,
				Products:         p.Products,
			})
		}

		results := catalog.Apply(entries, filter)

		resp := make([]ProducerResponse, 0, len(results))
		for _, r := range results {
			pr := ProducerResponse{
				ID:               r.ID,
				Name:             r.Name,
				PropertyName:     r.PropertyName,
				Kind:             r.Kind,
				AverageRating:    r.AverageRating,
				TotalDeliveries:  r.TotalDeliveries,
				DeliveryRadiusKm: r.DeliveryRadiusKm,
			}
			if r.HasDistance {
				distance := math.Round(r.DistanceKm*100) / 100
				discount := r.DiscountPercent
				score := math.Round(r.MatchScore*10000) / 10000
				pr.DistanceKm = &distance
				pr.DiscountPercent = &discount
				pr.MatchScore = &score
			}
			for _, p := range r.Products {
				pp := ProductResponse{
					Name:            p.Name,
					Category:        p.Category,
					Unit:            p.Unit,
					UnitPrice:       p.UnitPrice,
					DiscountedPrice: p.UnitPrice,
				}
				if r.HasDistance {
					pp.DiscountedPrice = geo.ApplyDiscount(p.UnitPrice, r.DiscountPercent)
				}
				pr.Products = append(pr.Products, pp)
			}
			resp = append(resp, pr)
		}

		return c.JSON(resp)
	}
}
