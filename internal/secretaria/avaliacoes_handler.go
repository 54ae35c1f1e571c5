package secretaria

import (
	"strconv"
	"time"

	"merenda-backend/internal/database"
	"merenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Response Types
// -------------------------

type LowRatedReviewResponse struct {
	ID           uint   `json:"id"`
	OrderID      uint   `json:"pedido_id"`
	OrderCode    string `json:"pedido_codigo"`
	SchoolName   string `json:"escola_nome"`
	ProducerName string `json:"produtor_nome"`
	Rating       int    `json:"nota"`
	Tags         string `json:"tags"`
	Comment      string `json:"comentario"`
	ReviewDate   string `json:"data_avaliacao"`
}

// GET /api/secretaria/auditoria/avaliacoes-baixas?nota_maxima=
// Sinaliza entregas mal avaliadas para fiscalização do CAE.
func LowRatedReviewsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		maxRating := 2
		if raw := c.Query("nota_maxima"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 || v > 5 {
				return fiber.NewError(fiber.StatusBadRequest, "nota_maxima deve ser um inteiro entre 1 e 5")
			}
			maxRating = v
		}

		var reviews []models.Review
		if err := database.DB.Where("rating <= ?", maxRating).
			Order("rating asc, review_date desc").
			Find(&reviews).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar as avaliações")
		}

		resp := make([]LowRatedReviewResponse, 0, len(reviews))
		for _, r := range reviews {
			item := LowRatedReviewResponse{
				ID:         r.ID,
				OrderID:    r.OrderID,
				Rating:     r.Rating,
				Tags:       r.Tags,
				Comment:    r.Comment,
				ReviewDate: r.ReviewDate.Format(time.RFC3339),
			}

			var order models.Order
			if err := database.DB.First(&order, "id = ?", r.OrderID).Error; err == nil {
				item.OrderCode = order.Code
				item.SchoolName = order.SchoolName
				item.ProducerName = order.ProducerName
			}

			resp = append(resp, item)
		}

		return c.JSON(resp)
	}
}
