package orders

import (
	"fmt"
	"strings"
	"time"

	"merenda-backend/internal/audit"
	"merenda-backend/internal/auth"
	"merenda-backend/internal/database"
	"merenda-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateReviewRequest struct {
	Rating  int      `json:"nota" validate:"required,min=1,max=5"`
	Tags    []string `json:"tags" validate:"max=10,dive,max=30"`
	Comment string   `json:"comentario" validate:"max=500"`
}

// POST /api/pedidos/:id/avaliacao
// Só pedidos entregues podem ser avaliados, uma única vez. A média do
// produtor é recalculada de forma incremental na mesma transação.
func CreateReviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := auth.SchoolID(c)
		if err != nil {
			return err
		}

		var body CreateReviewRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "nota entre 1 e 5 é obrigatória")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pedido não encontrado")
		}
		if order.SchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Este pedido não é da sua escola")
		}
		if order.Status != models.StatusEntregue {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Só pedidos entregues podem ser avaliados")
		}

		var existing int64
		database.DB.Model(&models.Review{}).Where("order_id = ?", order.ID).Count(&existing)
		if existing > 0 {
			return fiber.NewError(fiber.StatusConflict, "Este pedido já foi avaliado")
		}

		review := models.Review{
			OrderID:    order.ID,
			SchoolID:   order.SchoolID,
			ProducerID: order.ProducerID,
			Rating:     body.Rating,
			Tags:       strings.Join(body.Tags, ","),
			Comment:    strings.TrimSpace(body.Comment),
			ReviewDate: time.Now(),
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&review).Error; err != nil {
				return err
			}

			var producer models.Producer
			if err := tx.First(&producer, "id = ?", order.ProducerID).Error; err != nil {
				return err
			}
			newTotal := producer.TotalReviews + 1
			newAverage := (producer.AverageRating*float64(producer.TotalReviews) + float64(body.Rating)) / float64(newTotal)
			return tx.Model(&producer).Updates(map[string]interface{}{
				"total_reviews":  newTotal,
				"average_rating": newAverage,
			}).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gravar a avaliação")
		}

		userID, _ := auth.UserID(c)
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "review",
				EntityID:    review.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Pedido %s avaliado com nota %d", order.Code, body.Rating),
				After:       review,
			}); logErr != nil {
				logrus.WithError(logErr).Warn("audit log da avaliação não gravado")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":        review.ID,
			"pedido_id": order.ID,
			"nota":      review.Rating,
		})
	}
}
