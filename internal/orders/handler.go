package orders

import (
	"fmt"
	"time"

	"merenda-backend/internal/audit"
	"merenda-backend/internal/auth"
	"merenda-backend/internal/database"
	"merenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type OrderItemResponse struct {
	ProductName string  `json:"produto_nome"`
	Unit        string  `json:"unidade"`
	Quantity    int     `json:"quantidade"`
	UnitPrice   float64 `json:"preco_unitario"`
	Subtotal    float64 `json:"subtotal"`
}

type OrderResponse struct {
	ID                  uint                 `json:"id"`
	Code                string               `json:"codigo"`
	SchoolID            uint                 `json:"escola_id"`
	SchoolName          string               `json:"escola_nome"`
	ProducerID          uint                 `json:"produtor_id"`
	ProducerName        string               `json:"produtor_nome"`
	SupplierKind        models.SupplierKind  `json:"tipo_fornecedor"`
	Items               []OrderItemResponse  `json:"itens"`
	Total               float64              `json:"valor_total"`
	LogisticsType       models.LogisticsType `json:"tipo_logistica"`
	OrderDate           string               `json:"data_pedido"`
	DesiredDeliveryDate string               `json:"data_entrega_desejada"`
	Status              models.OrderStatus   `json:"status"`
	Note                string               `json:"observacoes,omitempty"`
	Rating              *int                 `json:"nota,omitempty"`
}

func toOrderResponse(o models.Order) OrderResponse {
	resp := OrderResponse{
		ID:                  o.ID,
		Code:                o.Code,
		SchoolID:            o.SchoolID,
		SchoolName:          o.SchoolName,
		ProducerID:          o.ProducerID,
		ProducerName:        o.ProducerName,
		SupplierKind:        o.SupplierKind,
		Total:               o.Total,
		LogisticsType:       o.LogisticsType,
		OrderDate:           o.OrderDate.Format("2006-01-02T15:04:05Z07:00"),
		DesiredDeliveryDate: o.DesiredDeliveryDate.Format("2006-01-02"),
		Status:              o.Status,
		Note:                o.Note,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductName: item.ProductName,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	if o.Review != nil {
		resp.Rating = &o.Review.Rating
	}
	return resp
}

// escopo da consulta por perfil: escola vê os próprios pedidos, agricultor
// os seus, secretaria vê tudo
func scopedOrderQuery(c *fiber.Ctx) (*gorm.DB, error) {
	role, err := auth.Role(c)
	if err != nil {
		return nil, err
	}

	query := database.DB.Model(&models.Order{}).Preload("Items").Preload("Review")

	switch role {
	case models.RoleEscola:
		schoolID, err := auth.SchoolID(c)
		if err != nil {
			return nil, err
		}
		query = query.Where("school_id = ?", schoolID)
	case models.RoleAgricultor:
		producerID, err := auth.ProducerID(c)
		if err != nil {
			return nil, err
		}
		query = query.Where("producer_id = ?", producerID)
	case models.RoleSecretaria:
		if v := c.Query("escola_id"); v != "" {
			query = query.Where("school_id = ?", v)
		}
		if v := c.Query("produtor_id"); v != "" {
			query = query.Where("producer_id = ?", v)
		}
	}

	return query, nil
}

// GET /api/pedidos?status=
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query, err := scopedOrderQuery(c)
		if err != nil {
			return err
		}

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var orders []models.Order
		if err := query.Order("order_date desc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os pedidos")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, toOrderResponse(o))
		}
		return c.JSON(resp)
	}
}

// GET /api/pedidos/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query, err := scopedOrderQuery(c)
		if err != nil {
			return err
		}

		var order models.Order
		if err := query.First(&order, "orders.id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pedido não encontrado")
		}

		return c.JSON(toOrderResponse(order))
	}
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// PUT /api/pedidos/:id/status
// Transições avançam um passo na cadeia pendente → confirmado → em_transito
// → entregue; cancelamento vale de qualquer status não entregue. A escola só
// pode cancelar; as demais transições são do agricultor dono do pedido.
func UpdateStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := auth.Role(c)
		if err != nil {
			return err
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pedido não encontrado")
		}

		switch role {
		case models.RoleAgricultor:
			producerID, err := auth.ProducerID(c)
			if err != nil {
				return err
			}
			if order.ProducerID != producerID {
				return fiber.NewError(fiber.StatusForbidden, "Este pedido não é seu")
			}
		case models.RoleEscola:
			schoolID, err := auth.SchoolID(c)
			if err != nil {
				return err
			}
			if order.SchoolID != schoolID {
				return fiber.NewError(fiber.StatusForbidden, "Este pedido não é seu")
			}
			if body.Status != models.StatusCancelado {
				return fiber.NewError(fiber.StatusForbidden, "A escola só pode cancelar o pedido")
			}
		default:
			return fiber.NewError(fiber.StatusForbidden, "Seu perfil não altera status de pedido")
		}

		if !order.Status.CanTransitionTo(body.Status) {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Transição de %s para %s não é permitida", order.Status, body.Status))
		}

		before := order.Status

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{"status": body.Status}
			if body.Status == models.StatusEntregue {
				now := time.Now()
				updates["delivered_at"] = &now
			}
			if err := tx.Model(&order).Updates(updates).Error; err != nil {
				return err
			}
			// entrega concluída incrementa o contador do produtor
			if body.Status == models.StatusEntregue {
				if err := tx.Model(&models.Producer{}).
					Where("id = ?", order.ProducerID).
					UpdateColumn("total_deliveries", gorm.Expr("total_deliveries + 1")).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o status")
		}

		userID, _ := auth.UserID(c)
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Pedido %s: %s -> %s", order.Code, before, body.Status),
				Before:      fiber.Map{"status": before},
				After:       fiber.Map{"status": body.Status},
			}); logErr != nil {
				logrus.WithError(logErr).Warn("audit log da mudança de status não gravado")
			}
		}

		return c.JSON(fiber.Map{
			"id":     order.ID,
			"codigo": order.Code,
			"status": body.Status,
		})
	}
}
