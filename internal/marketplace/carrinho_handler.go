package marketplace

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"merenda-backend/internal/audit"
	"merenda-backend/internal/auth"
	"merenda-backend/internal/cart"
	"merenda-backend/internal/database"
	"merenda-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var validate = validator.New()

// -------------------------
// Request/Response Types
// -------------------------

type AddItemRequest struct {
	ProducerID  uint   `json:"produtor_id" validate:"required"`
	ProductName string `json:"produto_nome" validate:"required"`
	Quantity    int    `json:"quantidade" validate:"required,gt=0"`
}

type UpdateQuantityRequest struct {
	ProducerID  uint   `json:"produtor_id" validate:"required"`
	ProductName string `json:"produto_nome" validate:"required"`
	Quantity    int    `json:"quantidade"`
}

type RemoveItemRequest struct {
	ProducerID  uint   `json:"produtor_id" validate:"required"`
	ProductName string `json:"produto_nome" validate:"required"`
}

type CheckoutRequest struct {
	DesiredDeliveryDate string `json:"data_entrega_desejada" validate:"required"`
	LogisticsType       string `json:"tipo_logistica" validate:"required,oneof=entrega retirada"`
	Note                string `json:"observacoes" validate:"max=255"`
}

type CartResponse struct {
	State     cart.State          `json:"estado"`
	Kind      models.SupplierKind `json:"tipo_fornecedor"`
	Lines     []cart.Line         `json:"itens"`
	Total     float64             `json:"total"`
	ItemCount int                 `json:"total_itens"`
}

func cartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		State:     c.State(),
		Kind:      c.Kind(),
		Lines:     c.Lines(),
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
}

// traduz os erros tipados do carrinho para HTTP sem vazar pânico;
// a operação rejeitada nunca altera o carrinho
func cartErrorToHTTP(err error) error {
	var mixErr *cart.MixedSupplierKindError
	if errors.As(err, &mixErr) {
		return fiber.NewError(fiber.StatusConflict, mixErr.Error())
	}
	var emptyErr *cart.EmptyCheckoutError
	if errors.As(err, &emptyErr) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, emptyErr.Error())
	}
	var vErr *cart.ValidationError
	if errors.As(err, &vErr) {
		return fiber.NewError(fiber.StatusBadRequest, vErr.Error())
	}
	if errors.Is(err, cart.ErrCommitted) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Erro inesperado no carrinho")
}

// GET /api/carrinho
func GetCartHandler(store *cart.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		return c.JSON(cartResponse(store.Get(userID)))
	}
}

// POST /api/carrinho/itens
// O preço e o tipo do fornecedor saem do cadastro atual, nunca do payload.
func AddItemHandler(store *cart.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body AddItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "produtor_id, produto_nome e quantidade positiva são obrigatórios")
		}

		var producer models.Producer
		if err := database.DB.First(&producer, "id = ?", body.ProducerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produtor não encontrado")
		}

		var product models.Product
		if err := database.DB.
			Where("producer_id = ? AND name = ?", producer.ID, strings.TrimSpace(body.ProductName)).
			First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado para este produtor")
		}

		userCart := store.Get(userID)
		if err := userCart.AddItem(producer.ID, producer.Name, product, body.Quantity, producer.Kind); err != nil {
			return cartErrorToHTTP(err)
		}

		return c.Status(fiber.StatusCreated).JSON(cartResponse(userCart))
	}
}

// PUT /api/carrinho/itens
func UpdateQuantityHandler(store *cart.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body UpdateQuantityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "produtor_id e produto_nome são obrigatórios")
		}

		userCart := store.Get(userID)
		if err := userCart.UpdateQuantity(body.ProducerID, body.ProductName, body.Quantity); err != nil {
			return cartErrorToHTTP(err)
		}

		return c.JSON(cartResponse(userCart))
	}
}

// DELETE /api/carrinho/itens
func RemoveItemHandler(store *cart.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body RemoveItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "produtor_id e produto_nome são obrigatórios")
		}

		userCart := store.Get(userID)
		if err := userCart.RemoveItem(body.ProducerID, body.ProductName); err != nil {
			return cartErrorToHTTP(err)
		}

		return c.JSON(cartResponse(userCart))
	}
}

// DELETE /api/carrinho
func ClearCartHandler(store *cart.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		userCart := store.Get(userID)
		userCart.Clear()

		return c.JSON(cartResponse(userCart))
	}
}

// POST /api/carrinho/checkout
// Gera um pedido por produtor presente no carrinho, numa transação única:
// ou todos os pedidos são gravados, ou nenhum.
func CheckoutHandler(store *cart.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		schoolID, err := auth.SchoolID(c)
		if err != nil {
			return err
		}

		var body CheckoutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "data_entrega_desejada e tipo_logistica (entrega|retirada) são obrigatórios")
		}

		deliveryDate, err := time.Parse("2006-01-02", body.DesiredDeliveryDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "data_entrega_desejada inválida (YYYY-MM-DD)")
		}

		var school models.School
		if err := database.DB.First(&school, "id = ?", schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Escola não encontrada")
		}

		userCart := store.Get(userID)
		draft, err := userCart.Checkout()
		if err != nil {
			return cartErrorToHTTP(err)
		}

		now := time.Now()
		var orders []models.Order

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			for _, lines := range draft.LinesByProducer() {
				items := make([]models.OrderItem, 0, len(lines))
				var total float64
				for _, l := range lines {
					subtotal := l.Subtotal()
					total += subtotal
					items = append(items, models.OrderItem{
						ProductName: l.ProductName,
						Category:    l.Category,
						Unit:        l.Unit,
						Quantity:    l.Quantity,
						UnitPrice:   l.UnitPrice,
						Subtotal:    subtotal,
					})
				}

				order := models.Order{
					Code:                newOrderCode(),
					SchoolID:            school.ID,
					SchoolName:          school.Name,
					ProducerID:          lines[0].ProducerID,
					ProducerName:        lines[0].ProducerName,
					SupplierKind:        draft.Kind,
					Items:               items,
					Total:               total,
					LogisticsType:       models.LogisticsType(body.LogisticsType),
					OrderDate:           now,
					DesiredDeliveryDate: deliveryDate,
					Status:              models.StatusPendente,
					Note:                strings.TrimSpace(body.Note),
				}
				if err := tx.Create(&order).Error; err != nil {
					return err
				}
				orders = append(orders, order)
			}
			return nil
		})
		if txErr != nil {
			// checkout é atômico: nada foi gravado, então as linhas voltam
			// para o usuário tentar de novo
			restored := cart.New()
			for _, l := range draft.Lines {
				_ = restored.AddItem(l.ProducerID, l.ProducerName, models.Product{
					Name: l.ProductName, Category: l.Category, Unit: l.Unit, UnitPrice: l.UnitPrice,
				}, l.Quantity, l.Kind)
			}
			store.Replace(userID, restored)
			logrus.WithError(txErr).Error("checkout falhou, carrinho restaurado")
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gravar o pedido, tente novamente")
		}

		store.Reset(userID)

		for _, o := range orders {
			var user models.User
			if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
				if logErr := audit.WriteLog(audit.LogOptions{
					UserID:      user.ID,
					UserName:    user.Name,
					EntityType:  "order",
					EntityID:    o.ID,
					Action:      models.AuditActionCreate,
					Description: fmt.Sprintf("Pedido %s criado para %s (R$ %.2f)", o.Code, o.ProducerName, o.Total),
					After:       fiber.Map{"code": o.Code, "producer": o.ProducerName, "total": o.Total},
				}); logErr != nil {
					logrus.WithError(logErr).Warn("audit log do checkout não gravado")
				}
			}
		}

		resp := make([]fiber.Map, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, fiber.Map{
				"id":            o.ID,
				"codigo":        o.Code,
				"produtor_id":   o.ProducerID,
				"produtor_nome": o.ProducerName,
				"total":         o.Total,
				"status":        o.Status,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"pedidos": resp,
			"total":   draft.Total,
		})
	}
}

// newOrderCode - ex: PED3F2A91BC
func newOrderCode() string {
	return "PED" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
