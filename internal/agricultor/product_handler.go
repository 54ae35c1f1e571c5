package agricultor

import (
	"fmt"
	"strings"

	"merenda-backend/internal/audit"
	"merenda-backend/internal/auth"
	"merenda-backend/internal/database"
	"merenda-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

// -------------------------
// Request/Response Types
// -------------------------

type CreateProductRequest struct {
	Name      string  `json:"nome" validate:"required,max=100"`
	Category  string  `json:"categoria" validate:"required"`
	Unit      string  `json:"unidade" validate:"required,max=20"`
	UnitPrice float64 `json:"preco_unitario" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name      *string  `json:"nome" validate:"omitempty,max=100"`
	Category  *string  `json:"categoria"`
	Unit      *string  `json:"unidade" validate:"omitempty,max=20"`
	UnitPrice *float64 `json:"preco_unitario" validate:"omitempty,gte=0"`
}

type ProductResponse struct {
	ID        uint                   `json:"id"`
	Name      string                 `json:"nome"`
	Category  models.ProductCategory `json:"categoria"`
	Unit      string                 `json:"unidade"`
	UnitPrice float64                `json:"preco_unitario"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Unit:      p.Unit,
		UnitPrice: p.UnitPrice,
	}
}

func auditUser(c *fiber.Ctx) (uint, string) {
	userID, err := auth.UserID(c)
	if err != nil {
		return 0, ""
	}
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return userID, ""
	}
	return user.ID, user.Name
}

// GET /api/meus-produtos
func ListMyProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		producerID, err := auth.ProducerID(c)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := database.DB.Where("producer_id = ?", producerID).
			Order("name asc").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os produtos")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, toProductResponse(p))
		}
		return c.JSON(resp)
	}
}

// POST /api/meus-produtos
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		producerID, err := auth.ProducerID(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "nome, categoria e unidade são obrigatórios; preço não pode ser negativo")
		}

		category := models.ProductCategory(body.Category)
		if !category.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "categoria inválida")
		}

		name := strings.TrimSpace(body.Name)

		var dup int64
		database.DB.Model(&models.Product{}).
			Where("producer_id = ? AND name = ?", producerID, name).
			Count(&dup)
		if dup > 0 {
			return fiber.NewError(fiber.StatusConflict, "Você já tem um produto com este nome")
		}

		product := models.Product{
			ProducerID: producerID,
			Name:       name,
			Category:   category,
			Unit:       strings.TrimSpace(body.Unit),
			UnitPrice:  body.UnitPrice,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar o produto")
		}

		userID, userName := auditUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Produto cadastrado: %s", product.Name),
			After:       product,
		}); logErr != nil {
			logrus.WithError(logErr).Warn("audit log do produto não gravado")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
	}
}

// PUT /api/meus-produtos/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		producerID, err := auth.ProducerID(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}
		if product.ProducerID != producerID {
			return fiber.NewError(fiber.StatusForbidden, "Este produto não é seu")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Campos inválidos")
		}

		before := product

		if body.Name != nil {
			product.Name = strings.TrimSpace(*body.Name)
		}
		if body.Category != nil {
			category := models.ProductCategory(*body.Category)
			if !category.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "categoria inválida")
			}
			product.Category = category
		}
		if body.Unit != nil {
			product.Unit = strings.TrimSpace(*body.Unit)
		}
		if body.UnitPrice != nil {
			product.UnitPrice = *body.UnitPrice
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o produto")
		}

		userID, userName := auditUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Produto atualizado: %s", product.Name),
			Before:      before,
			After:       product,
		}); logErr != nil {
			logrus.WithError(logErr).Warn("audit log do produto não gravado")
		}

		return c.JSON(toProductResponse(product))
	}
}

// DELETE /api/meus-produtos/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		producerID, err := auth.ProducerID(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}
		if product.ProducerID != producerID {
			return fiber.NewError(fiber.StatusForbidden, "Este produto não é seu")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o produto")
		}

		userID, userName := auditUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Produto excluído: %s", product.Name),
			Before:      product,
			After:       product, // recriação no undo usa o AfterData
		}); logErr != nil {
			logrus.WithError(logErr).Warn("audit log do produto não gravado")
		}

		return c.JSON(fiber.Map{"message": "Produto excluído"})
	}
}
