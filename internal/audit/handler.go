package audit

import (
	"strconv"

	"merenda-backend/internal/auth"
	"merenda-backend/internal/database"
	"merenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=&limit=
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 50
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
				limit = n
			}
		}

		query := database.DB.Order("created_at desc").Limit(limit)
		if entityType := c.Query("entity_type"); entityType != "" {
			query = query.Where("entity_type = ?", entityType)
		}

		var logs []models.AuditLog
		if err := query.Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os logs")
		}

		return c.JSON(logs)
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuário não encontrado")
		}

		if err := UndoLog(uint(id), user.ID, user.Name); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{"message": "Operação desfeita"})
	}
}
