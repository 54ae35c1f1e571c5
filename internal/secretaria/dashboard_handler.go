package secretaria

import (
	"merenda-backend/internal/compliance"
	"merenda-backend/internal/database"
	"merenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Response Types
// -------------------------

type DashboardFinanceiroResponse struct {
	TotalSpend       float64  `json:"gasto_total"`
	SmallholderSpend float64  `json:"gasto_af"`
	AFPercent        *float64 `json:"percentual_af"` // nil sem gasto entregue
	ThresholdPercent float64  `json:"meta_percentual"`
	MeetsThreshold   bool     `json:"meta_atingida"`
	EstimatedSavings float64  `json:"economia_estimada"`
	DeliveredOrders  int      `json:"pedidos_entregues"`
	ActiveSchools    int64    `json:"escolas_ativas"`
	ActiveProducers  int64    `json:"produtores_ativos"`
}

// smallholderChecker - resolve a atribuição AF pelo cadastro atual dos
// produtores, carregado uma vez por requisição.
func smallholderChecker() (func(uint) bool, error) {
	var producers []models.Producer
	if err := database.DB.Find(&producers).Error; err != nil {
		return nil, err
	}
	quota := make(map[uint]bool, len(producers))
	for i := range producers {
		quota[producers[i].ID] = producers[i].CountsTowardQuota()
	}
	return func(id uint) bool { return quota[id] }, nil
}

func deliveredOrders() ([]models.Order, error) {
	var orders []models.Order
	err := database.DB.Preload("Review").
		Where("status = ?", models.StatusEntregue).
		Find(&orders).Error
	return orders, err
}

// GET /api/secretaria/dashboard-financeiro
func DashboardFinanceiroHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isSmallholder, err := smallholderChecker()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar os produtores")
		}

		orders, err := deliveredOrders()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar os pedidos")
		}

		snap := compliance.ComputeSnapshot(orders, isSmallholder)

		var schools, producers int64
		database.DB.Model(&models.School{}).Count(&schools)
		database.DB.Model(&models.Producer{}).Count(&producers)

		resp := DashboardFinanceiroResponse{
			TotalSpend:       snap.TotalSpend,
			SmallholderSpend: snap.SmallholderSpend,
			ThresholdPercent: snap.ThresholdPercent,
			MeetsThreshold:   snap.MeetsThreshold,
			DeliveredOrders:  snap.DeliveredOrders,
			// estimativa: compra direta do produtor economiza ~20% sobre
			// o preço de atacado praticado pelas distribuidoras
			EstimatedSavings: snap.TotalSpend * 0.20,
			ActiveSchools:    schools,
			ActiveProducers:  producers,
		}
		if snap.Ratio != nil {
			pct := *snap.Ratio * 100
			resp.AFPercent = &pct
		}

		return c.JSON(resp)
	}
}
