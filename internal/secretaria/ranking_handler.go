package secretaria

import (
	"strconv"

	"merenda-backend/internal/compliance"

	"github.com/gofiber/fiber/v2"
)

// limiteQuery - lê ?limite= com default 10 e teto 50
func limiteQuery(c *fiber.Ctx) int {
	limit := 10
	if raw := c.Query("limite"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 50 {
		limit = 50
	}
	return limit
}

// GET /api/secretaria/ranking-produtores?limite=
func RankingProdutoresHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := deliveredOrders()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar os pedidos")
		}

		ranking := compliance.RankProducers(orders)
		if limit := limiteQuery(c); len(ranking) > limit {
			ranking = ranking[:limit]
		}
		return c.JSON(ranking)
	}
}

// GET /api/secretaria/ranking-escolas?limite=
func RankingEscolasHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isSmallholder, err := smallholderChecker()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar os produtores")
		}

		orders, err := deliveredOrders()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar os pedidos")
		}

		ranking := compliance.RankSchools(orders, isSmallholder)
		if limit := limiteQuery(c); len(ranking) > limit {
			ranking = ranking[:limit]
		}
		return c.JSON(ranking)
	}
}
