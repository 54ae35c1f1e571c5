package dashboard

import (
	"fmt"
	"time"

	"merenda-backend/internal/auth"
	"merenda-backend/internal/database"
	"merenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ComprasChartPoint struct {
	Label               string  `json:"label"` // data / início da semana / início do mês
	AgriculturaFamiliar float64 `json:"agricultura_familiar"`
	FornecedorNormal    float64 `json:"fornecedor_normal"`
	Total               float64 `json:"total"`
}

type ComprasChartGrandTotals struct {
	AgriculturaFamiliar float64 `json:"agricultura_familiar"`
	FornecedorNormal    float64 `json:"fornecedor_normal"`
	Total               float64 `json:"total"`
}

type ComprasChartResponse struct {
	SchoolID    *uint                   `json:"escola_id"` // nil = rede inteira
	Period      string                  `json:"period"`    // daily | weekly | monthly
	From        string                  `json:"from"`
	To          string                  `json:"to"`
	Points      []ComprasChartPoint     `json:"points"`
	GrandTotals ComprasChartGrandTotals `json:"grand_totals"`
}

// escopo do gráfico: perfil escola vê só a própria escola, secretaria
// vê a rede inteira ou filtra com ?escola_id=
func chartSchoolScope(c *fiber.Ctx) (*uint, error) {
	role, err := auth.Role(c)
	if err != nil {
		return nil, err
	}

	if role == models.RoleEscola {
		schoolID, err := auth.SchoolID(c)
		if err != nil {
			return nil, err
		}
		return &schoolID, nil
	}

	sidStr := c.Query("escola_id")
	if sidStr == "" {
		return nil, nil
	}
	var sid uint
	if _, err := fmt.Sscan(sidStr, &sid); err != nil || sid == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "escola_id inválido")
	}
	return &sid, nil
}

// GET /api/dashboard/compras-chart?period=daily&count=7&escola_id=1
// Série temporal do gasto entregue, particionado AF x fornecedor comum.
func ComprasChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := chartSchoolScope(c)
		if err != nil {
			return err
		}

		period := c.Query("period", "daily") // daily | weekly | monthly
		countStr := c.Query("count", "")

		var count int
		if countStr == "" {
			switch period {
			case "weekly":
				count = 8
			case "monthly":
				count = 12
			default:
				period = "daily"
				count = 7
			}
		} else {
			if _, err := fmt.Sscan(countStr, &count); err != nil || count <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "count inválido")
			}
		}

		now := time.Now()
		loc := now.Location()
		// 00:00 de hoje
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		var start time.Time

		switch period {
		case "weekly":
			days := 7 * (count - 1)
			start = end.AddDate(0, 0, -days)
		case "monthly":
			end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			start = end.AddDate(0, -(count - 1), 0)
		default:
			period = "daily"
			start = end.AddDate(0, 0, -(count - 1))
		}

		// linha do resultado da agregação
		type row struct {
			Bucket time.Time `gorm:"column:bucket"`
			Kind   string    `gorm:"column:kind"`
			Total  float64   `gorm:"column:total"`
		}
		var rows []row

		var bucketExpr string
		switch period {
		case "weekly":
			bucketExpr = "date_trunc('week', delivered_at)::date"
		case "monthly":
			bucketExpr = "date_trunc('month', delivered_at)::date"
			end = start.AddDate(0, count, 0).AddDate(0, 0, -1)
		default:
			bucketExpr = "delivered_at::date"
		}

		// o gráfico usa o tipo gravado no pedido (retrato do momento da
		// compra); a meta legal é recalculada à parte pelo cadastro atual
		sql := fmt.Sprintf(`
			SELECT %s AS bucket,
				   supplier_kind AS kind,
				   SUM(total) AS total
			FROM orders
			WHERE status = ? AND delivered_at >= ? AND delivered_at <= ?`, bucketExpr)
		args := []interface{}{models.StatusEntregue, start, end.AddDate(0, 0, 1)}
		if schoolID != nil {
			sql += " AND school_id = ?"
			args = append(args, *schoolID)
		}
		sql += " GROUP BY bucket, kind ORDER BY bucket ASC;"

		if err := database.DB.Raw(sql, args...).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Falha ao agregar os pedidos")
		}

		type bucketAgg struct {
			Bucket time.Time
			AF     float64
			Normal float64
			Total  float64
		}

		buckets := make(map[time.Time]*bucketAgg)

		for _, r := range rows {
			agg, ok := buckets[r.Bucket]
			if !ok {
				agg = &bucketAgg{Bucket: r.Bucket}
				buckets[r.Bucket] = agg
			}

			switch r.Kind {
			case string(models.KindAgriculturaFamiliar):
				agg.AF += r.Total
			case string(models.KindFornecedorNormal):
				agg.Normal += r.Total
			}
		}

		ordered := make([]bucketAgg, 0, len(buckets))
		for _, v := range buckets {
			v.Total = v.AF + v.Normal
			ordered = append(ordered, *v)
		}

		// ordenação por data
		for i := 0; i < len(ordered); i++ {
			for j := i + 1; j < len(ordered); j++ {
				if ordered[j].Bucket.Before(ordered[i].Bucket) {
					ordered[i], ordered[j] = ordered[j], ordered[i]
				}
			}
		}

		points := make([]ComprasChartPoint, 0, len(ordered))
		grand := ComprasChartGrandTotals{}

		for _, b := range ordered {
			points = append(points, ComprasChartPoint{
				Label:               b.Bucket.Format("2006-01-02"),
				AgriculturaFamiliar: b.AF,
				FornecedorNormal:    b.Normal,
				Total:               b.Total,
			})

			grand.AgriculturaFamiliar += b.AF
			grand.FornecedorNormal += b.Normal
			grand.Total += b.Total
		}

		resp := ComprasChartResponse{
			SchoolID:    schoolID,
			Period:      period,
			From:        start.Format("2006-01-02"),
			To:          end.Format("2006-01-02"),
			Points:      points,
			GrandTotals: grand,
		}

		return c.JSON(resp)
	}
}
