package secretaria

import (
	"fmt"
	"time"

	"merenda-backend/internal/compliance"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/secretaria/relatorio-compliance.xlsx
// Planilha de prestação de contas para o FNDE: resumo da meta de 30%,
// ranking de produtores e ranking de escolas.
func ComplianceReportHandler() fiber.Handler {
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
		producers := compliance.RankProducers(orders)
		schools := compliance.RankSchools(orders, isSmallholder)

		f := excelize.NewFile()
		defer f.Close()

		// Resumo
		resumo := "Resumo"
		f.SetSheetName("Sheet1", resumo)
		f.SetCellValue(resumo, "A1", "Relatório de Compliance PNAE")
		f.SetCellValue(resumo, "A2", "Gerado em")
		f.SetCellValue(resumo, "B2", time.Now().Format("02/01/2006 15:04"))
		f.SetCellValue(resumo, "A4", "Gasto total (entregue)")
		f.SetCellValue(resumo, "B4", snap.TotalSpend)
		f.SetCellValue(resumo, "A5", "Gasto agricultura familiar")
		f.SetCellValue(resumo, "B5", snap.SmallholderSpend)
		f.SetCellValue(resumo, "A6", "Percentual AF")
		if snap.Ratio != nil {
			f.SetCellValue(resumo, "B6", fmt.Sprintf("%.2f%%", *snap.Ratio*100))
		} else {
			f.SetCellValue(resumo, "B6", "sem gasto registrado")
		}
		f.SetCellValue(resumo, "A7", "Meta legal (Lei 11.947/2009)")
		f.SetCellValue(resumo, "B7", fmt.Sprintf("%.0f%%", snap.ThresholdPercent))
		f.SetCellValue(resumo, "A8", "Meta atingida")
		if snap.MeetsThreshold {
			f.SetCellValue(resumo, "B8", "SIM")
		} else {
			f.SetCellValue(resumo, "B8", "NÃO")
		}
		f.SetCellValue(resumo, "A9", "Pedidos entregues")
		f.SetCellValue(resumo, "B9", snap.DeliveredOrders)

		// Ranking de produtores
		prodSheet := "Produtores"
		if _, err := f.NewSheet(prodSheet); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar a planilha")
		}
		f.SetCellValue(prodSheet, "A1", "Produtor")
		f.SetCellValue(prodSheet, "B1", "Total vendido (R$)")
		f.SetCellValue(prodSheet, "C1", "Entregas")
		f.SetCellValue(prodSheet, "D1", "Avaliação média")
		for i, p := range producers {
			row := fmt.Sprint(i + 2)
			f.SetCellValue(prodSheet, "A"+row, p.ProducerName)
			f.SetCellValue(prodSheet, "B"+row, p.TotalSpend)
			f.SetCellValue(prodSheet, "C"+row, p.Deliveries)
			if p.HasRating {
				f.SetCellValue(prodSheet, "D"+row, fmt.Sprintf("%.1f", p.AverageRating))
			} else {
				f.SetCellValue(prodSheet, "D"+row, "-")
			}
		}

		// Ranking de escolas
		schoolSheet := "Escolas"
		if _, err := f.NewSheet(schoolSheet); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar a planilha")
		}
		f.SetCellValue(schoolSheet, "A1", "Escola")
		f.SetCellValue(schoolSheet, "B1", "Gasto total (R$)")
		f.SetCellValue(schoolSheet, "C1", "Gasto AF (R$)")
		f.SetCellValue(schoolSheet, "D1", "Percentual AF")
		f.SetCellValue(schoolSheet, "E1", "Pedidos")
		for i, s := range schools {
			row := fmt.Sprint(i + 2)
			f.SetCellValue(schoolSheet, "A"+row, s.SchoolName)
			f.SetCellValue(schoolSheet, "B"+row, s.TotalSpend)
			f.SetCellValue(schoolSheet, "C"+row, s.SmallholderSpend)
			f.SetCellValue(schoolSheet, "D"+row, fmt.Sprintf("%.2f%%", s.AFPercent))
			f.SetCellValue(schoolSheet, "E"+row, s.Orders)
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o arquivo")
		}

		filename := fmt.Sprintf("relatorio-compliance-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		return c.Send(buf.Bytes())
	}
}
