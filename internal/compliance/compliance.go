// Package compliance agrega o histórico de pedidos entregues nas métricas
// da Lei 11.947/2009: percentual de compra da agricultura familiar contra a
// meta de 30% e rankings de produtores e escolas.
package compliance

import (
	"sort"

	"merenda-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Meta legal: mínimo de 30% do gasto realizado com agricultura familiar
const ThresholdPercent = 30.0

// Snapshot - retrato derivado, recalculado a cada consulta, nunca armazenado.
type Snapshot struct {
	TotalSpend       float64
	SmallholderSpend float64
	// Fração gasto AF / gasto total, em [0,1]. Nil quando não há gasto
	// entregue (sem divisão por zero, sem NaN).
	Ratio            *float64
	ThresholdPercent float64
	MeetsThreshold   bool
	DeliveredOrders  int
}

// ComputeSnapshot - só pedidos entregues contam (gasto realizado). A
// atribuição à agricultura familiar é resolvida pelo cadastro atual do
// produtor, não pelo rótulo gravado no checkout: se a DAP caducou, o gasto
// sai da meta.
func ComputeSnapshot(orders []models.Order, isSmallholder func(producerID uint) bool) Snapshot {
	total := decimal.Zero
	smallholder := decimal.Zero
	delivered := 0

	for _, o := range orders {
		if o.Status != models.StatusEntregue {
			continue
		}
		delivered++
		value := decimal.NewFromFloat(o.Total)
		total = total.Add(value)
		if isSmallholder != nil && isSmallholder(o.ProducerID) {
			smallholder = smallholder.Add(value)
		}
	}

	snap := Snapshot{
		ThresholdPercent: ThresholdPercent,
		DeliveredOrders:  delivered,
	}
	snap.TotalSpend, _ = total.Float64()
	snap.SmallholderSpend, _ = smallholder.Float64()

	if total.IsPositive() {
		ratio, _ := smallholder.Div(total).Float64()
		snap.Ratio = &ratio
		// comparação exata em decimal: AF*10 >= total*3 equivale a AF/total >= 30%
		snap.MeetsThreshold = smallholder.Mul(decimal.NewFromInt(10)).
			GreaterThanOrEqual(total.Mul(decimal.NewFromInt(3)))
	}

	return snap
}

type RankedProducer struct {
	ProducerID    uint    `json:"produtor_id"`
	ProducerName  string  `json:"produtor_nome"`
	TotalSpend    float64 `json:"total_vendas"`
	Deliveries    int     `json:"numero_entregas"`
	AverageRating float64 `json:"avaliacao_media"`
	HasRating     bool    `json:"possui_avaliacao"`
}

// RankProducers - ranking por volume vendido em pedidos entregues.
// Determinístico: empate em valor é resolvido por nome crescente.
func RankProducers(orders []models.Order) []RankedProducer {
	type acc struct {
		name       string
		spend      decimal.Decimal
		deliveries int
		ratingSum  int
		rated      int
	}

	byProducer := make(map[uint]*acc)
	for _, o := range orders {
		if o.Status != models.StatusEntregue {
			continue
		}
		a, ok := byProducer[o.ProducerID]
		if !ok {
			a = &acc{name: o.ProducerName}
			byProducer[o.ProducerID] = a
		}
		a.spend = a.spend.Add(decimal.NewFromFloat(o.Total))
		a.deliveries++
		if o.Review != nil {
			a.ratingSum += o.Review.Rating
			a.rated++
		}
	}

	ranking := make([]RankedProducer, 0, len(byProducer))
	for id, a := range byProducer {
		r := RankedProducer{
			ProducerID:   id,
			ProducerName: a.name,
			Deliveries:   a.deliveries,
		}
		r.TotalSpend, _ = a.spend.Float64()
		if a.rated > 0 {
			r.HasRating = true
			r.AverageRating = float64(a.ratingSum) / float64(a.rated)
		}
		ranking = append(ranking, r)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].TotalSpend != ranking[j].TotalSpend {
			return ranking[i].TotalSpend > ranking[j].TotalSpend
		}
		return ranking[i].ProducerName < ranking[j].ProducerName
	})

	return ranking
}

type RankedSchool struct {
	SchoolID         uint    `json:"escola_id"`
	SchoolName       string  `json:"escola_nome"`
	TotalSpend       float64 `json:"gasto_total"`
	SmallholderSpend float64 `json:"gasto_af"`
	AFPercent        float64 `json:"percentual_af"`
	Orders           int     `json:"numero_pedidos"`
}

// RankSchools - ranking de escolas pelo percentual comprado da agricultura
// familiar (escolas modelo primeiro), com o mesmo critério de atribuição do
// Snapshot. Empates: maior gasto, depois nome crescente.
func RankSchools(orders []models.Order, isSmallholder func(producerID uint) bool) []RankedSchool {
	type acc struct {
		name   string
		total  decimal.Decimal
		af     decimal.Decimal
		orders int
	}

	bySchool := make(map[uint]*acc)
	for _, o := range orders {
		if o.Status != models.StatusEntregue {
			continue
		}
		a, ok := bySchool[o.SchoolID]
		if !ok {
			a = &acc{name: o.SchoolName}
			bySchool[o.SchoolID] = a
		}
		value := decimal.NewFromFloat(o.Total)
		a.total = a.total.Add(value)
		a.orders++
		if isSmallholder != nil && isSmallholder(o.ProducerID) {
			a.af = a.af.Add(value)
		}
	}

	ranking := make([]RankedSchool, 0, len(bySchool))
	for id, a := range bySchool {
		r := RankedSchool{
			SchoolID:   id,
			SchoolName: a.name,
			Orders:     a.orders,
		}
		r.TotalSpend, _ = a.total.Float64()
		r.SmallholderSpend, _ = a.af.Float64()
		if a.total.IsPositive() {
			pct, _ := a.af.Div(a.total).Mul(decimal.NewFromInt(100)).Round(2).Float64()
			r.AFPercent = pct
		}
		ranking = append(ranking, r)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].AFPercent != ranking[j].AFPercent {
			return ranking[i].AFPercent > ranking[j].AFPercent
		}
		if ranking[i].TotalSpend != ranking[j].TotalSpend {
			return ranking[i].TotalSpend > ranking[j].TotalSpend
		}
		return ranking[i].SchoolName < ranking[j].SchoolName
	})

	return ranking
}
