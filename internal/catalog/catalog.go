package catalog

import (
	"sort"
	"strings"

	"merenda-backend/internal/geo"
	"merenda-backend/internal/models"
)

// Entry - produtor candidato visto pelo catálogo. Os dados vêm de fora
// (banco ou fixture); o catálogo só filtra e ordena, nunca altera.
type Entry struct {
	ID               uint
	Name             string
	PropertyName     string
	Kind             models.SupplierKind
	Coordinate       geo.Coordinate
	DeliveryRadiusKm float64
	AverageRating    float64
	TotalDeliveries  int
	Products         []models.Product
}

type Filter struct {
	Category     models.ProductCategory // só produtores com ao menos um produto da categoria
	NameContains string                 // busca no nome ou na propriedade, sem case
	Kind         models.SupplierKind    // vazio = ambos os tipos

	// Quando Origin é informado, cada resultado carrega distância, desconto
	// e score, e a lista sai ordenada por distância crescente.
	Origin        *geo.Coordinate
	MaxDistanceKm float64 // 0 = sem limite; só vale com Origin
	// Exige que a escola esteja dentro do raio de entrega do produtor
	WithinDeliveryRadius bool
}

// Result - Entry enriquecida com os campos calculados a partir da origem.
type Result struct {
	Entry
	HasDistance     bool
	DistanceKm      float64
	DiscountPercent float64
	MatchScore      float64
}

// Apply - filtro/ordenação pura sobre a coleção recebida. Sem origem a
// ordem de entrada é preservada; com origem a ordenação é determinística
// (distância crescente, empate por nome).
func Apply(entries []Entry, f Filter) []Result {
	results := make([]Result, 0, len(entries))

	needle := strings.ToLower(strings.TrimSpace(f.NameContains))

	for _, e := range entries {
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Name), needle) &&
			!strings.Contains(strings.ToLower(e.PropertyName), needle) {
			continue
		}
		if f.Category != "" && !hasCategory(e.Products, f.Category) {
			continue
		}

		r := Result{Entry: e}

		if f.Origin != nil {
			d, err := geo.DistanceKm(*f.Origin, e.Coordinate)
			if err != nil {
				// cadastro com coordenada inválida fica fora de buscas por origem
				continue
			}
			r.HasDistance = true
			r.DistanceKm = d
			r.DiscountPercent = geo.ProximityDiscountPercent(d)
			r.MatchScore = geo.MatchScore(d, e.AverageRating)

			if f.MaxDistanceKm > 0 && d > f.MaxDistanceKm {
				continue
			}
			if f.WithinDeliveryRadius && e.DeliveryRadiusKm > 0 && d > e.DeliveryRadiusKm {
				continue
			}
		}

		results = append(results, r)
	}

	if f.Origin != nil {
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].DistanceKm != results[j].DistanceKm {
				return results[i].DistanceKm < results[j].DistanceKm
			}
			return results[i].Name < results[j].Name
		})
	}

	return results
}

func hasCategory(products []models.Product, cat models.ProductCategory) bool {
	for _, p := range products {
		if p.Category == cat {
			return true
		}
	}
	return false
}
