package geo

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// Raio médio da Terra em km
	earthRadiusKm = 6371.0

	// Desconto de proximidade: produtores próximos economizam em logística
	// e repassam o desconto. Zera a partir de 50 km, teto de 20%.
	discountMaxDistanceKm = 50.0
	discountCapPercent    = 20.0
)

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ValidationError - coordenada fora do intervalo válido
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return &ValidationError{Field: "latitude", Reason: "deve estar entre -90 e 90"}
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return &ValidationError{Field: "longitude", Reason: "deve estar entre -180 e 180"}
	}
	return nil
}

// DistanceKm - distância de Haversine entre duas coordenadas, em km.
// Precisa o bastante para distâncias curtas na superfície esférica da Terra.
func DistanceKm(a, b Coordinate) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c, nil
}

// ProximityDiscountPercent - desconto linear pela distância:
// 0 a partir de 50 km, senão min(20, (50 - d) / 2).
func ProximityDiscountPercent(distanceKm float64) float64 {
	if distanceKm >= discountMaxDistanceKm {
		return 0
	}
	discount := (discountMaxDistanceKm - distanceKm) / 2
	return math.Min(discount, discountCapPercent)
}

// ApplyDiscount - aplica o desconto percentual ao preço, arredondando
// para centavos.
func ApplyDiscount(price float64, percent float64) float64 {
	if percent <= 0 {
		return price
	}
	p := decimal.NewFromFloat(price)
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100)))
	result, _ := p.Mul(factor).Round(2).Float64()
	return result
}

// MatchScore - compatibilidade escola/produtor: 60% de peso para a
// proximidade (inverso da distância) e 40% para a avaliação média (0-5).
func MatchScore(distanceKm, avgRating float64) float64 {
	if distanceKm <= 0 {
		distanceKm = 0.1 // evita divisão por zero
	}
	proximity := 0.6 / distanceKm
	quality := 0.4 * (avgRating / 5.0)
	return proximity + quality
}
