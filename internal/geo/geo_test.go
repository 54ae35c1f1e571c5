package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	saoPaulo := Coordinate{Latitude: -23.5505, Longitude: -46.6333}
	rio := Coordinate{Latitude: -22.9068, Longitude: -43.1729}
	guarulhos := Coordinate{Latitude: -23.4538, Longitude: -46.5333}

	t.Run("distância conhecida SP-Rio", func(t *testing.T) {
		d, err := DistanceKm(saoPaulo, rio)
		require.NoError(t, err)
		// ~357 km em linha reta
		assert.InDelta(t, 357.0, d, 5.0)
	})

	t.Run("mesmo ponto é zero", func(t *testing.T) {
		d, err := DistanceKm(saoPaulo, saoPaulo)
		require.NoError(t, err)
		assert.Zero(t, d)
	})

	t.Run("simetria", func(t *testing.T) {
		ab, err := DistanceKm(saoPaulo, guarulhos)
		require.NoError(t, err)
		ba, err := DistanceKm(guarulhos, saoPaulo)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	})

	t.Run("coordenadas inválidas", func(t *testing.T) {
		cases := []Coordinate{
			{Latitude: 91, Longitude: 0},
			{Latitude: -90.5, Longitude: 0},
			{Latitude: 0, Longitude: 181},
			{Latitude: 0, Longitude: -180.1},
		}
		for _, bad := range cases {
			_, err := DistanceKm(bad, saoPaulo)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)

			_, err = DistanceKm(saoPaulo, bad)
			assert.ErrorAs(t, err, &vErr)
		}
	})
}

func TestProximityDiscountPercent(t *testing.T) {
	cases := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"muito perto atinge o teto", 5, 20},
		{"10 km ainda no teto", 10, 20},
		{"decaimento linear", 30, 10},
		{"quase no limite", 46, 2},
		{"exatamente 50 km zera", 50, 0},
		{"além de 50 km zera", 60, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ProximityDiscountPercent(tc.distance), 1e-9)
		})
	}

	t.Run("nunca cresce com a distância e nunca passa de 20", func(t *testing.T) {
		prev := ProximityDiscountPercent(0)
		assert.LessOrEqual(t, prev, 20.0)
		for d := 0.5; d <= 80; d += 0.5 {
			cur := ProximityDiscountPercent(d)
			assert.LessOrEqual(t, cur, prev, "distância %.1f", d)
			assert.LessOrEqual(t, cur, 20.0)
			assert.GreaterOrEqual(t, cur, 0.0)
			prev = cur
		}
	})
}

func TestApplyDiscount(t *testing.T) {
	assert.Equal(t, 8.0, ApplyDiscount(10.0, 20))
	assert.Equal(t, 10.0, ApplyDiscount(10.0, 0))
	assert.Equal(t, 10.0, ApplyDiscount(10.0, -5))
	// arredondamento para centavos
	assert.Equal(t, 8.45, ApplyDiscount(10.0, 15.5))
}

func TestMatchScore(t *testing.T) {
	// 0.6/10 + 0.4*(4.0/5) = 0.06 + 0.32
	assert.InDelta(t, 0.38, MatchScore(10, 4.0), 1e-9)

	// distância zero é tratada como 0.1
	assert.InDelta(t, MatchScore(0.1, 5), MatchScore(0, 5), 1e-9)

	// mais perto pontua mais
	assert.Greater(t, MatchScore(2, 4), MatchScore(20, 4))
}
