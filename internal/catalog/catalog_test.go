package catalog

import (
	"testing"

	"merenda-backend/internal/geo"
	"merenda-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{
			ID:   1,
			Name: "João da Silva",
			Kind: models.KindAgriculturaFamiliar,
			// ~12 km da escola de teste
			Coordinate:       geo.Coordinate{Latitude: -23.5205, Longitude: -46.5833},
			DeliveryRadiusKm: 50,
			AverageRating:    4.8,
			Products: []models.Product{
				{Name: "Alface", Category: models.CategoryHortalicas, Unit: "maço", UnitPrice: 2.50},
				{Name: "Banana", Category: models.CategoryFrutas, Unit: "kg", UnitPrice: 4.00},
			},
		},
		{
			ID:               2,
			Name:             "Maria Fernanda Costa",
			PropertyName:     "Sítio Recanto Verde",
			Kind:             models.KindAgriculturaFamiliar,
			Coordinate:       geo.Coordinate{Latitude: -23.1791, Longitude: -46.8978}, // ~48 km
			DeliveryRadiusKm: 30,
			AverageRating:    4.5,
			Products: []models.Product{
				{Name: "Mandioca", Category: models.CategoryTuberculos, Unit: "kg", UnitPrice: 3.20},
			},
		},
		{
			ID:               3,
			Name:             "Distribuidora Alimenta Bem",
			Kind:             models.KindFornecedorNormal,
			Coordinate:       geo.Coordinate{Latitude: -23.5489, Longitude: -46.6388}, // colada na escola
			DeliveryRadiusKm: 200,
			AverageRating:    4.0,
			Products: []models.Product{
				{Name: "Arroz", Category: models.CategoryOutros, Unit: "kg", UnitPrice: 5.80},
				{Name: "Frango", Category: models.CategoryProteinas, Unit: "kg", UnitPrice: 14.90},
			},
		},
	}
}

var escola = geo.Coordinate{Latitude: -23.5489, Longitude: -46.6388}

func TestApplySemFiltroPreservaOrdem(t *testing.T) {
	entries := testEntries()
	got := Apply(entries, Filter{})

	require.Len(t, got, 3)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(2), got[1].ID)
	assert.Equal(t, uint(3), got[2].ID)
	assert.False(t, got[0].HasDistance)
}

func TestApplyFiltros(t *testing.T) {
	entries := testEntries()

	t.Run("por tipo de fornecedor", func(t *testing.T) {
		got := Apply(entries, Filter{Kind: models.KindAgriculturaFamiliar})
		require.Len(t, got, 2)
		for _, r := range got {
			assert.Equal(t, models.KindAgriculturaFamiliar, r.Kind)
		}
	})

	t.Run("por categoria de produto", func(t *testing.T) {
		got := Apply(entries, Filter{Category: models.CategoryProteinas})
		require.Len(t, got, 1)
		assert.Equal(t, uint(3), got[0].ID)
	})

	t.Run("por nome ou propriedade", func(t *testing.T) {
		got := Apply(entries, Filter{NameContains: "recanto"})
		require.Len(t, got, 1)
		assert.Equal(t, uint(2), got[0].ID)

		got = Apply(entries, Filter{NameContains: "JOÃO"})
		require.Len(t, got, 1)
		assert.Equal(t, uint(1), got[0].ID)
	})
}

func TestApplyComOrigem(t *testing.T) {
	entries := testEntries()

	t.Run("ordena por distância e calcula campos", func(t *testing.T) {
		got := Apply(entries, Filter{Origin: &escola})
		require.Len(t, got, 3)

		// distribuidora está colada na escola, depois João, depois Maria
		assert.Equal(t, uint(3), got[0].ID)
		assert.Equal(t, uint(1), got[1].ID)
		assert.Equal(t, uint(2), got[2].ID)

		for _, r := range got {
			assert.True(t, r.HasDistance)
		}
		assert.GreaterOrEqual(t, got[0].DiscountPercent, got[1].DiscountPercent)
		assert.Greater(t, got[0].MatchScore, 0.0)
	})

	t.Run("limite de distância", func(t *testing.T) {
		got := Apply(entries, Filter{Origin: &escola, MaxDistanceKm: 20})
		require.Len(t, got, 2)
		for _, r := range got {
			assert.LessOrEqual(t, r.DistanceKm, 20.0)
		}
	})

	t.Run("raio de entrega do produtor", func(t *testing.T) {
		// Maria entrega só até 30 km e está a ~48 km
		got := Apply(entries, Filter{Origin: &escola, WithinDeliveryRadius: true})
		for _, r := range got {
			assert.NotEqual(t, uint(2), r.ID)
		}
	})

	t.Run("coordenada inválida fica de fora", func(t *testing.T) {
		broken := append(testEntries(), Entry{
			ID:         9,
			Name:       "Cadastro Quebrado",
			Kind:       models.KindAgriculturaFamiliar,
			Coordinate: geo.Coordinate{Latitude: 999, Longitude: 0},
		})
		got := Apply(broken, Filter{Origin: &escola})
		for _, r := range got {
			assert.NotEqual(t, uint(9), r.ID)
		}
	})
}

func TestApplyNaoMutaEntrada(t *testing.T) {
	entries := testEntries()
	Apply(entries, Filter{Origin: &escola, Kind: models.KindAgriculturaFamiliar})

	fresh := testEntries()
	require.Equal(t, len(fresh), len(entries))
	for i := range entries {
		assert.Equal(t, fresh[i].ID, entries[i].ID)
		assert.Equal(t, fresh[i].Name, entries[i].Name)
	}
}

func TestApplyDeterministico(t *testing.T) {
	entries := testEntries()
	a := Apply(entries, Filter{Origin: &escola})
	b := Apply(entries, Filter{Origin: &escola})
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.Equal(t, a[i].DistanceKm, b[i].DistanceKm)
	}
}
