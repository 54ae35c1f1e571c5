package compliance

import (
	"testing"

	"merenda-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// produtores 1 e 2 são agricultura familiar com DAP; 3 é fornecedor comum
func isAF(producerID uint) bool {
	return producerID == 1 || producerID == 2
}

func delivered(producerID uint, producerName string, schoolID uint, schoolName string, total float64) models.Order {
	return models.Order{
		ProducerID:   producerID,
		ProducerName: producerName,
		SchoolID:     schoolID,
		SchoolName:   schoolName,
		Total:        total,
		Status:       models.StatusEntregue,
	}
}

func TestComputeSnapshot(t *testing.T) {
	t.Run("meta batida exatamente em 30% é inclusiva", func(t *testing.T) {
		orders := []models.Order{
			delivered(1, "João", 10, "EMEF A", 300),
			delivered(3, "Distribuidora", 10, "EMEF A", 700),
		}

		snap := ComputeSnapshot(orders, isAF)

		assert.Equal(t, 1000.0, snap.TotalSpend)
		assert.Equal(t, 300.0, snap.SmallholderSpend)
		require.NotNil(t, snap.Ratio)
		assert.InDelta(t, 0.30, *snap.Ratio, 1e-9)
		assert.True(t, snap.MeetsThreshold)
	})

	t.Run("abaixo da meta", func(t *testing.T) {
		orders := []models.Order{
			delivered(1, "João", 10, "EMEF A", 299.99),
			delivered(3, "Distribuidora", 10, "EMEF A", 700.01),
		}
		snap := ComputeSnapshot(orders, isAF)
		assert.False(t, snap.MeetsThreshold)
	})

	t.Run("pendentes e cancelados nunca contam", func(t *testing.T) {
		orders := []models.Order{
			delivered(1, "João", 10, "EMEF A", 500),
			{ProducerID: 3, SchoolID: 10, Total: 9999, Status: models.StatusPendente},
			{ProducerID: 3, SchoolID: 10, Total: 9999, Status: models.StatusCancelado},
			{ProducerID: 3, SchoolID: 10, Total: 9999, Status: models.StatusEmTransito},
		}

		snap := ComputeSnapshot(orders, isAF)

		assert.Equal(t, 500.0, snap.TotalSpend)
		assert.Equal(t, 1, snap.DeliveredOrders)
		require.NotNil(t, snap.Ratio)
		assert.InDelta(t, 1.0, *snap.Ratio, 1e-9)
	})

	t.Run("sem pedidos entregues a razão é nula, nunca NaN", func(t *testing.T) {
		snap := ComputeSnapshot(nil, isAF)
		assert.Nil(t, snap.Ratio)
		assert.False(t, snap.MeetsThreshold)
		assert.Zero(t, snap.TotalSpend)

		snap = ComputeSnapshot([]models.Order{
			{ProducerID: 1, Total: 100, Status: models.StatusPendente},
		}, isAF)
		assert.Nil(t, snap.Ratio)
	})

	t.Run("razão sempre entre 0 e 1", func(t *testing.T) {
		orders := []models.Order{
			delivered(1, "João", 10, "EMEF A", 123.45),
			delivered(2, "Maria", 11, "EMEF B", 67.89),
			delivered(3, "Distribuidora", 10, "EMEF A", 456.78),
		}
		snap := ComputeSnapshot(orders, isAF)
		require.NotNil(t, snap.Ratio)
		assert.GreaterOrEqual(t, *snap.Ratio, 0.0)
		assert.LessOrEqual(t, *snap.Ratio, 1.0)
	})
}

func TestRankProducers(t *testing.T) {
	rated := delivered(1, "João", 10, "EMEF A", 200)
	rated.Review = &models.Review{Rating: 5}
	rated2 := delivered(1, "João", 11, "EMEF B", 100)
	rated2.Review = &models.Review{Rating: 4}

	orders := []models.Order{
		rated,
		rated2,
		delivered(2, "Maria", 10, "EMEF A", 450),
		delivered(3, "Distribuidora", 11, "EMEF B", 450),
		{ProducerID: 2, ProducerName: "Maria", SchoolID: 10, Total: 5000, Status: models.StatusCancelado},
	}

	ranking := RankProducers(orders)
	require.Len(t, ranking, 3)

	// empate de 450 entre Distribuidora e Maria: nome crescente decide
	assert.Equal(t, "Distribuidora", ranking[0].ProducerName)
	assert.Equal(t, "Maria", ranking[1].ProducerName)
	assert.Equal(t, "João", ranking[2].ProducerName)

	joao := ranking[2]
	assert.Equal(t, 300.0, joao.TotalSpend)
	assert.Equal(t, 2, joao.Deliveries)
	assert.True(t, joao.HasRating)
	assert.InDelta(t, 4.5, joao.AverageRating, 1e-9)

	// pedidos sem avaliação não entram na média
	maria := ranking[1]
	assert.False(t, maria.HasRating)
	assert.Zero(t, maria.AverageRating)
}

func TestRankProducersDeterministico(t *testing.T) {
	orders := []models.Order{
		delivered(5, "Carlos", 10, "EMEF A", 100),
		delivered(4, "Ana", 10, "EMEF A", 100),
		delivered(6, "Bruna", 10, "EMEF A", 100),
	}

	first := RankProducers(orders)
	for i := 0; i < 20; i++ {
		again := RankProducers(orders)
		require.Equal(t, first, again)
	}
	assert.Equal(t, "Ana", first[0].ProducerName)
	assert.Equal(t, "Bruna", first[1].ProducerName)
	assert.Equal(t, "Carlos", first[2].ProducerName)
}

func TestRankSchools(t *testing.T) {
	orders := []models.Order{
		delivered(1, "João", 10, "EMEF A", 300),
		delivered(3, "Distribuidora", 10, "EMEF A", 700),
		delivered(2, "Maria", 11, "EMEF B", 100),
		delivered(1, "João", 12, "EMEF C", 50),
		delivered(3, "Distribuidora", 12, "EMEF C", 50),
	}

	ranking := RankSchools(orders, isAF)
	require.Len(t, ranking, 3)

	// EMEF B: 100% AF, EMEF C: 50%, EMEF A: 30%
	assert.Equal(t, "EMEF B", ranking[0].SchoolName)
	assert.Equal(t, 100.0, ranking[0].AFPercent)
	assert.Equal(t, "EMEF C", ranking[1].SchoolName)
	assert.Equal(t, "EMEF A", ranking[2].SchoolName)
	assert.Equal(t, 30.0, ranking[2].AFPercent)
	assert.Equal(t, 1000.0, ranking[2].TotalSpend)
	assert.Equal(t, 2, ranking[2].Orders)
}

func TestRankingsVaziosSemErro(t *testing.T) {
	assert.Empty(t, RankProducers(nil))
	assert.Empty(t, RankSchools(nil, isAF))
	assert.Empty(t, RankProducers([]models.Order{}))
}
