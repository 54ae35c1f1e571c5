package cart

import (
	"testing"

	"merenda-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alface = models.Product{Name: "Alface", Category: models.CategoryHortalicas, Unit: "maço", UnitPrice: 2.50}
	tomate = models.Product{Name: "Tomate", Category: models.CategoryHortalicas, Unit: "kg", UnitPrice: 6.00}
	arroz  = models.Product{Name: "Arroz", Category: models.CategoryOutros, Unit: "kg", UnitPrice: 5.80}
)

func TestAddItem(t *testing.T) {
	t.Run("primeira linha define o tipo do carrinho", func(t *testing.T) {
		c := New()
		assert.Equal(t, StateEmpty, c.State())

		err := c.AddItem(1, "João da Silva", alface, 2, models.KindAgriculturaFamiliar)
		require.NoError(t, err)

		assert.Equal(t, StateFilling, c.State())
		assert.Equal(t, models.KindAgriculturaFamiliar, c.Kind())
		assert.InDelta(t, 5.00, c.Total(), 1e-9)
	})

	t.Run("misturar tipos falha e não altera o carrinho", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddItem(1, "João da Silva", alface, 2, models.KindAgriculturaFamiliar))
		before := c.Lines()

		err := c.AddItem(3, "Distribuidora Alimenta Bem", arroz, 1, models.KindFornecedorNormal)

		var mixErr *MixedSupplierKindError
		require.ErrorAs(t, err, &mixErr)
		assert.Equal(t, models.KindAgriculturaFamiliar, mixErr.Active)
		assert.Equal(t, models.KindFornecedorNormal, mixErr.Attempted)

		// linha a linha, nada mudou
		assert.Equal(t, before, c.Lines())
		assert.Equal(t, models.KindAgriculturaFamiliar, c.Kind())
		assert.InDelta(t, 5.00, c.Total(), 1e-9)
	})

	t.Run("mesmo produtor e produto soma quantidades", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddItem(1, "João", alface, 2, models.KindAgriculturaFamiliar))
		require.NoError(t, c.AddItem(1, "João", alface, 3, models.KindAgriculturaFamiliar))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("quantidade não positiva é rejeitada", func(t *testing.T) {
		c := New()
		var vErr *ValidationError

		err := c.AddItem(1, "João", alface, 0, models.KindAgriculturaFamiliar)
		require.ErrorAs(t, err, &vErr)

		err = c.AddItem(1, "João", alface, -3, models.KindAgriculturaFamiliar)
		require.ErrorAs(t, err, &vErr)

		assert.Equal(t, StateEmpty, c.State())
		assert.Empty(t, c.Lines())
	})

	t.Run("tipo de fornecedor desconhecido é rejeitado", func(t *testing.T) {
		c := New()
		var vErr *ValidationError
		err := c.AddItem(1, "João", alface, 1, models.SupplierKind("cooperativa"))
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("dois produtores do mesmo tipo convivem", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddItem(1, "João", alface, 2, models.KindAgriculturaFamiliar))
		require.NoError(t, c.AddItem(2, "Maria", tomate, 1, models.KindAgriculturaFamiliar))
		assert.Len(t, c.Lines(), 2)
	})
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(1, "João", alface, 2, models.KindAgriculturaFamiliar))

	t.Run("atualiza", func(t *testing.T) {
		require.NoError(t, c.UpdateQuantity(1, "Alface", 7))
		assert.Equal(t, 7, c.Lines()[0].Quantity)
		assert.InDelta(t, 17.50, c.Total(), 1e-9)
	})

	t.Run("zero e negativo viram 1, linha não some", func(t *testing.T) {
		require.NoError(t, c.UpdateQuantity(1, "Alface", 0))
		assert.Equal(t, 1, c.Lines()[0].Quantity)

		require.NoError(t, c.UpdateQuantity(1, "Alface", -10))
		require.Len(t, c.Lines(), 1)
		assert.Equal(t, 1, c.Lines()[0].Quantity)
	})

	t.Run("linha inexistente", func(t *testing.T) {
		var vErr *ValidationError
		err := c.UpdateQuantity(99, "Couve", 2)
		require.ErrorAs(t, err, &vErr)
	})
}

func TestRemoveItem(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(1, "João", alface, 2, models.KindAgriculturaFamiliar))
	require.NoError(t, c.AddItem(1, "João", tomate, 1, models.KindAgriculturaFamiliar))

	require.NoError(t, c.RemoveItem(1, "Alface"))
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, StateFilling, c.State())

	// esvaziou: tipo liberado, pode começar de novo com outro tipo
	require.NoError(t, c.RemoveItem(1, "Tomate"))
	assert.Equal(t, StateEmpty, c.State())
	assert.Empty(t, c.Kind())

	require.NoError(t, c.AddItem(3, "Distribuidora", arroz, 1, models.KindFornecedorNormal))
	assert.Equal(t, models.KindFornecedorNormal, c.Kind())
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(1, "João", alface, 2, models.KindAgriculturaFamiliar))

	c.Clear()

	assert.Equal(t, StateEmpty, c.State())
	assert.Empty(t, c.Lines())
	assert.Zero(t, c.Total())
}

// total sempre bate com a soma recalculada das linhas, em qualquer sequência
func TestTotalSemDrift(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(1, "João", alface, 2, models.KindAgriculturaFamiliar))
	require.NoError(t, c.AddItem(2, "Maria", tomate, 3, models.KindAgriculturaFamiliar))
	require.NoError(t, c.UpdateQuantity(1, "Alface", 4))
	require.NoError(t, c.RemoveItem(2, "Tomate"))
	require.NoError(t, c.AddItem(1, "João", tomate, 2, models.KindAgriculturaFamiliar))

	var want float64
	for _, l := range c.Lines() {
		want += l.UnitPrice * float64(l.Quantity)
	}
	assert.InDelta(t, want, c.Total(), 1e-9)
}

func TestCheckout(t *testing.T) {
	t.Run("carrinho vazio não finaliza", func(t *testing.T) {
		c := New()
		_, err := c.Checkout()
		var emptyErr *EmptyCheckoutError
		require.ErrorAs(t, err, &emptyErr)
		assert.Equal(t, StateEmpty, c.State())
	})

	t.Run("checkout gera rascunho e trava o carrinho", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddItem(1, "João", alface, 2, models.KindAgriculturaFamiliar))
		require.NoError(t, c.AddItem(2, "Maria", tomate, 1, models.KindAgriculturaFamiliar))

		draft, err := c.Checkout()
		require.NoError(t, err)

		assert.Equal(t, models.KindAgriculturaFamiliar, draft.Kind)
		assert.Len(t, draft.Lines, 2)
		assert.InDelta(t, 11.00, draft.Total, 1e-9)
		assert.Equal(t, StateCommitted, c.State())

		// finalizado é terminal
		err = c.AddItem(1, "João", alface, 1, models.KindAgriculturaFamiliar)
		assert.ErrorIs(t, err, ErrCommitted)
		_, err = c.Checkout()
		assert.ErrorIs(t, err, ErrCommitted)
	})

	t.Run("rascunho agrupa linhas por produtor na ordem de inclusão", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddItem(2, "Maria", tomate, 1, models.KindAgriculturaFamiliar))
		require.NoError(t, c.AddItem(1, "João", alface, 2, models.KindAgriculturaFamiliar))
		require.NoError(t, c.AddItem(2, "Maria", alface, 3, models.KindAgriculturaFamiliar))

		draft, err := c.Checkout()
		require.NoError(t, err)

		groups := draft.LinesByProducer()
		require.Len(t, groups, 2)
		assert.Equal(t, uint(2), groups[0][0].ProducerID)
		assert.Len(t, groups[0], 2)
		assert.Equal(t, uint(1), groups[1][0].ProducerID)
	})
}

// cenário completo do fluxo da escola
func TestCenarioEscola(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem(1, "João da Silva", alface, 2, models.KindAgriculturaFamiliar))
	assert.InDelta(t, 2*alface.UnitPrice, c.Total(), 1e-9)

	err := c.AddItem(3, "Distribuidora", arroz, 1, models.KindFornecedorNormal)
	var mixErr *MixedSupplierKindError
	require.ErrorAs(t, err, &mixErr)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Alface", lines[0].ProductName)
}

func TestStore(t *testing.T) {
	s := NewStore()

	c1 := s.Get(10)
	c2 := s.Get(10)
	assert.Same(t, c1, c2)

	other := s.Get(20)
	assert.NotSame(t, c1, other)

	require.NoError(t, c1.AddItem(1, "João", alface, 1, models.KindAgriculturaFamiliar))
	s.Reset(10)
	fresh := s.Get(10)
	assert.NotSame(t, c1, fresh)
	assert.Equal(t, StateEmpty, fresh.State())
}
