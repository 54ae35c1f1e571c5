package cart

import (
	"errors"
	"fmt"

	"merenda-backend/internal/models"
)

// ValidationError - entrada rejeitada na borda da API (quantidade não
// positiva, item inexistente...). A operação que falha não altera o carrinho.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// MixedSupplierKindError - tentativa de misturar agricultura familiar e
// fornecedor normal no mesmo carrinho. O carrinho segue intacto; a escola
// precisa finalizar ou limpar o pedido em andamento antes de trocar de tipo.
type MixedSupplierKindError struct {
	Active    models.SupplierKind
	Attempted models.SupplierKind
}

func (e *MixedSupplierKindError) Error() string {
	return fmt.Sprintf(
		"o carrinho já contém itens de %s; finalize ou limpe o pedido antes de adicionar itens de %s",
		e.Active, e.Attempted,
	)
}

// EmptyCheckoutError - checkout sem nenhum item
type EmptyCheckoutError struct{}

func (e *EmptyCheckoutError) Error() string {
	return "não é possível finalizar um carrinho vazio"
}

// ErrCommitted - o carrinho já virou pedido; crie um novo para continuar
var ErrCommitted = errors.New("carrinho já finalizado")
