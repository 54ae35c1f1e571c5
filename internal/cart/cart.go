package cart

import (
	"merenda-backend/internal/models"
)

type State string

const (
	StateEmpty     State = "vazio"
	StateFilling   State = "em_andamento"
	StateCommitted State = "finalizado"
)

// Line - uma linha do carrinho. O tipo do fornecedor é capturado no
// momento da inclusão.
type Line struct {
	ProducerID   uint                   `json:"produtor_id"`
	ProducerName string                 `json:"produtor_nome"`
	ProductName  string                 `json:"produto_nome"`
	Category     models.ProductCategory `json:"categoria"`
	Unit         string                 `json:"unidade"`
	UnitPrice    float64                `json:"preco_unitario"`
	Quantity     int                    `json:"quantidade"`
	Kind         models.SupplierKind    `json:"tipo_fornecedor"`
}

func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart - um carrinho por sessão de escola. Invariante central: todas as
// linhas compartilham o mesmo tipo de fornecedor (regra do PNAE não permite
// misturar agricultura familiar e fornecedor comum num mesmo processo).
//
// Um Cart tem exatamente um escritor lógico (a sessão do usuário); o
// controle de concorrência entre sessões fica no Store.
type Cart struct {
	lines []Line
	kind  models.SupplierKind // vazio até a primeira linha
	state State
}

func New() *Cart {
	return &Cart{state: StateEmpty}
}

func (c *Cart) State() State              { return c.state }
func (c *Cart) Kind() models.SupplierKind { return c.kind }

// Lines - cópia das linhas; o chamador não consegue alterar o carrinho por ela.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total - sempre recalculado a partir das linhas atuais, nunca cacheado.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount - soma das quantidades (badge do carrinho na UI)
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// AddItem - adiciona uma linha. Mesmo produtor+produto soma quantidades em
// vez de duplicar. Tipo diferente do ativo é rejeitado sem alterar nada.
func (c *Cart) AddItem(producerID uint, producerName string, product models.Product, quantity int, kind models.SupplierKind) error {
	if c.state == StateCommitted {
		return ErrCommitted
	}
	if quantity <= 0 {
		return &ValidationError{Field: "quantidade", Reason: "deve ser um inteiro positivo"}
	}
	if !kind.Valid() {
		return &ValidationError{Field: "tipo_fornecedor", Reason: "tipo desconhecido"}
	}

	if c.state == StateFilling && kind != c.kind {
		return &MixedSupplierKindError{Active: c.kind, Attempted: kind}
	}

	if c.state == StateEmpty {
		c.kind = kind
		c.state = StateFilling
	}

	for i := range c.lines {
		if c.lines[i].ProducerID == producerID && c.lines[i].ProductName == product.Name {
			c.lines[i].Quantity += quantity
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ProducerID:   producerID,
		ProducerName: producerName,
		ProductName:  product.Name,
		Category:     product.Category,
		Unit:         product.Unit,
		UnitPrice:    product.UnitPrice,
		Quantity:     quantity,
		Kind:         kind,
	})
	return nil
}

// UpdateQuantity - ajusta a quantidade de uma linha. Zero ou negativo vira 1:
// entrada inválida não remove a linha, só a reseta (política de tolerância
// da UI, não falha silenciosa).
func (c *Cart) UpdateQuantity(producerID uint, productName string, quantity int) error {
	if c.state == StateCommitted {
		return ErrCommitted
	}
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].ProducerID == producerID && c.lines[i].ProductName == productName {
			c.lines[i].Quantity = quantity
			return nil
		}
	}
	return &ValidationError{Field: "item", Reason: "não está no carrinho"}
}

// RemoveItem - remove uma linha; carrinho que esvazia volta ao estado
// inicial e libera o tipo de fornecedor.
func (c *Cart) RemoveItem(producerID uint, productName string) error {
	if c.state == StateCommitted {
		return ErrCommitted
	}
	for i := range c.lines {
		if c.lines[i].ProducerID == producerID && c.lines[i].ProductName == productName {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			if len(c.lines) == 0 {
				c.kind = ""
				c.state = StateEmpty
			}
			return nil
		}
	}
	return &ValidationError{Field: "item", Reason: "não está no carrinho"}
}

// Clear - esvazia incondicionalmente, inclusive um carrinho já finalizado.
func (c *Cart) Clear() {
	c.lines = nil
	c.kind = ""
	c.state = StateEmpty
}

// Draft - resultado do checkout: rascunho imutável consumido pela camada
// de pedidos. As linhas podem abranger mais de um produtor (sempre do
// mesmo tipo); vira um pedido por produtor.
type Draft struct {
	Kind  models.SupplierKind
	Lines []Line
	Total float64
}

// LinesByProducer - agrupa as linhas preservando a ordem de inclusão
// dos produtores.
func (d Draft) LinesByProducer() [][]Line {
	var order []uint
	byProducer := make(map[uint][]Line)
	for _, l := range d.Lines {
		if _, seen := byProducer[l.ProducerID]; !seen {
			order = append(order, l.ProducerID)
		}
		byProducer[l.ProducerID] = append(byProducer[l.ProducerID], l)
	}
	groups := make([][]Line, 0, len(order))
	for _, id := range order {
		groups = append(groups, byProducer[id])
	}
	return groups
}

// Checkout - só vale com ao menos uma linha. Em caso de sucesso o carrinho
// fica finalizado; a sessão deve criar um carrinho novo para comprar de novo.
func (c *Cart) Checkout() (Draft, error) {
	if c.state == StateCommitted {
		return Draft{}, ErrCommitted
	}
	if len(c.lines) == 0 {
		return Draft{}, &EmptyCheckoutError{}
	}

	draft := Draft{
		Kind:  c.kind,
		Lines: c.Lines(),
		Total: c.Total(),
	}
	c.state = StateCommitted
	return draft, nil
}
