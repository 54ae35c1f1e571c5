package models

import "time"

type OrderStatus string

const (
	StatusPendente   OrderStatus = "pendente"
	StatusConfirmado OrderStatus = "confirmado"
	StatusEmTransito OrderStatus = "em_transito"
	StatusEntregue   OrderStatus = "entregue"
	StatusCancelado  OrderStatus = "cancelado"
)

// posição de cada status na cadeia pendente → confirmado → em_transito → entregue
var statusChain = map[OrderStatus]int{
	StatusPendente:   0,
	StatusConfirmado: 1,
	StatusEmTransito: 2,
	StatusEntregue:   3,
}

// CanTransitionTo - transições avançam um passo por vez na cadeia;
// cancelamento é terminal e vale a partir de qualquer status não entregue.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == StatusEntregue || s == StatusCancelado {
		return false
	}
	if next == StatusCancelado {
		return true
	}
	cur, ok := statusChain[s]
	nxt, okNext := statusChain[next]
	return ok && okNext && nxt == cur+1
}

type LogisticsType string

const (
	LogisticsEntrega  LogisticsType = "entrega"
	LogisticsRetirada LogisticsType = "retirada"
)

// Order - pedido de compra. Imutável após a criação, exceto o status
// e o vínculo com a avaliação pós-entrega.
type Order struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:20;uniqueIndex;not null"` // ex: PED3F2A91BC

	SchoolID   uint   `gorm:"index;not null"`
	School     School `gorm:"foreignKey:SchoolID"`
	SchoolName string `gorm:"size:150;not null"` // denormalizado para rankings

	ProducerID   uint     `gorm:"index;not null"`
	Producer     Producer `gorm:"foreignKey:ProducerID"`
	ProducerName string   `gorm:"size:150;not null"`

	// Tipo do fornecedor capturado no checkout. Para compliance vale o
	// cadastro atual do produtor, não este rótulo.
	SupplierKind SupplierKind `gorm:"size:30;not null"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
	Total float64     `gorm:"not null"` // soma dos subtotais dos itens

	LogisticsType       LogisticsType `gorm:"size:20;not null"`
	OrderDate           time.Time     `gorm:"index;not null"`
	DesiredDeliveryDate time.Time
	DeliveredAt         *time.Time

	Status OrderStatus `gorm:"size:20;index;not null"`
	Note   string      `gorm:"size:255"`

	Review *Review `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID      uint `gorm:"primaryKey"`
	OrderID uint `gorm:"index;not null"`

	ProductName string          `gorm:"size:100;not null"`
	Category    ProductCategory `gorm:"size:20"`
	Unit        string          `gorm:"size:20;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   float64         `gorm:"not null"`
	Subtotal    float64         `gorm:"not null"` // quantity * unit_price

	CreatedAt time.Time
	UpdatedAt time.Time
}
