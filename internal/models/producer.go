package models

import "time"

// SupplierKind - tipo do fornecedor. Fixado na criação do produtor.
type SupplierKind string

const (
	KindAgriculturaFamiliar SupplierKind = "agricultura_familiar"
	KindFornecedorNormal    SupplierKind = "fornecedor_normal"
)

func (k SupplierKind) Valid() bool {
	return k == KindAgriculturaFamiliar || k == KindFornecedorNormal
}

// Producer - produtor rural ou fornecedor comum
type Producer struct {
	ID           uint         `gorm:"primaryKey"`
	Name         string       `gorm:"size:150;not null"`
	PropertyName string       `gorm:"size:150"` // nome do sítio/fazenda/empresa
	Kind         SupplierKind `gorm:"size:30;not null;index"`

	// DAP/CAF - documento que habilita o produtor a contar na meta de 30%
	HasDAP    bool   `gorm:"not null;default:false"`
	DAPNumber string `gorm:"size:30"`

	Phone string `gorm:"size:50"`
	Email string `gorm:"size:100"`

	Latitude         float64 `gorm:"not null"`
	Longitude        float64 `gorm:"not null"`
	Address          string  `gorm:"size:255"`
	DeliveryRadiusKm float64 `gorm:"default:0"`

	AverageRating   float64 `gorm:"default:0"` // média das avaliações (0-5)
	TotalReviews    int     `gorm:"default:0"`
	TotalDeliveries int     `gorm:"default:0"`

	Certifications string `gorm:"size:255"` // lista separada por vírgula

	Products []Product

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsTowardQuota - só produtores da agricultura familiar com DAP/CAF válida
// entram no cálculo da meta legal de 30% (Lei 11.947/2009).
func (p *Producer) CountsTowardQuota() bool {
	return p.Kind == KindAgriculturaFamiliar && p.HasDAP && p.DAPNumber != ""
}
