package models

import "time"

type ProductCategory string

const (
	CategoryHortalicas ProductCategory = "hortalicas"
	CategoryFrutas     ProductCategory = "frutas"
	CategoryTuberculos ProductCategory = "tuberculos"
	CategoryProteinas  ProductCategory = "proteinas"
	CategoryOutros     ProductCategory = "outros"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryHortalicas, CategoryFrutas, CategoryTuberculos, CategoryProteinas, CategoryOutros:
		return true
	}
	return false
}

// Product - produto ofertado por um produtor. Não existe fora do produtor dono.
type Product struct {
	ID         uint `gorm:"primaryKey"`
	ProducerID uint `gorm:"index;not null"`

	Name     string          `gorm:"size:100;not null"`
	Category ProductCategory `gorm:"size:20;not null;index"`
	Unit     string          `gorm:"size:20;not null"` // kg, maço, dúzia, unidade
	// Preço unitário base, sem desconto de proximidade
	UnitPrice float64 `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
