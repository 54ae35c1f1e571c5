package models

import "time"

// Review - avaliação pós-entrega. No máximo uma por pedido.
type Review struct {
	ID      uint `gorm:"primaryKey"`
	OrderID uint `gorm:"uniqueIndex;not null"`

	SchoolID   uint `gorm:"index;not null"`
	ProducerID uint `gorm:"index;not null"`

	Rating  int    `gorm:"not null"`  // 1-5
	Tags    string `gorm:"size:255"`  // lista separada por vírgula ("Fresco,No Prazo")
	Comment string `gorm:"size:500"`

	ReviewDate time.Time `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
