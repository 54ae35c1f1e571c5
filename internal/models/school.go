package models

import "time"

type School struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:150;not null;unique"`
	Type    string `gorm:"size:50"` // EMEF, EMEI, CEU etc.
	CNPJ    string `gorm:"size:20"`
	Address string `gorm:"size:255"`
	City    string `gorm:"size:100"`
	State   string `gorm:"size:2"`

	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`

	Director string `gorm:"size:100"`
	Phone    string `gorm:"size:50"`
	Email    string `gorm:"size:100"`

	TotalStudents     int     `gorm:"default:0"`
	MealsPerDay       int     `gorm:"default:0"`
	MonthlyBudgetPNAE float64 `gorm:"default:0"` // orçamento mensal do PNAE

	CreatedAt time.Time
	UpdatedAt time.Time
}
