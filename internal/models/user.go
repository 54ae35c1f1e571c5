package models

import "time"

type UserRole string

const (
	RoleEscola     UserRole = "escola"
	RoleAgricultor UserRole = "agricultor"
	RoleSecretaria UserRole = "secretaria"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`

	// Vínculo com a entidade do perfil (escola ou produtor)
	SchoolID   *uint
	School     *School
	ProducerID *uint
	Producer   *Producer

	CreatedAt time.Time
	UpdatedAt time.Time
}
