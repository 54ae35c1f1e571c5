package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionUndo   AuditAction = "undo"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Quem fez?
	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalizado

	// Em qual entidade? (ex: "product", "order", "review")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action AuditAction `gorm:"size:20" json:"action"`

	Description string `gorm:"size:255" json:"description"`

	// Estado antes e depois (JSON)
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`

	// Este log nasceu de um undo?
	Undone bool `json:"undone"`

	// Este log foi desfeito?
	IsUndone bool       `gorm:"default:false" json:"is_undone"`
	UndoneBy *uint      `json:"undone_by"`
	UndoneAt *time.Time `json:"undone_at"`
}
