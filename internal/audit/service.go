package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"merenda-backend/internal/database"
	"merenda-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// jsonb do Postgres aceita "null", não string vazia
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log não pôde ser gravado: %w", err)
	}

	return nil
}

// UndoLog - desfaz a operação registrada num log. Só entidades editáveis
// entram no switch; pedidos são imutáveis por regra de negócio e ficam de fora.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log não encontrado: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("esta operação já foi desfeita")
	}

	switch log.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("não foi possível excluir a entidade: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("não foi possível restaurar a entidade: %w", err)
		}

	case models.AuditActionDelete:
		if err := recreateEntity(log.EntityType, log.AfterData); err != nil {
			return fmt.Errorf("não foi possível recriar a entidade: %w", err)
		}

	default:
		return fmt.Errorf("este tipo de operação não pode ser desfeito")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log não pôde ser atualizado: %w", err)
	}

	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Desfeito: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("log de undo não pôde ser gravado: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "product":
		return database.DB.Delete(&models.Product{}, "id = ?", entityID).Error
	case "review":
		return database.DB.Delete(&models.Review{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("tipo de entidade desconhecido: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "product":
		var product models.Product
		if err := json.Unmarshal([]byte(dataJSON), &product); err != nil {
			return err
		}
		product.ID = 0
		return database.DB.Create(&product).Error

	case "review":
		var review models.Review
		if err := json.Unmarshal([]byte(dataJSON), &review); err != nil {
			return err
		}
		review.ID = 0
		return database.DB.Create(&review).Error

	default:
		return fmt.Errorf("tipo de entidade desconhecido: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "product":
		var product models.Product
		if err := json.Unmarshal([]byte(dataJSON), &product); err != nil {
			return err
		}
		return database.DB.Model(&models.Product{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":       product.Name,
			"category":   product.Category,
			"unit":       product.Unit,
			"unit_price": product.UnitPrice,
		}).Error

	default:
		return fmt.Errorf("tipo de entidade desconhecido: %s", entityType)
	}
}
