package database

import (
	"merenda-backend/internal/config"
	"merenda-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("não foi possível conectar ao banco: %v", err)
	}

	err = DB.AutoMigrate(
		&models.School{},
		&models.Producer{},
		&models.Product{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.AuditLog{},
	)
	if err != nil {
		logrus.Fatalf("erro no AutoMigrate: %v", err)
	}

	logrus.Info("conexão com o banco estabelecida, migration concluída")

	if cfg.SeedDemo {
		if err := SeedDemoData(DB); err != nil {
			logrus.Fatalf("erro ao carregar dados de demonstração: %v", err)
		}
	}
}
