package database

import (
	"fmt"
	"time"

	"merenda-backend/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDemoData - popula um banco vazio com as fixtures de demonstração
// (escolas, produtores com e sem DAP, produtos, histórico de pedidos e
// avaliações). Faz as vezes dos datasets mockados do protótipo; com dados
// reais basta desligar SEED_DEMO_DATA.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Producer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // banco já tem dados, não mexe
	}

	logrus.Info("banco vazio: carregando dados de demonstração")

	return db.Transaction(func(tx *gorm.DB) error {
		schools := []models.School{
			{
				Name: "EMEF Prof. Maria Aparecida", Type: "EMEF", City: "São Paulo", State: "SP",
				Latitude: -23.5489, Longitude: -46.6388,
				Director: "Ana Lúcia Ferreira", TotalStudents: 420, MealsPerDay: 2,
				MonthlyBudgetPNAE: 12600,
			},
			{
				Name: "EMEF Dr. José de Campos", Type: "EMEF", City: "São Paulo", State: "SP",
				Latitude: -23.5289, Longitude: -46.6188,
				Director: "Carlos Eduardo Lima", TotalStudents: 310, MealsPerDay: 2,
				MonthlyBudgetPNAE: 9300,
			},
			{
				Name: "EMEF Monteiro Lobato", Type: "EMEF", City: "São Paulo", State: "SP",
				Latitude: -23.5689, Longitude: -46.6588,
				Director: "Regina Souza", TotalStudents: 515, MealsPerDay: 3,
				MonthlyBudgetPNAE: 15450,
			},
		}
		if err := tx.Create(&schools).Error; err != nil {
			return err
		}

		producers := []models.Producer{
			{
				Name: "João da Silva", PropertyName: "Sítio Boa Vista",
				Kind: models.KindAgriculturaFamiliar, HasDAP: true, DAPNumber: "DAP-12345678",
				Latitude: -23.5205, Longitude: -46.5833, DeliveryRadiusKm: 50,
				AverageRating: 4.8, TotalReviews: 24, TotalDeliveries: 24,
				Certifications: "Orgânico,Selo AF",
				Products: []models.Product{
					{Name: "Alface", Category: models.CategoryHortalicas, Unit: "maço", UnitPrice: 2.50},
					{Name: "Tomate", Category: models.CategoryHortalicas, Unit: "kg", UnitPrice: 6.00},
					{Name: "Cenoura", Category: models.CategoryHortalicas, Unit: "kg", UnitPrice: 4.50},
					{Name: "Banana", Category: models.CategoryFrutas, Unit: "kg", UnitPrice: 4.00},
				},
			},
			{
				Name: "Maria Fernanda Costa", PropertyName: "Sítio Recanto Verde",
				Kind: models.KindAgriculturaFamiliar, HasDAP: true, DAPNumber: "CAF-87654321",
				Latitude: -23.4538, Longitude: -46.5333, DeliveryRadiusKm: 40,
				AverageRating: 4.5, TotalReviews: 17, TotalDeliveries: 18,
				Certifications: "Selo AF",
				Products: []models.Product{
					{Name: "Mandioca", Category: models.CategoryTuberculos, Unit: "kg", UnitPrice: 3.20},
					{Name: "Batata Doce", Category: models.CategoryTuberculos, Unit: "kg", UnitPrice: 3.80},
					{Name: "Laranja", Category: models.CategoryFrutas, Unit: "kg", UnitPrice: 3.00},
				},
			},
			{
				// rotulado agricultura familiar mas sem DAP: aparece no
				// marketplace e NÃO conta na meta de 30%
				Name: "Pedro Oliveira", PropertyName: "Chácara Santo Antônio",
				Kind: models.KindAgriculturaFamiliar, HasDAP: false,
				Latitude: -23.6105, Longitude: -46.7033, DeliveryRadiusKm: 30,
				AverageRating: 4.2, TotalReviews: 6, TotalDeliveries: 7,
				Products: []models.Product{
					{Name: "Couve", Category: models.CategoryHortalicas, Unit: "maço", UnitPrice: 2.80},
					{Name: "Mamão", Category: models.CategoryFrutas, Unit: "kg", UnitPrice: 5.50},
				},
			},
			{
				Name: "Distribuidora Alimenta Bem", PropertyName: "Alimenta Bem Ltda",
				Kind: models.KindFornecedorNormal,
				Latitude: -23.5489, Longitude: -46.6988, DeliveryRadiusKm: 200,
				AverageRating: 4.0, TotalReviews: 31, TotalDeliveries: 40,
				Products: []models.Product{
					{Name: "Arroz", Category: models.CategoryOutros, Unit: "kg", UnitPrice: 5.80},
					{Name: "Feijão", Category: models.CategoryOutros, Unit: "kg", UnitPrice: 8.90},
					{Name: "Frango", Category: models.CategoryProteinas, Unit: "kg", UnitPrice: 14.90},
					{Name: "Carne Moída", Category: models.CategoryProteinas, Unit: "kg", UnitPrice: 32.00},
				},
			},
		}
		if err := tx.Create(&producers).Error; err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("merenda123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		users := []models.User{
			{Name: "Ana Lúcia Ferreira", Email: "escola@demo.merenda.gov.br", PasswordHash: string(hash), Role: models.RoleEscola, SchoolID: &schools[0].ID},
			{Name: "João da Silva", Email: "agricultor@demo.merenda.gov.br", PasswordHash: string(hash), Role: models.RoleAgricultor, ProducerID: &producers[0].ID},
			{Name: "Secretaria de Educação", Email: "secretaria@demo.merenda.gov.br", PasswordHash: string(hash), Role: models.RoleSecretaria},
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}

		// histórico: pedidos entregues alimentam dashboard e rankings
		now := time.Now()
		type seedOrder struct {
			school   *models.School
			producer *models.Producer
			daysAgo  int
			status   models.OrderStatus
			rating   int // 0 = sem avaliação
			items    []models.OrderItem
		}
		seeds := []seedOrder{
			{
				school: &schools[0], producer: &producers[0], daysAgo: 40, status: models.StatusEntregue, rating: 5,
				items: []models.OrderItem{
					{ProductName: "Alface", Category: models.CategoryHortalicas, Unit: "maço", Quantity: 60, UnitPrice: 2.50},
					{ProductName: "Tomate", Category: models.CategoryHortalicas, Unit: "kg", Quantity: 30, UnitPrice: 6.00},
				},
			},
			{
				school: &schools[0], producer: &producers[3], daysAgo: 35, status: models.StatusEntregue, rating: 4,
				items: []models.OrderItem{
					{ProductName: "Arroz", Category: models.CategoryOutros, Unit: "kg", Quantity: 100, UnitPrice: 5.80},
					{ProductName: "Frango", Category: models.CategoryProteinas, Unit: "kg", Quantity: 25, UnitPrice: 14.90},
				},
			},
			{
				school: &schools[1], producer: &producers[1], daysAgo: 28, status: models.StatusEntregue, rating: 5,
				items: []models.OrderItem{
					{ProductName: "Mandioca", Category: models.CategoryTuberculos, Unit: "kg", Quantity: 50, UnitPrice: 3.20},
					{ProductName: "Laranja", Category: models.CategoryFrutas, Unit: "kg", Quantity: 40, UnitPrice: 3.00},
				},
			},
			{
				school: &schools[1], producer: &producers[3], daysAgo: 21, status: models.StatusEntregue,
				items: []models.OrderItem{
					{ProductName: "Feijão", Category: models.CategoryOutros, Unit: "kg", Quantity: 60, UnitPrice: 8.90},
				},
			},
			{
				school: &schools[2], producer: &producers[2], daysAgo: 14, status: models.StatusEntregue, rating: 4,
				items: []models.OrderItem{
					{ProductName: "Couve", Category: models.CategoryHortalicas, Unit: "maço", Quantity: 80, UnitPrice: 2.80},
				},
			},
			{
				school: &schools[2], producer: &producers[0], daysAgo: 5, status: models.StatusConfirmado,
				items: []models.OrderItem{
					{ProductName: "Banana", Category: models.CategoryFrutas, Unit: "kg", Quantity: 45, UnitPrice: 4.00},
				},
			},
			{
				school: &schools[0], producer: &producers[1], daysAgo: 2, status: models.StatusPendente,
				items: []models.OrderItem{
					{ProductName: "Batata Doce", Category: models.CategoryTuberculos, Unit: "kg", Quantity: 35, UnitPrice: 3.80},
				},
			},
		}

		for i, s := range seeds {
			var total float64
			for j := range s.items {
				s.items[j].Subtotal = s.items[j].UnitPrice * float64(s.items[j].Quantity)
				total += s.items[j].Subtotal
			}

			orderDate := now.AddDate(0, 0, -s.daysAgo)
			order := models.Order{
				Code:                fmt.Sprintf("PEDDEMO%03d", i+1),
				SchoolID:            s.school.ID,
				SchoolName:          s.school.Name,
				ProducerID:          s.producer.ID,
				ProducerName:        s.producer.Name,
				SupplierKind:        s.producer.Kind,
				Items:               s.items,
				Total:               total,
				LogisticsType:       models.LogisticsEntrega,
				OrderDate:           orderDate,
				DesiredDeliveryDate: orderDate.AddDate(0, 0, 5),
				Status:              s.status,
			}
			if s.status == models.StatusEntregue {
				deliveredAt := orderDate.AddDate(0, 0, 5)
				order.DeliveredAt = &deliveredAt
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			if s.rating > 0 && s.status == models.StatusEntregue {
				review := models.Review{
					OrderID:    order.ID,
					SchoolID:   s.school.ID,
					ProducerID: s.producer.ID,
					Rating:     s.rating,
					Tags:       "Fresco,No Prazo",
					ReviewDate: *order.DeliveredAt,
				}
				if err := tx.Create(&review).Error; err != nil {
					return err
				}
			}
		}

		logrus.WithFields(logrus.Fields{
			"escolas":    len(schools),
			"produtores": len(producers),
			"pedidos":    len(seeds),
		}).Info("dados de demonstração carregados")

		return nil
	})
}
