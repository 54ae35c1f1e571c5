package main

import (
	"strings"

	"merenda-backend/internal/agricultor"
	"merenda-backend/internal/audit"
	"merenda-backend/internal/auth"
	"merenda-backend/internal/cart"
	"merenda-backend/internal/config"
	"merenda-backend/internal/dashboard"
	"merenda-backend/internal/database"
	"merenda-backend/internal/marketplace"
	"merenda-backend/internal/models"
	"merenda-backend/internal/orders"
	"merenda-backend/internal/secretaria"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	carts := cart.NewStore()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logrus.WithError(err).Error("erro inesperado")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

	// CORS origins vêm como string separada por vírgula
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-secretaria", auth.RegisterSecretariaHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Rotas da escola (marketplace + carrinho + avaliação)
	escola := protected.Group("")
	escola.Use(auth.RequireRole(models.RoleEscola))

	escola.Get("/marketplace/produtores", marketplace.ListProdutoresHandler())

	escola.Get("/carrinho", marketplace.GetCartHandler(carts))
	escola.Post("/carrinho/itens", marketplace.AddItemHandler(carts))
	escola.Put("/carrinho/itens", marketplace.UpdateQuantityHandler(carts))
	escola.Delete("/carrinho/itens", marketplace.RemoveItemHandler(carts))
	escola.Delete("/carrinho", marketplace.ClearCartHandler(carts))
	escola.Post("/carrinho/checkout", marketplace.CheckoutHandler(carts))

	escola.Post("/pedidos/:id/avaliacao", orders.CreateReviewHandler())

	// Rotas do agricultor (catálogo próprio)
	agricultorRoutes := protected.Group("/meus-produtos")
	agricultorRoutes.Use(auth.RequireRole(models.RoleAgricultor))

	agricultorRoutes.Get("/", agricultor.ListMyProductsHandler())
	agricultorRoutes.Post("/", agricultor.CreateProductHandler())
	agricultorRoutes.Put("/:id", agricultor.UpdateProductHandler())
	agricultorRoutes.Delete("/:id", agricultor.DeleteProductHandler())

	// Pedidos (escopo resolvido por perfil dentro do handler)
	protected.Get("/pedidos", orders.ListOrdersHandler())
	protected.Get("/pedidos/:id", orders.GetOrderHandler())
	protected.Put("/pedidos/:id/status", orders.UpdateStatusHandler())

	// Rotas da secretaria
	secretariaRoutes := protected.Group("/secretaria")
	secretariaRoutes.Use(auth.RequireRole(models.RoleSecretaria))

	secretariaRoutes.Get("/dashboard-financeiro", secretaria.DashboardFinanceiroHandler())
	secretariaRoutes.Get("/ranking-produtores", secretaria.RankingProdutoresHandler())
	secretariaRoutes.Get("/ranking-escolas", secretaria.RankingEscolasHandler())
	secretariaRoutes.Get("/auditoria/avaliacoes-baixas", secretaria.LowRatedReviewsHandler())
	secretariaRoutes.Get("/relatorio-compliance.xlsx", secretaria.ComplianceReportHandler())

	// Audit logs (somente secretaria)
	auditRoutes := protected.Group("/audit-logs")
	auditRoutes.Use(auth.RequireRole(models.RoleSecretaria))
	auditRoutes.Get("/", audit.ListAuditLogsHandler())
	auditRoutes.Post("/:id/undo", audit.UndoAuditLogHandler())

	// Dashboard (escola vê a própria escola, secretaria vê a rede)
	chart := protected.Group("/dashboard")
	chart.Use(auth.RequireRole(models.RoleEscola, models.RoleSecretaria))
	chart.Get("/compras-chart", dashboard.ComprasChartHandler())

	logrus.WithField("port", cfg.HTTPPort).Info("servidor no ar")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
