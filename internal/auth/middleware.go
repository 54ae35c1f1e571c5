package auth

import (
	"fmt"
	"strings"

	"merenda-backend/internal/config"
	"merenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey     = "user_id"
	CtxUserRoleKey   = "user_role"
	CtxSchoolIDKey   = "school_id"
	CtxProducerIDKey = "producer_id"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Header Authorization ausente")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Formato esperado: 'Bearer <token>'")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de assinatura inválido")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido ou expirado")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Não foi possível ler o token")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxSchoolIDKey, claims.SchoolID)
		c.Locals(CtxProducerIDKey, claims.ProducerID)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Perfil do usuário não identificado")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Seu perfil não tem acesso a esta operação")
	}
}

// UserID - id do usuário autenticado a partir do contexto
func UserID(c *fiber.Ctx) (uint, error) {
	v, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Usuário não identificado")
	}
	return v, nil
}

// SchoolID - escola vinculada ao usuário (perfil escola)
func SchoolID(c *fiber.Ctx) (uint, error) {
	v, ok := c.Locals(CtxSchoolIDKey).(*uint)
	if !ok || v == nil {
		return 0, fiber.NewError(fiber.StatusForbidden, "Usuário sem escola vinculada")
	}
	return *v, nil
}

// ProducerID - produtor vinculado ao usuário (perfil agricultor)
func ProducerID(c *fiber.Ctx) (uint, error) {
	v, ok := c.Locals(CtxProducerIDKey).(*uint)
	if !ok || v == nil {
		return 0, fiber.NewError(fiber.StatusForbidden, "Usuário sem produtor vinculado")
	}
	return *v, nil
}

// Role - perfil do usuário autenticado
func Role(c *fiber.Ctx) (models.UserRole, error) {
	v, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return "", fiber.NewError(fiber.StatusForbidden, "Perfil do usuário não identificado")
	}
	return v, nil
}
