package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	SeedDemo    bool // carrega os dados de demonstração num banco vazio
}

func Load() *Config {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=merenda port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		SeedDemo:    getEnv("SEED_DEMO_DATA", "true") == "true",
	}

	// Checagens de segurança para produção
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET não definido; obrigatório para subir o servidor")
	}
	if len(cfg.JWTSecret) < 32 {
		logrus.Fatal("JWT_SECRET precisa ter pelo menos 32 caracteres")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=merenda port=5432 sslmode=disable" {
		logrus.Warn("DATABASE_DSN usando valor padrão; defina a sua conexão Postgres em produção")
	}
	if cfg.CORSOrigins == "http://localhost:3000" {
		logrus.Warn("CORS_ALLOWED_ORIGINS usando valor padrão; defina o domínio do frontend em produção")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
