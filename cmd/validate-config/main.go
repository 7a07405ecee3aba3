package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/carcarahealth/glica/internal/config"
)

func main() {
	fmt.Println("🔍 Validando configuração...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  Arquivo .env não encontrado: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Erro de validação da configuração:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuração válida!")
	fmt.Printf("📋 Detalhes:\n")
	fmt.Printf("  - Provedor de raciocínio: %s\n", cfg.Reasoning.Provider)
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.Reasoning.GeminiAPIKey))
	fmt.Printf("  - OpenAI API Key: %s\n", maskToken(cfg.Reasoning.OpenAIAPIKey))
	fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
	fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
	fmt.Printf("  - DB User: %s\n", cfg.DB.User)
	fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	fmt.Printf("  - Redis Host: %s\n", cfg.Redis.Host)
	fmt.Printf("  - HTTP Port: %s\n", cfg.HTTP.Port)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<não definido>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
