package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"pc-setup-agent/internal/di"
	"pc-setup-agent/internal/domain/entity"
	"pc-setup-agent/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()
	reader := bufio.NewReader(os.Stdin)

	budget := prompt(reader, "Orçamento (R$): ")
	useCase := prompt(reader, "Uso principal (Games, Edição, Trabalho, Estudo): ")
	userID := envService.GetWithDefault("CLI_USER_ID", "cli")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := di.LoadConfig(envService)
	cfg.LogHTTPRequests = false
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}
	defer container.Close()

	fmt.Println("\nMontando o setup...")
	result, err := container.Generator.Generate(ctx, entity.SetupRequest{
		Budget:  budget,
		UseCase: useCase,
		UserID:  userID,
	})
	if err != nil {
		fmt.Printf("\nErro: %v\n", err)
		container.Close()
		os.Exit(1)
	}

	fmt.Println("\nSETUP SUGERIDO:")
	fmt.Println(result.Setup)
	if result.Exhausted {
		fmt.Println("\n(aviso: o modelo pediu mais buscas do que o limite configurado)")
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		log.Fatal("Failed to read input: ", err)
	}
	return strings.TrimSpace(line)
}
