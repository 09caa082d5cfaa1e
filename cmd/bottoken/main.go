package main

import (
	"fmt"
	"log"
	"time"

	"github.com/ibrasoft/command-centre/internal/auth"
	"github.com/ibrasoft/command-centre/internal/config"
	"github.com/ibrasoft/command-centre/internal/domain"
)

// Prints a long-lived bot credential for out-of-band provisioning.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	issuer, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		log.Fatalf("failed to init token issuer: %v", err)
	}

	token, expiresAt, err := issuer.IssueBotToken(domain.BotSubject, []domain.Role{domain.RoleBot})
	if err != nil {
		log.Fatalf("failed to issue bot token: %v", err)
	}

	fmt.Println(token)
	fmt.Printf("expires: %s\n", expiresAt.Format(time.RFC3339))
}
