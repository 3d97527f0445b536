// seed crea los usuarios iniciales del panel: vendedor, carrier y mensajero.
// Es idempotente: si el email ya existe, lo salta.
//
// Uso: go run ./cmd/seed
// Passwords vía SEED_SELLER_PASSWORD, SEED_CARRIER_PASSWORD y
// SEED_COURIER_PASSWORD; sin ellas usa valores de desarrollo.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/infrastructure/postgres"
	"github.com/ozonpanel/backend/pkg/config"
)

type seedUser struct {
	Email   string
	Name    string
	Role    string
	PassEnv string
	PassDef string
}

var seedUsers = []seedUser{
	{"seller@ozonpanel.local", "Satıcı", entity.RoleSeller, "SEED_SELLER_PASSWORD", "seller-dev-123"},
	{"carrier@ozonpanel.local", "Depo", entity.RoleCarrier, "SEED_CARRIER_PASSWORD", "carrier-dev-123"},
	{"courier@ozonpanel.local", "Kurye", entity.RoleCourier, "SEED_COURIER_PASSWORD", "courier-dev-123"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)

	for _, su := range seedUsers {
		existing, err := userRepo.FindByEmail(ctx, su.Email)
		if err != nil {
			fmt.Fprintf(os.Stderr, "consultar %s: %v\n", su.Email, err)
			os.Exit(1)
		}
		if existing != nil {
			fmt.Printf("%s ya existe, se salta\n", su.Email)
			continue
		}

		password := os.Getenv(su.PassEnv)
		if password == "" {
			password = su.PassDef
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hashear password de %s: %v\n", su.Email, err)
			os.Exit(1)
		}

		now := time.Now()
		user := &entity.User{
			ID:           uuid.New().String(),
			Email:        su.Email,
			PasswordHash: string(hash),
			Name:         su.Name,
			Role:         su.Role,
			Status:       "active",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			fmt.Fprintf(os.Stderr, "crear %s: %v\n", su.Email, err)
			os.Exit(1)
		}
		fmt.Printf("creado %s (%s)\n", su.Email, su.Role)
	}
}
