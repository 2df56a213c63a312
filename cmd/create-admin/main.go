package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	autherrors "eventy/internal/auth/errors"
	"eventy/internal/auth/repository"
	"eventy/pkg/config"
	"eventy/pkg/model"
)

const JobName = "create-admin"

func main() {
	name := flag.String("name", "Admin", "display name for the admin account")
	email := flag.String("email", "admin@eventy.com", "email for the admin account")
	password := flag.String("password", "", "password for the admin account (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("the -password flag is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := repository.NewMongoUserRepository(cfg)
	admin := &model.User{
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, autherrors.ErrDuplicateEmail) {
			log.Fatalf("An account with email %s already exists", *email)
		}
		log.Fatalf("Failed to create admin account: %v", err)
	}

	fmt.Printf("Admin account created: %s (%s)\n", admin.Email, admin.ID)
}
