// Package main provides account role management for the blog.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mandeell/Mandel-Blog-Complete/internal/config"
	"github.com/mandeell/Mandel-Blog-Complete/internal/database"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/repository"
	"github.com/mandeell/Mandel-Blog-Complete/internal/service"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin grant-agent <email>   - Allow the account to write posts")
	fmt.Println("  go run ./cmd/admin revoke-agent <email>  - Stop the account writing posts")
	fmt.Println("  go run ./cmd/admin grant-admin <email>   - Make the account an admin")
	fmt.Println("  go run ./cmd/admin revoke-admin <email>  - Remove admin rights")
	fmt.Println("  go run ./cmd/admin list                  - List all accounts")
}

var roleCommands = map[string]struct {
	role    models.Role
	enabled bool
}{
	"grant-agent":  {models.RoleAgent, true},
	"revoke-agent": {models.RoleAgent, false},
	"grant-admin":  {models.RoleAdmin, true},
	"revoke-admin": {models.RoleAdmin, false},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	users := service.NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()
	command := os.Args[1]

	if command == "list" {
		listUsers(ctx, users)
		return
	}

	rc, ok := roleCommands[command]
	if !ok {
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
	if len(os.Args) < 3 {
		fmt.Printf("Usage: go run ./cmd/admin %s <email>\n", command)
		os.Exit(1)
	}

	user, err := users.SetRoleByEmail(ctx, os.Args[2], rc.role, rc.enabled)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			fmt.Printf("No account with email %s\n", os.Args[2])
			os.Exit(1)
		}
		log.Fatalf("Failed to update role: %v", err)
	}
	fmt.Printf("%s (ID: %d) agent=%t admin=%t\n", user.Email, user.ID, user.Agent, user.Admin)
}

func listUsers(ctx context.Context, users *service.UserService) {
	list, err := users.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	if len(list) == 0 {
		fmt.Println("No accounts found")
		return
	}
	for _, u := range list {
		fmt.Printf("  %4d  %-40s  agent=%-5t admin=%-5t  %s\n", u.ID, u.Email, u.Agent, u.Admin, u.Name)
	}
}
