// Command main runs the database seeder for the blog.
package main

import (
	"flag"
	"log"

	"github.com/mandeell/Mandel-Blog-Complete/internal/config"
	"github.com/mandeell/Mandel-Blog-Complete/internal/database"
	"github.com/mandeell/Mandel-Blog-Complete/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 12, "Number of users to create")
	numPosts := flag.Int("posts", 20, "Number of posts to create")
	numComments := flag.Int("comments", 60, "Number of comments to create")
	shouldClean := flag.Bool("clean", false, "Delete existing users, posts and comments first")
	password := flag.String("password", seed.DefaultPassword, "Password for every seeded account")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	res, err := seed.Seed(db, seed.Options{
		Users:    *numUsers,
		Posts:    *numPosts,
		Comments: *numComments,
		Clean:    *shouldClean,
		Password: *password,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	for _, u := range res.Users {
		if u.Agent {
			log.Printf("✍️  agent: %s", u.Email)
		}
	}
	log.Printf("📧 All seeded users have the password: %s", *password)
}
