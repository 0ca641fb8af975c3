package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/devconnector/config"
	"github.com/oksasatya/devconnector/internal/seed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	d := seed.DefaultDemo
	flag.StringVar(&d.Name, "name", d.Name, "demo user name")
	flag.StringVar(&d.Email, "email", d.Email, "demo user email")
	flag.StringVar(&d.Password, "password", d.Password, "demo user password")
	skills := flag.String("skills", strings.Join(d.Skills, ","), "comma separated skills")
	flag.Parse()
	d.Skills = strings.Split(*skills, ",")

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	res, err := seed.Run(context.Background(), db, d)
	if err != nil {
		log.Fatalf("failed to seed: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", res.UserID, d.Email, d.Password)
	fmt.Printf("seeded profile: id=%s\n", res.ProfileID)
	if res.PostCreated {
		fmt.Printf("seeded post: id=%s\n", res.PostID)
	} else {
		fmt.Println("user already has posts; none added")
	}
}
