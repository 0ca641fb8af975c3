// Package seed loads a demo developer, profile and post into PostgreSQL.
// Running it twice is safe; existing rows are reused.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/devconnector/pkg/helpers"
)

type Demo struct {
	Name     string
	Email    string
	Password string
	Status   string
	Skills   []string
	Bio      string
	PostText string
}

// DefaultDemo is what cmd/seed loads when no flags are given.
var DefaultDemo = Demo{
	Name:     "Demo Developer",
	Email:    "demo@devconnector.local",
	Password: "password123",
	Status:   "Developer",
	Skills:   []string{"Go", "PostgreSQL", "Docker"},
	Bio:      "Seeded account for local development.",
	PostText: "Hello DevConnector!",
}

type Result struct {
	UserID      string
	ProfileID   string
	PostID      string // empty when the user already had posts
	PostCreated bool
}

// Run upserts the demo user and profile and creates a first post if the user has none.
func Run(ctx context.Context, db *sql.DB, d Demo) (*Result, error) {
	email := strings.ToLower(strings.TrimSpace(d.Email))
	hash, err := helpers.HashPassword(d.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	avatar := helpers.GravatarURL(email)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res := &Result{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, avatar)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, d.Name, email, hash, avatar).Scan(&res.UserID)
	if err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, status, skills, bio)
		VALUES ($1, $2, string_to_array($3, ','), $4)
		ON CONFLICT (user_id) DO UPDATE SET status = EXCLUDED.status, skills = EXCLUDED.skills, bio = EXCLUDED.bio
		RETURNING id
	`, res.UserID, d.Status, strings.Join(d.Skills, ","), d.Bio).Scan(&res.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("seed profile: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO posts (user_id, text, name, avatar)
		SELECT $1, $2, $3, $4
		WHERE NOT EXISTS (SELECT 1 FROM posts WHERE user_id = $1)
		RETURNING id
	`, res.UserID, d.PostText, d.Name, avatar).Scan(&res.PostID)
	switch {
	case err == nil:
		res.PostCreated = true
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, fmt.Errorf("seed post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}
