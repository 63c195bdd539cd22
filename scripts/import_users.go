package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/handicapstudent/ppt-project/internal/database"
	"github.com/handicapstudent/ppt-project/internal/models"
)

// Bulk-loads student accounts from a YAML file, e.g. for seeding a fresh
// install from a registrar roster.
type UsersConfig struct {
	Users []models.User `yaml:"users"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		usersPath = flag.String("users", "configs/users.yaml", "path to users.yaml")
		dbPath    = flag.String("db", "./data/haksik.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*usersPath)
	if err != nil {
		return fmt.Errorf("read users: %w", err)
	}
	var cfg UsersConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse users: %w", err)
	}
	if len(cfg.Users) == 0 {
		return fmt.Errorf("no users in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created := 0
	updated := 0
	for _, u := range cfg.Users {
		if u.UserID == "" {
			continue
		}
		_, err = db.GetUser(ctx, u.UserID)
		switch {
		case err == nil:
			updated++
		case errors.Is(err, database.ErrNotFound):
			created++
		default:
			return fmt.Errorf("get %s: %w", u.UserID, err)
		}
		if err = db.SaveUser(ctx, &u); err != nil {
			return fmt.Errorf("save %s: %w", u.UserID, err)
		}
	}

	fmt.Printf("done: created=%d updated=%d\n", created, updated)
	return nil
}
