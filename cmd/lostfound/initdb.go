package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/lostfound/internal/config"
	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and the admin account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfg.Database.Path); err == nil {
			return fmt.Errorf("database %s already exists", cfg.Database.Path)
		}
		database, password, err := initDatabase(cmd.Context(), cfg.Database, cfg.Auth.AdminUser)
		if err != nil {
			return err
		}
		database.Close()
		printInitResult(cfg.Database.Path, cfg.Auth.AdminUser, password)
		return nil
	},
}

// openDatabase opens the database, creating it with an admin account on
// first run, and brings the schema up to date.
func openDatabase(ctx context.Context, dc config.DatabaseConfig, adminUser string) (*sql.DB, error) {
	path := dc.Path
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		database, password, err := initDatabase(ctx, dc, adminUser)
		if err != nil {
			return nil, fmt.Errorf("initializing database: %w", err)
		}
		database.Close()

		printInitResult(path, adminUser, password)
		fmt.Println()
	}

	database, err := db.Open(ctx, path, dbOptions(dc))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.EnsureSchema(ctx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return database, nil
}

// initDatabase creates a new database, ensures the schema, and creates the admin user.
func initDatabase(ctx context.Context, dc config.DatabaseConfig, adminUsername string) (*sql.DB, string, error) {
	path := dc.Path
	database, err := db.Open(ctx, path, dbOptions(dc))
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	if err := db.EnsureSchema(ctx, database); err != nil {
		return fail(fmt.Errorf("ensuring schema: %w", err))
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fmt.Errorf("hashing password: %w", err))
	}

	if _, err := store.CreateUser(ctx, database, adminUsername, string(hash), model.RoleAdmin); err != nil {
		return fail(fmt.Errorf("creating admin user: %w", err))
	}

	return database, password, nil
}

func dbOptions(dc config.DatabaseConfig) db.Options {
	return db.Options{BusyTimeout: dc.BusyTimeout}
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password. It cannot be recovered.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
