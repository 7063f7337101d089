package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	"apiary_app_go/config"
	"apiary_app_go/db"
	"apiary_app_go/services"

	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Register Beekeeper ===")
	fmt.Println()

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Beekeeper ID: ")
	rawNumber, _ := reader.ReadString('\n')
	number, err := strconv.Atoi(strings.TrimSpace(rawNumber))
	if err != nil {
		log.Fatalf("Beekeeper ID must be a number: %v", err)
	}

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Println() // New line after password input

	beekeeper, err := services.RegisterBeekeeper(db.DB, services.RegistrationInput{
		Username:        username,
		Email:           email,
		Password:        string(passwordBytes),
		BeekeeperNumber: number,
	})
	if err != nil {
		log.Fatalf("Failed to register beekeeper: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ Beekeeper registered successfully!")
	fmt.Printf("  ID: %d\n", beekeeper.ID)
	fmt.Printf("  Username: %s\n", beekeeper.Username)
	fmt.Printf("  Beekeeper ID: %d\n", beekeeper.BeekeeperNumber)
}
