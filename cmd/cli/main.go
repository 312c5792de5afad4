package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/store"
)

func main() {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
	username := addAdminCmd.String("username", "", "Username for the new admin")
	password := addAdminCmd.String("password", "", "Password for the new admin")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-admin' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-admin":
		addAdminCmd.Parse(os.Args[2:])
		if *username == "" || *password == "" {
			fmt.Println("username and password are required")
			addAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		createAdmin(*username, *password)
	default:
		fmt.Println("expected 'add-admin' subcommand")
		os.Exit(1)
	}
}

func createAdmin(username, password string) {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./storefront.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure table exists if running cli before server
	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	id := uuid.New().String()
	if err := db.CreateAdmin(id, username, string(hashedPassword)); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin '%s' created successfully.\n", username)
}
