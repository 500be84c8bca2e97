// Seedadmin creates a per-mess admin account with a bcrypt-hashed password.
//
//	seedadmin -username admin2 -mess MegaMess
//
// The password is read from the ADMIN_PASSWORD environment variable so it
// never lands in shell history.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/csesnitw/MessApp-server/internal/auth"
	"github.com/csesnitw/MessApp-server/internal/config"
	"github.com/csesnitw/MessApp-server/internal/store"
)

func main() {
	username := flag.String("username", "", "admin username (required)")
	mess := flag.String("mess", "", "mess the admin manages (required)")
	flag.Parse()

	password := os.Getenv("ADMIN_PASSWORD")
	if *username == "" || *mess == "" || password == "" {
		flag.Usage()
		log.Fatal("username, mess and ADMIN_PASSWORD are required")
	}

	cfg := config.Load()
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admins := auth.NewAdminRepository(db.Client)
	if err := admins.Seed(ctx, *username, password, *mess); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}
	log.Printf("admin %q created for mess %q", *username, *mess)
}
