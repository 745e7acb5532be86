package main

import (
	"bufio"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"golang.org/x/term"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/config"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/repositories"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/services"
)

// Provisions an active staff+superuser account, the administrative
// counterpart of self-registration.
func main() {
	email := flag.String("email", "", "email address of the new superuser")
	username := flag.String("username", "", "display name (optional)")
	staff := flag.Bool("staff", true, "grant the staff flag")
	superuser := flag.Bool("superuser", true, "grant the superuser flag")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)
	if *email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatal("read email: ", err)
		}
		*email = strings.TrimSpace(line)
	}

	password, err := readPassword()
	if err != nil {
		log.Fatal(err)
	}

	cfg := config.LoadConfig()
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	authService := services.NewAuthService([]byte(cfg.Auth.JWTSecret), cfg.Auth.AccessTTL())
	tokenService := services.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.VerificationTTL(), cfg.Auth.ResetTTL())
	userService := services.NewUserService(repositories.NewUserRepository(db), tokenService, authService, nil, nil)

	user, err := userService.CreateSuperuser(*username, *email, password, *staff, *superuser)
	if err != nil {
		log.Fatal("create superuser: ", err)
	}
	fmt.Printf("Superuser %s created (id=%d)\n", user.Email, user.ID)
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Print("Password (again): ")
	pw2, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(pw) != string(pw2) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(pw) == 0 {
		return "", fmt.Errorf("password must not be empty")
	}
	return string(pw), nil
}
