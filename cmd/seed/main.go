package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"jupiter/internal/auth"
	"jupiter/internal/config"
	"jupiter/internal/db"
	"jupiter/internal/model"
	"jupiter/internal/repository"
)

// SeedUserData is one user in the seed payload. Password is plaintext and hashed before insert.
type SeedUserData struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Semester   int    `json:"semester"`
}

var defaultUsers = []SeedUserData{
	{FirstName: "Demo", LastName: "Student", Email: "student@jupiter.edu", Password: "student123", Role: "student", Department: "Computer Science", Semester: 3},
	{FirstName: "Demo", LastName: "Faculty", Email: "faculty@jupiter.edu", Password: "faculty123", Role: "faculty", Department: "Computer Science", Semester: 1},
	{FirstName: "Demo", LastName: "Admin", Email: "admin@jupiter.edu", Password: "admin123", Role: "admin", Department: "Registrar", Semester: 1},
}

func main() {
	logger := log.New("seed")
	logger.Info("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	users := defaultUsers
	if cfg.SeedUsersURL != "" {
		logger.Infof("Fetching users from: %s", cfg.SeedUsersURL)
		users, err = fetchUsersFromAPI(cfg.SeedUsersURL)
		if err != nil {
			logger.Fatalf("Failed to fetch users: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	created, skipped, err := seedUsers(ctx, repository.NewUserRepository(gormDB), users, cfg.BcryptCost, logger)
	if err != nil {
		logger.Fatalf("Failed to seed users: %v", err)
	}

	logger.Infoj(log.JSON{"event": "seed_completed", "created": created, "skipped": skipped})
}

// fetchUsersFromAPI fetches seed users from a JSON endpoint.
func fetchUsersFromAPI(url string) ([]SeedUserData, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var users []SeedUserData
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

// seedUsers inserts users whose email is not yet present. Existing users are left untouched.
func seedUsers(ctx context.Context, repo repository.UserRepository, users []SeedUserData, cost int, logger *log.Logger) (created int, skipped int, err error) {
	for _, item := range users {
		user, err := toModel(item, cost)
		if err != nil {
			logger.Warnj(log.JSON{"event": "seed_skip", "email": item.Email, "reason": err.Error()})
			skipped++
			continue
		}

		existing, err := repo.FindByEmail(ctx, user.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, skipped, fmt.Errorf("error checking user %s: %w", user.Email, err)
		}
		if existing != nil {
			skipped++
			continue
		}

		if err := repo.Create(ctx, user); err != nil {
			return created, skipped, fmt.Errorf("error creating user %s: %w", user.Email, err)
		}
		created++
	}
	return created, skipped, nil
}

func toModel(item SeedUserData, cost int) (*model.User, error) {
	if item.Email == "" || item.Password == "" {
		return nil, errors.New("email and password are required")
	}

	role := model.Role(item.Role)
	if role == "" {
		role = model.RoleStudent
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", item.Role)
	}

	semester := item.Semester
	if semester < 1 {
		semester = 1
	}

	hash, err := auth.HashPassword(item.Password, cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &model.User{
		FirstName:  item.FirstName,
		LastName:   item.LastName,
		Email:      item.Email,
		Password:   hash,
		Role:       role,
		Department: item.Department,
		Semester:   semester,
	}, nil
}
