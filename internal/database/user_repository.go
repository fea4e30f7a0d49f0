package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, first_name, last_name, phone, gender,
		date_of_birth, password_hash, preferences, role, created_at, updated_at`

// Create inserts a new user
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (
			id, username, email, first_name, last_name, phone, gender,
			date_of_birth, password_hash, preferences, role
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	err := r.db.QueryRow(
		query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName,
		user.Phone, user.Gender, user.DateOfBirth, user.PasswordHash,
		user.Preferences, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(query, userID))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(query, email))
}

// ExistsByEmailOrPhone reports whether a user other than excludeID already
// holds the given email or phone. Pass an empty excludeID to check everyone.
func (r *UserRepository) ExistsByEmailOrPhone(email, phone, excludeID string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM users
		WHERE (email = $1 OR phone = $2)
		  AND ($3 = '' OR id != $3::uuid)
	`

	var count int
	if err := r.db.QueryRow(query, email, phone, excludeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update replaces a user's profile fields
func (r *UserRepository) Update(userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	query := `
		UPDATE users
		SET username = $2, email = $3, phone = $4, first_name = $5,
			last_name = $6, gender = $7, date_of_birth = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	return r.scanUser(r.db.QueryRow(
		query,
		userID, req.Username, req.Email, req.Phone,
		req.FirstName, req.LastName, req.Gender, req.DateOfBirth,
	))
}

// scanUser scans a single user row
func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Phone,
		&u.Gender, &u.DateOfBirth, &u.PasswordHash, &u.Preferences, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
