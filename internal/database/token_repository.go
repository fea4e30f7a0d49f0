package database

import (
	"github.com/google/uuid"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// TokenRepository handles database operations for personal access tokens
type TokenRepository struct {
	db DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create stores a new personal access token record
func (r *TokenRepository) Create(token *models.PersonalAccessToken) error {
	query := `
		INSERT INTO personal_access_tokens (
			id, user_id, name, token_hash, device_type, device_os, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.Name == "" {
		token.Name = models.TokenNameAuth
	}

	return r.db.QueryRow(
		query,
		token.ID, token.UserID, token.Name, token.TokenHash,
		token.DeviceType, token.DeviceOS, token.ExpiresAt,
	).Scan(&token.CreatedAt, &token.UpdatedAt)
}

// TouchLastUsed records that a token was just used
func (r *TokenRepository) TouchLastUsed(tokenHash string) error {
	_, err := r.db.Exec(
		`UPDATE personal_access_tokens SET last_used_at = now(), updated_at = now() WHERE token_hash = $1`,
		tokenHash,
	)
	return err
}

// CountActiveForUser returns the number of non-revoked tokens for a user
func (r *TokenRepository) CountActiveForUser(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM personal_access_tokens WHERE user_id = $1 AND deleted_at IS NULL`,
		userID,
	).Scan(&count)
	return count, err
}

// RevokeAllForUser soft-deletes every active token for a user and returns
// how many sessions were closed.
func (r *TokenRepository) RevokeAllForUser(userID string) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE personal_access_tokens SET deleted_at = now(), updated_at = now()
		 WHERE user_id = $1 AND deleted_at IS NULL`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
