package models

import "time"

// TokenName distinguishes the kinds of personal access tokens
type TokenName string

const (
	TokenNameAuth   TokenName = "auth_token"
	TokenNameMobile TokenName = "mobile_token"
)

// PersonalAccessToken tracks an issued session token. Only the SHA-256 hash
// of the JWT is stored; logout soft-deletes every token for the user.
type PersonalAccessToken struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"userId" db:"user_id"`
	Name       TokenName  `json:"name" db:"name"`
	TokenHash  string     `json:"-" db:"token_hash"`
	DeviceType string     `json:"deviceType" db:"device_type"`
	DeviceOS   string     `json:"deviceOs" db:"device_os"`
	LastUsedAt *time.Time `json:"lastUsedAt" db:"last_used_at"`
	ExpiresAt  *time.Time `json:"expiresAt" db:"expires_at"`
	DeletedAt  *time.Time `json:"deletedAt" db:"deleted_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}
