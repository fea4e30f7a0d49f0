package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// migrationStatements are idempotent schema statements run at startup.
// Note: a dedicated migration tool should take over once the schema needs
// versioned changes.
var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		gender TEXT NOT NULL CHECK (gender IN ('male', 'female', 'other')),
		date_of_birth TIMESTAMPTZ NOT NULL,
		password_hash TEXT NOT NULL,
		preferences JSONB NOT NULL DEFAULT '{}'::jsonb,
		role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS personal_access_tokens (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		name TEXT NOT NULL DEFAULT 'auth_token' CHECK (name IN ('auth_token', 'mobile_token')),
		token_hash TEXT NOT NULL UNIQUE,
		device_type TEXT NOT NULL DEFAULT '',
		device_os TEXT NOT NULL DEFAULT '',
		last_used_at TIMESTAMPTZ,
		expires_at TIMESTAMPTZ,
		deleted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS flights (
		id UUID PRIMARY KEY,
		flight_number TEXT NOT NULL UNIQUE,
		airline TEXT NOT NULL,
		departure_city TEXT NOT NULL,
		arrival_city TEXT NOT NULL,
		departure_time TIMESTAMPTZ NOT NULL,
		arrival_time TIMESTAMPTZ NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 50 AND price <= 10000),
		number_of_stops INT NOT NULL DEFAULT 0 CHECK (number_of_stops BETWEEN 0 AND 3),
		available_seats INT NOT NULL CHECK (available_seats >= 0),
		total_seats INT NOT NULL CHECK (total_seats BETWEEN 1 AND 550),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (available_seats <= total_seats),
		CHECK (arrival_time > departure_time)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_flights_search
		ON flights (departure_city, arrival_city, departure_time)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		flight_id UUID NOT NULL REFERENCES flights(id),
		flight_number TEXT NOT NULL,
		passenger_details JSONB NOT NULL,
		booking_status TEXT NOT NULL DEFAULT 'pending'
			CHECK (booking_status IN ('pending', 'confirmed', 'cancelled')),
		total_amount NUMERIC(12,2) NOT NULL CHECK (total_amount >= 0),
		payment_status TEXT NOT NULL DEFAULT 'pending'
			CHECK (payment_status IN ('pending', 'completed', 'failed', 'refunded')),
		booking_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings (user_id)`,
	`CREATE TABLE IF NOT EXISTS coupons (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		discount_percentage NUMERIC(5,2) NOT NULL CHECK (discount_percentage BETWEEN 0 AND 100),
		is_first_time_user_only BOOLEAN NOT NULL DEFAULT false,
		valid_from TIMESTAMPTZ NOT NULL,
		valid_until TIMESTAMPTZ NOT NULL,
		usage_limit INT NOT NULL CHECK (usage_limit >= 1),
		times_used INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		booking_id UUID NOT NULL REFERENCES bookings(id),
		amount BIGINT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'usd',
		payment_intent_id TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_booking_id ON payments (booking_id)`,
}

// RunMigrations ensures all required tables exist
func RunMigrations(db DB, logger *logrus.Logger) error {
	logger.Info("Checking database schema...")

	for _, stmt := range migrationStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	logger.Info("Database schema is up to date")
	return nil
}
