package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// FlightRepository handles database operations for the flights table
type FlightRepository struct {
	db DB
}

// NewFlightRepository creates a new FlightRepository
func NewFlightRepository(db DB) *FlightRepository {
	return &FlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, departure_city, arrival_city,
		departure_time, arrival_time, price, number_of_stops,
		available_seats, total_seats, created_at, updated_at`

// Create inserts a new flight. The initial available seat count doubles as
// the capacity ceiling for later seat adjustments.
func (r *FlightRepository) Create(flight *models.Flight) error {
	query := `
		INSERT INTO flights (
			id, flight_number, airline, departure_city, arrival_city,
			departure_time, arrival_time, price, number_of_stops,
			available_seats, total_seats
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	if flight.ID == "" {
		flight.ID = uuid.New().String()
	}
	if flight.TotalSeats == 0 {
		flight.TotalSeats = flight.AvailableSeats
	}

	return r.db.QueryRow(
		query,
		flight.ID, flight.FlightNumber, flight.Airline,
		flight.DepartureCity, flight.ArrivalCity,
		flight.DepartureTime, flight.ArrivalTime,
		flight.Price, flight.NumberOfStops,
		flight.AvailableSeats, flight.TotalSeats,
	).Scan(&flight.CreatedAt, &flight.UpdatedAt)
}

// GetByNumber retrieves a flight by its flight number
func (r *FlightRepository) GetByNumber(flightNumber string) (*models.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE flight_number = $1`
	return r.scanFlight(r.db.QueryRow(query, flightNumber))
}

// GetByID retrieves a flight by its primary key
func (r *FlightRepository) GetByID(id string) (*models.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1`
	return r.scanFlight(r.db.QueryRow(query, id))
}

// GetAll retrieves every flight
func (r *FlightRepository) GetAll() ([]models.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights ORDER BY departure_time`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanFlights(rows)
}

// Search retrieves flights between two cities departing within the UTC
// calendar day of the given date, ascending by departure time.
func (r *FlightRepository) Search(departureCity, arrivalCity string, date time.Time) ([]models.Flight, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	query := `
		SELECT ` + flightColumns + `
		FROM flights
		WHERE departure_city = $1
		  AND arrival_city = $2
		  AND departure_time BETWEEN $3 AND $4
		ORDER BY departure_time
	`

	rows, err := r.db.Query(query, departureCity, arrivalCity, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanFlights(rows)
}

// Update replaces the mutable fields of a flight identified by flight number
func (r *FlightRepository) Update(flightNumber string, flight *models.Flight) (*models.Flight, error) {
	query := `
		UPDATE flights
		SET airline = $2, departure_city = $3, arrival_city = $4,
			departure_time = $5, arrival_time = $6, price = $7,
			number_of_stops = $8, available_seats = $9,
			updated_at = now()
		WHERE flight_number = $1
		RETURNING ` + flightColumns

	return r.scanFlight(r.db.QueryRow(
		query,
		flightNumber, flight.Airline,
		flight.DepartureCity, flight.ArrivalCity,
		flight.DepartureTime, flight.ArrivalTime,
		flight.Price, flight.NumberOfStops, flight.AvailableSeats,
	))
}

// Delete removes a flight by flight number
func (r *FlightRepository) Delete(flightNumber string) error {
	result, err := r.db.Exec(`DELETE FROM flights WHERE flight_number = $1`, flightNumber)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// AdjustSeats atomically changes the available seat count by delta. The
// conditional update keeps the count within [0, total_seats] under
// concurrent bookings; a delta that would leave the range affects zero rows
// and returns ErrSeatsUnavailable. Callers get the updated flight back.
func (r *FlightRepository) AdjustSeats(flightNumber string, delta int) (*models.Flight, error) {
	query := `
		UPDATE flights
		SET available_seats = available_seats + $2, updated_at = now()
		WHERE flight_number = $1
		  AND available_seats + $2 >= 0
		  AND available_seats + $2 <= total_seats
		RETURNING ` + flightColumns

	flight, err := r.scanFlight(r.db.QueryRow(query, flightNumber, delta))
	if err == sql.ErrNoRows {
		// Distinguish a missing flight from a seat conflict.
		if _, getErr := r.GetByNumber(flightNumber); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSeatsUnavailable
	}
	return flight, err
}

// scanFlight scans a single flight row
func (r *FlightRepository) scanFlight(row *sql.Row) (*models.Flight, error) {
	var f models.Flight
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.Airline, &f.DepartureCity, &f.ArrivalCity,
		&f.DepartureTime, &f.ArrivalTime, &f.Price, &f.NumberOfStops,
		&f.AvailableSeats, &f.TotalSeats, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// scanFlights scans a result set of flight rows
func (r *FlightRepository) scanFlights(rows *sql.Rows) ([]models.Flight, error) {
	flights := make([]models.Flight, 0)
	for rows.Next() {
		var f models.Flight
		if err := rows.Scan(
			&f.ID, &f.FlightNumber, &f.Airline, &f.DepartureCity, &f.ArrivalCity,
			&f.DepartureTime, &f.ArrivalTime, &f.Price, &f.NumberOfStops,
			&f.AvailableSeats, &f.TotalSeats, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}
