package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyvoyage/flight-booking-backend/internal/cache"
	"github.com/skyvoyage/flight-booking-backend/internal/database"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
	"github.com/skyvoyage/flight-booking-backend/pkg/validator"
)

// FlightHandler handles flight inventory HTTP requests
type FlightHandler struct {
	flightRepository *database.FlightRepository
	airportValidator *validator.AirportValidator
	flightCache      *cache.FlightCache
	logger           *logrus.Logger
}

// NewFlightHandler creates a new flight handler. The cache may be nil when
// Redis is not configured.
func NewFlightHandler(
	flightRepository *database.FlightRepository,
	airportValidator *validator.AirportValidator,
	flightCache *cache.FlightCache,
	logger *logrus.Logger,
) *FlightHandler {
	return &FlightHandler{
		flightRepository: flightRepository,
		airportValidator: airportValidator,
		flightCache:      flightCache,
		logger:           logger,
	}
}

func (h *FlightHandler) normalizeCities(req *models.FlightRequest) error {
	departure, err := h.airportValidator.Normalize(req.DepartureCity)
	if err != nil {
		return err
	}
	arrival, err := h.airportValidator.Normalize(req.ArrivalCity)
	if err != nil {
		return err
	}
	req.DepartureCity = departure
	req.ArrivalCity = arrival
	return nil
}

func (h *FlightHandler) invalidateCache(c *gin.Context) {
	if h.flightCache == nil {
		return
	}
	if err := h.flightCache.Invalidate(c.Request.Context()); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate flight cache")
	}
}

// AddFlight handles POST /api/flights/add (admin only)
func (h *FlightHandler) AddFlight(c *gin.Context) {
	var req models.FlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "All flight fields are required")
		return
	}

	if err := h.normalizeCities(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	flight := &models.Flight{
		FlightNumber:   req.FlightNumber,
		Airline:        req.Airline,
		DepartureCity:  req.DepartureCity,
		ArrivalCity:    req.ArrivalCity,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		Price:          req.Price,
		NumberOfStops:  req.NumberOfStops,
		AvailableSeats: req.AvailableSeats,
	}

	if err := h.flightRepository.Create(flight); err != nil {
		if database.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, "Flight with this flight number already exists")
			return
		}
		h.logger.WithError(err).Error("Failed to create flight")
		respondError(c, http.StatusInternalServerError, "Failed to add flight")
		return
	}

	h.invalidateCache(c)
	h.logger.WithFields(logrus.Fields{
		"flight_number": flight.FlightNumber,
		"airline":       flight.Airline,
	}).Info("Flight added")

	respondSuccess(c, http.StatusCreated, "Flight added successfully", flight)
}

// UpdateFlight handles PUT /api/flights/update/:flightNumber (admin only)
func (h *FlightHandler) UpdateFlight(c *gin.Context) {
	flightNumber := c.Param("flightNumber")

	var req models.FlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "All flight fields are required")
		return
	}

	if err := h.normalizeCities(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.flightRepository.GetByNumber(flightNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "Flight not found")
			return
		}
		h.logger.WithError(err).Error("Failed to load flight")
		respondError(c, http.StatusInternalServerError, "Failed to update flight")
		return
	}
	if req.AvailableSeats > existing.TotalSeats {
		respondError(c, http.StatusBadRequest,
			fmt.Sprintf("Available seats cannot exceed the flight's capacity of %d", existing.TotalSeats))
		return
	}

	flight := &models.Flight{
		FlightNumber:   req.FlightNumber,
		Airline:        req.Airline,
		DepartureCity:  req.DepartureCity,
		ArrivalCity:    req.ArrivalCity,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		Price:          req.Price,
		NumberOfStops:  req.NumberOfStops,
		AvailableSeats: req.AvailableSeats,
	}

	updated, err := h.flightRepository.Update(flightNumber, flight)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "Flight not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update flight")
		respondError(c, http.StatusInternalServerError, "Failed to update flight")
		return
	}

	h.invalidateCache(c)
	respondSuccess(c, http.StatusOK, "Flight updated successfully", updated)
}

// DeleteFlight handles DELETE /api/flights/:flightNumber (admin only)
func (h *FlightHandler) DeleteFlight(c *gin.Context) {
	flightNumber := c.Param("flightNumber")

	flight, err := h.flightRepository.GetByNumber(flightNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "Flight not found")
			return
		}
		h.logger.WithError(err).Error("Failed to load flight")
		respondError(c, http.StatusInternalServerError, "Failed to delete flight")
		return
	}

	if flight.HasDeparted() {
		respondError(c, http.StatusBadRequest, "Cannot delete past flights")
		return
	}

	if err := h.flightRepository.Delete(flightNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "Flight not found")
			return
		}
		h.logger.WithError(err).Error("Failed to delete flight")
		respondError(c, http.StatusInternalServerError, "Failed to delete flight")
		return
	}

	h.invalidateCache(c)
	h.logger.WithField("flight_number", flightNumber).Info("Flight deleted")
	respondSuccess(c, http.StatusOK, "Flight deleted successfully", nil)
}

// ListFlights handles GET /api/flights (public)
func (h *FlightHandler) ListFlights(c *gin.Context) {
	if h.flightCache != nil {
		if flights, err := h.flightCache.GetFlights(c.Request.Context(), cache.ListKey()); err != nil {
			h.logger.WithError(err).Warn("Flight cache read failed")
		} else if flights != nil {
			respondSuccess(c, http.StatusOK, "Flights retrieved successfully", flights)
			return
		}
	}

	flights, err := h.flightRepository.GetAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list flights")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve flights")
		return
	}

	if h.flightCache != nil {
		if err := h.flightCache.SetFlights(c.Request.Context(), cache.ListKey(), flights); err != nil {
			h.logger.WithError(err).Warn("Flight cache write failed")
		}
	}

	respondSuccess(c, http.StatusOK, "Flights retrieved successfully", flights)
}

// GetFlight handles GET /api/flights/:flightNumber (public)
func (h *FlightHandler) GetFlight(c *gin.Context) {
	flightNumber := c.Param("flightNumber")

	flight, err := h.flightRepository.GetByNumber(flightNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "Flight not found")
			return
		}
		h.logger.WithError(err).Error("Failed to load flight")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve flight")
		return
	}

	respondSuccess(c, http.StatusOK, "Flight retrieved successfully", flight)
}

// SearchFlights handles GET /api/flights/search (public)
func (h *FlightHandler) SearchFlights(c *gin.Context) {
	departureCity := c.Query("departureCity")
	arrivalCity := c.Query("arrivalCity")
	dateParam := c.Query("date")

	if departureCity == "" || arrivalCity == "" || dateParam == "" {
		respondError(c, http.StatusBadRequest, "departureCity, arrivalCity and date are required")
		return
	}

	departure, err := h.airportValidator.Normalize(departureCity)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	arrival, err := h.airportValidator.Normalize(arrivalCity)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	key := cache.SearchKey(departure, arrival, dateParam)
	if h.flightCache != nil {
		if flights, err := h.flightCache.GetFlights(c.Request.Context(), key); err != nil {
			h.logger.WithError(err).Warn("Flight cache read failed")
		} else if flights != nil {
			respondSuccess(c, http.StatusOK, "Flights retrieved successfully", flights)
			return
		}
	}

	flights, err := h.flightRepository.Search(departure, arrival, date)
	if err != nil {
		h.logger.WithError(err).Error("Failed to search flights")
		respondError(c, http.StatusInternalServerError, "Failed to search flights")
		return
	}

	if h.flightCache != nil {
		if err := h.flightCache.SetFlights(c.Request.Context(), key, flights); err != nil {
			h.logger.WithError(err).Warn("Flight cache write failed")
		}
	}

	respondSuccess(c, http.StatusOK, "Flights retrieved successfully", flights)
}
