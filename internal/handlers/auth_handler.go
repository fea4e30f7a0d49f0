package handlers

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyvoyage/flight-booking-backend/internal/config"
	"github.com/skyvoyage/flight-booking-backend/internal/database"
	"github.com/skyvoyage/flight-booking-backend/internal/middleware"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
	"github.com/skyvoyage/flight-booking-backend/internal/services"
	"github.com/skyvoyage/flight-booking-backend/internal/utils"
	"github.com/skyvoyage/flight-booking-backend/pkg/jwt"
)

// AuthHandler handles account and session HTTP requests
type AuthHandler struct {
	jwtService      *jwt.Service
	userRepository  *database.UserRepository
	tokenRepository *database.TokenRepository
	bookingService  *services.BookingService
	config          *config.Config
	logger          *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	jwtService *jwt.Service,
	userRepository *database.UserRepository,
	tokenRepository *database.TokenRepository,
	bookingService *services.BookingService,
	cfg *config.Config,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		jwtService:      jwtService,
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		bookingService:  bookingService,
		config:          cfg,
		logger:          logger,
	}
}

// LoginResponse is the payload returned on a successful login
type LoginResponse struct {
	User  *models.UserSummary `json:"user"`
	Token string              `json:"token"`
}

// UserMetaDataResponse is the payload returned by the user-meta-data endpoint
type UserMetaDataResponse struct {
	User                *models.User `json:"user"`
	IsFirstTimeCustomer bool         `json:"isFirstTimeCustomer"`
}

// Register handles POST /api/auth/sign-up
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		respondError(c, http.StatusBadRequest, models.MissingFieldsMessage(missing))
		return
	}

	if !req.IsAdult(time.Now()) {
		respondError(c, http.StatusBadRequest, models.ErrNotAdult.Error())
		return
	}

	exists, err := h.userRepository.ExistsByEmailOrPhone(req.Email, req.Phone, "")
	if err != nil {
		h.logger.WithError(err).Error("Failed to check user uniqueness")
		respondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}
	if exists {
		respondError(c, http.StatusConflict, "User with this email or phone number already exists")
		return
	}

	if problems := req.Validate(); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    problems,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.config.Security.BcryptCost)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		PasswordHash: string(hash),
		Preferences:  models.DefaultPreferences(),
		Role:         models.RoleUser,
	}

	if err := h.userRepository.Create(user); err != nil {
		if database.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, "User with this email or phone number already exists")
			return
		}
		h.logger.WithError(err).Error("Failed to create user")
		respondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	respondSuccess(c, http.StatusCreated, "User registered successfully", user.Summary())
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userRepository.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.WithError(err).Error("Failed to look up user")
		respondError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		h.logger.WithError(err).Error("Invalid user id in database")
		respondError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	token, err := h.jwtService.GenerateAccessToken(userID, user.Email, string(user.Role))
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign token")
		respondError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	device := utils.ParseUserAgent(c.GetHeader("User-Agent"))
	tokenHash := sha256.Sum256([]byte(token))
	expiresAt := time.Now().Add(h.config.JWT.AccessTokenExpiry)

	record := &models.PersonalAccessToken{
		UserID:     user.ID,
		Name:       models.TokenNameAuth,
		TokenHash:  hex.EncodeToString(tokenHash[:]),
		DeviceType: device.DeviceType,
		DeviceOS:   device.OS,
		ExpiresAt:  &expiresAt,
	}
	if err := h.tokenRepository.Create(record); err != nil {
		// The session is still usable without the audit record.
		h.logger.WithError(err).Warn("Failed to store personal access token")
	}

	activeSessions, err := h.tokenRepository.CountActiveForUser(user.ID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to count active sessions")
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":         user.ID,
		"device_type":     device.DeviceType,
		"device_os":       device.OS,
		"active_sessions": activeSessions,
	}).Info("User logged in")

	respondSuccess(c, http.StatusOK, "Login successful", LoginResponse{
		User:  user.Summary(),
		Token: token,
	})
}

// UserMetaData handles GET /api/auth/user-meta-data
func (h *AuthHandler) UserMetaData(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.userRepository.GetByID(userCtx.UserID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.WithError(err).Error("Failed to load user")
		respondError(c, http.StatusInternalServerError, "Failed to load user profile")
		return
	}

	firstTime, err := h.bookingService.IsFirstTimeCustomer(user.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count user bookings")
		respondError(c, http.StatusInternalServerError, "Failed to load user profile")
		return
	}

	respondSuccess(c, http.StatusOK, "User profile retrieved", UserMetaDataResponse{
		User:                user,
		IsFirstTimeCustomer: firstTime,
	})
}

// EditUser handles PUT /api/auth/edit-user
func (h *AuthHandler) EditUser(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		respondError(c, http.StatusBadRequest, models.MissingFieldsMessage(missing))
		return
	}

	userID := userCtx.UserID.String()

	taken, err := h.userRepository.ExistsByEmailOrPhone(req.Email, req.Phone, userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check user uniqueness")
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if taken {
		respondError(c, http.StatusConflict, "Email or phone number already in use")
		return
	}

	user, err := h.userRepository.Update(userID, &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update user")
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	respondSuccess(c, http.StatusOK, "User updated successfully", user)
}

// Logout handles GET /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	revoked, err := h.tokenRepository.RevokeAllForUser(userCtx.UserID.String())
	if err != nil {
		h.logger.WithError(err).Error("Failed to revoke tokens")
		respondError(c, http.StatusInternalServerError, "Failed to log out")
		return
	}
	if revoked == 0 {
		respondError(c, http.StatusNotFound, "No active sessions found")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":  userCtx.UserID,
		"sessions": revoked,
	}).Info("User logged out")

	respondSuccess(c, http.StatusOK, "Logged out successfully", nil)
}
