package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"apiary_app_go/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// SessionTokenLength is the length of the session token in bytes (64 chars hex)
	SessionTokenLength = 32
	// DefaultSessionDuration is the default session duration (7 days)
	DefaultSessionDuration = 7 * 24 * time.Hour
	// MinPasswordLength is the shortest accepted beekeeper password
	MinPasswordLength = 8
)

// ErrInvalidCredentials is returned by Login for an unknown username or a wrong password
var ErrInvalidCredentials = errors.New("invalid username or password")

// dummyHash keeps Login timing the same whether or not the username exists
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy_password_for_timing_mitigation"), BcryptCost)

// RegistrationInput holds the fields of a new beekeeper account
type RegistrationInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	BeekeeperNumber int    `json:"beekeeper_id"`
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// GenerateSessionToken generates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// RegisterBeekeeper creates a beekeeper account. Username and registration number are unique.
func RegisterBeekeeper(db *gorm.DB, in RegistrationInput) (*models.Beekeeper, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.Username == "":
		return nil, validation("username is required")
	case len(in.Username) > 65:
		return nil, validation("username must be at most 65 characters")
	case len(in.Password) < MinPasswordLength:
		return nil, validation(fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	case in.BeekeeperNumber < 0:
		return nil, validation("beekeeper id must not be negative")
	}

	var count int64
	err := db.Model(&models.Beekeeper{}).
		Where("username = ? OR beekeeper_number = ?", in.Username, in.BeekeeperNumber).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check beekeeper: %w", err)
	}
	if count > 0 {
		return nil, validation("username or beekeeper id already registered")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	beekeeper := &models.Beekeeper{
		Username:        in.Username,
		Email:           in.Email,
		Password:        hash,
		BeekeeperNumber: in.BeekeeperNumber,
	}
	if err := db.Create(beekeeper).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, validation("username or beekeeper id already registered")
		}
		return nil, fmt.Errorf("failed to create beekeeper: %w", err)
	}

	LogSecurityEvent("REGISTER", beekeeper.ID, "beekeeper account created")
	return beekeeper, nil
}

// Login checks the credentials and opens a session for the beekeeper
func Login(db *gorm.DB, username, password, ipAddress, userAgent string) (*models.Session, error) {
	var beekeeper models.Beekeeper
	err := db.Where("username = ?", strings.TrimSpace(username)).First(&beekeeper).Error
	if err != nil {
		VerifyPassword(string(dummyHash), password)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load beekeeper: %w", err)
	}

	if !VerifyPassword(beekeeper.Password, password) {
		LogSecurityEvent("LOGIN_FAILED", beekeeper.ID, "wrong password from "+ipAddress)
		return nil, ErrInvalidCredentials
	}

	session, err := CreateSession(db, beekeeper.ID, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := db.Model(&beekeeper).Update("last_login_at", now).Error; err != nil {
		log.Printf("[WARNING] Failed to record login time for beekeeper %d: %v", beekeeper.ID, err)
	}
	session.Beekeeper = beekeeper
	return session, nil
}

// CreateSession creates a new session for a beekeeper
func CreateSession(db *gorm.DB, beekeeperID uint, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:          uuid.New().String(),
		BeekeeperID: beekeeperID,
		Token:       token,
		ExpiresAt:   time.Now().Add(DefaultSessionDuration),
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
	}

	if err := db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession validates a session token and returns the session if valid
func ValidateSession(db *gorm.DB, token string) (*models.Session, error) {
	var session models.Session

	err := db.Preload("Beekeeper").
		Where("token = ?", token).
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if session.IsExpired() {
		// Delete expired session
		db.Delete(&session)
		return nil, fmt.Errorf("session expired")
	}

	return &session, nil
}

// DeleteSession deletes a session (logout)
func DeleteSession(db *gorm.DB, token string) error {
	result := db.Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return nil
}

// CleanupExpiredSessions removes all expired sessions from the database
func CleanupExpiredSessions(db *gorm.DB) error {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("[INFO] Cleaned up %d expired sessions", result.RowsAffected)
	}
	return nil
}

// LogSecurityEvent logs security-related events
func LogSecurityEvent(eventType string, beekeeperID uint, details string) {
	log.Printf("[SECURITY] %s | Beekeeper: %d | Details: %s", eventType, beekeeperID, details)
}
