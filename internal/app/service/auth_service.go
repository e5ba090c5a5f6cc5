package service

import (
	"errors"
	"strings"
	"time"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"github.com/hengyuan-pack/giftbox-site/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionInvalid     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
)

type AuthService interface {
	Login(username, password string) (string, error)
	ValidateSession(token string) (string, error)
	EnsureCredential(username, password string) error
	SessionExpiry() time.Duration
}

type authService struct {
	adminRepo     repository.AdminRepository
	sessionSecret string
	sessionExpiry time.Duration
}

func NewAuthService(
	adminRepo repository.AdminRepository,
	sessionSecret string,
	sessionExpiry time.Duration,
) AuthService {
	return &authService{
		adminRepo:     adminRepo,
		sessionSecret: sessionSecret,
		sessionExpiry: sessionExpiry,
	}
}

func (s *authService) SessionExpiry() time.Duration {
	return s.sessionExpiry
}

// Login checks the password against the stored hash and returns a signed
// session token.
func (s *authService) Login(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	logger.Info("Admin login attempt", map[string]interface{}{
		"username": username,
	})

	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	admin, err := s.adminRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: unknown admin", map[string]interface{}{
				"username": username,
			})
			return "", ErrInvalidCredentials
		}
		logger.Error("Failed to load admin credential", err, map[string]interface{}{
			"username": username,
		})
		return "", err
	}

	if !util.VerifyPassword(admin.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"username": username,
		})
		return "", ErrInvalidCredentials
	}

	token, err := util.GenerateSessionToken(admin.Username, s.sessionSecret, s.sessionExpiry)
	if err != nil {
		logger.Error("Failed to sign session token", err, map[string]interface{}{
			"username": username,
		})
		return "", err
	}

	logger.Info("Admin logged in", map[string]interface{}{
		"username": username,
	})
	return token, nil
}

func (s *authService) ValidateSession(token string) (string, error) {
	claims, err := util.ValidateSessionToken(token, s.sessionSecret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return "", ErrSessionExpired
		}
		return "", ErrSessionInvalid
	}
	return claims.Username, nil
}

// EnsureCredential creates the credential when the username is unknown.
// An existing credential keeps its password.
func (s *authService) EnsureCredential(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	if _, err := s.adminRepo.FindByUsername(username); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.adminRepo.Create(&model.AdminCredential{Username: username, PasswordHash: hash}); err != nil {
		return err
	}

	logger.Info("Admin credential created", map[string]interface{}{
		"username": username,
	})
	return nil
}
