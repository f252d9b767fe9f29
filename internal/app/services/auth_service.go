package services

import (
	"context"
	"strings"

	"github.com/disa/mapa/internal/app/models/dto"
	"github.com/disa/mapa/internal/config"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/disa/mapa/internal/pkg/auth"
	"github.com/disa/mapa/internal/pkg/logger"
)

// AuthService checks operator credentials against the configured list
type AuthService interface {
	Login(ctx context.Context, username, password string) (*dto.LoginResponse, error)
}

type authServiceImpl struct {
	operators  map[string]string
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service over the configured operators
func NewAuthService(operators []config.Operator, jwtService *auth.JWTService) AuthService {
	byName := make(map[string]string, len(operators))
	for _, op := range operators {
		byName[strings.ToLower(strings.TrimSpace(op.Username))] = op.PasswordHash
	}
	return &authServiceImpl{operators: byName, jwtService: jwtService}
}

// Login verifies the password and returns an access token
func (s *authServiceImpl) Login(_ context.Context, username, password string) (*dto.LoginResponse, error) {
	name := strings.ToLower(strings.TrimSpace(username))
	hash, ok := s.operators[name]
	if !ok || !auth.CheckPassword(hash, password) {
		logger.Warn().Str("username", name).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(name)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("username", name).Msg("Operator logged in")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Username:    name,
	}, nil
}
