package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// LocalUser is injected when the API runs without JWT_SECRET.
var LocalUser = UserContext{UserID: "local", RoleName: RoleHR}

// Service signs tokens for the single configured HR administrator.
type Service struct {
	Secret       string
	Username     string
	PasswordHash string
	TTL          time.Duration
}

func NewService(secret, username, passwordHash string, ttl time.Duration) *Service {
	return &Service{Secret: secret, Username: username, PasswordHash: passwordHash, TTL: ttl}
}

func (s *Service) Login(_ context.Context, username, password string) (string, error) {
	if s.Secret == "" || s.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) == 1
	// bcrypt runs even when the username is wrong.
	passErr := CheckPassword(s.PasswordHash, password)
	if !userOK || passErr != nil {
		return "", ErrInvalidCredentials
	}
	return GenerateToken(s.Secret, Claims{UserID: s.Username, RoleName: RoleHR}, s.TTL)
}
