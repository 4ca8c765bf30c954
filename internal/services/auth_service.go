package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"busticket/internal/domain"
	"busticket/internal/utils"
)

const RoleAdmin = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService issues and checks admin tokens. There is a single admin account
// configured through the environment.
type AuthService struct {
	Secret            []byte
	AdminUsername     string
	AdminPasswordHash string
	TTL               time.Duration
	Now               func() time.Time
}

// Claims are the JWT claims issued by Login.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// Enabled reports whether admin-only routes are protected.
func (s AuthService) Enabled() bool { return len(s.Secret) > 0 }

// Login checks the credentials and returns a signed token with its expiry.
func (s AuthService) Login(username, password string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, domain.ConflictError{Code: "AUTH_DISABLED", Resource: "auth", Msg: "authentication is not configured"}
	}
	if !strings.EqualFold(strings.TrimSpace(username), s.AdminUsername) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.AdminPasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := s.now()
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.AdminUsername,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken verifies an HS256 token and returns its subject and role.
func (s AuthService) ParseToken(raw string) (domain.RequestContext, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.RequestContext{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return domain.RequestContext{Subject: claims.Subject, Role: claims.Role}, nil
}
