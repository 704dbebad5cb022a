package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/inamate/canvas-go/internal/typeid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const tokenTTL = 24 * time.Hour

// Service trades an API key for a short-lived token. With no key hash
// configured it is disabled and every request is let through.
type Service struct {
	apiKeyHash []byte
	jwtSecret  []byte
	now        func() time.Time
}

func NewService(apiKeyHash, jwtSecret string) *Service {
	return &Service{
		apiKeyHash: []byte(apiKeyHash),
		jwtSecret:  []byte(jwtSecret),
		now:        time.Now,
	}
}

type TokenResult struct {
	Token     string `json:"token"`
	ClientID  string `json:"clientId"`
	ExpiresAt int64  `json:"expiresAt"`
}

// HashAPIKey returns the bcrypt hash to put in API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), 12)
	if err != nil {
		return "", fmt.Errorf("hash api key: %w", err)
	}
	return string(hash), nil
}

func (s *Service) Enabled() bool {
	return len(s.apiKeyHash) > 0
}

// IssueToken checks apiKey and returns a token for a new client identity.
func (s *Service) IssueToken(apiKey, name string) (*TokenResult, error) {
	if !s.Enabled() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.apiKeyHash, []byte(apiKey)); err != nil {
		return nil, ErrInvalidCredentials
	}

	clientID := typeid.NewClientID()
	now := s.now()
	exp := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub":  clientID,
		"name": name,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &TokenResult{Token: signed, ClientID: clientID, ExpiresAt: exp.Unix()}, nil
}

// Identity is who a token was issued to.
type Identity struct {
	ClientID string
	Name     string
}

func (s *Service) ValidateToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	clientID, ok := claims["sub"].(string)
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)

	return &Identity{ClientID: clientID, Name: name}, nil
}
