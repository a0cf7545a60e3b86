package jwt

import (
	"errors"
	"time"

	"shop-order-scheduler/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

func NewService(secretKey string, tokenDuration time.Duration) *Service {
	return &Service{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

func (s *Service) GenerateToken(p auth.Principal) (string, error) {
	now := s.now()
	claims := Claims{
		Role: p.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *Service) ValidateToken(tokenString string) (auth.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Principal{}, ErrExpiredToken
		}
		return auth.Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return auth.Principal{}, ErrInvalidToken
	}

	role, err := auth.NewRole(claims.Role)
	if err != nil {
		return auth.Principal{}, ErrInvalidToken
	}
	principal, err := auth.NewPrincipal(claims.Subject, role)
	if err != nil {
		return auth.Principal{}, ErrInvalidToken
	}
	return principal, nil
}
