package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "wordle-tls"

// Claims identify an operator of the ops HTTP surface.
type Claims struct {
	Operator string `json:"op"`
	jwt.RegisteredClaims
}

func Sign(secret []byte, operator string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func Verify(secret []byte, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || claims.Operator == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Service binds Sign and Verify to one secret.
type Service struct {
	secret []byte
}

func NewService(secret []byte) *Service { return &Service{secret: secret} }

func (s *Service) Sign(operator string, ttl time.Duration) (string, error) {
	return Sign(s.secret, operator, ttl)
}

func (s *Service) Verify(token string) (*Claims, error) {
	return Verify(s.secret, token)
}
