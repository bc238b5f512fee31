package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Claims represents the session JWT: the session Token plus registered claims.
type Claims struct {
	Token
	jwt.RegisteredClaims
}

// JWTService signs and validates session tokens.
type JWTService struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret and session lifetime.
func NewJWTService(secret string, maxAge time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// MaxAge is the lifetime given to every issued token.
func (s *JWTService) MaxAge() time.Duration {
	return s.maxAge
}

// Issue signs token with a fresh token ID and expiry.
func (s *JWTService) Issue(token Token) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		Token: token,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        generateTokenID(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if token.UserID != nil {
		claims.Subject = *token.UserID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse validates a signed token and returns its claims.
func (s *JWTService) Parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" {
		return nil, errors.New("token ID not found")
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("token expiry not found")
	}
	return claims, nil
}

// Remaining reports how long the claims stay valid, never negative.
func (s *JWTService) Remaining(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	d := claims.ExpiresAt.Time.Sub(s.now())
	if d < 0 {
		return 0
	}
	return d
}

func generateTokenID() string {
	return uuid.New().String()
}
