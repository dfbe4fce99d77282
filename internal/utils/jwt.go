package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

const DefaultTokenTTL = 8 * time.Hour

// TokenConfig is the signing configuration shared by issuance and validation.
type TokenConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

type JWTManager struct {
	config TokenConfig
	now    func() time.Time
}

type AccessClaims struct {
	Username    string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CodAssessor string `json:"cod_assessor"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject of the token.
func (c *AccessClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenSubject carries the identity fields embedded in an access token.
type TokenSubject struct {
	UserID      int64
	Username    string
	Email       string
	Role        string
	CodAssessor string
}

func NewJWTManager(config TokenConfig) (*JWTManager, error) {
	if len(config.Secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	secret := make([]byte, len(config.Secret))
	copy(secret, config.Secret)
	config.Secret = secret
	if config.TTL <= 0 {
		config.TTL = DefaultTokenTTL
	}
	return &JWTManager{config: config, now: time.Now}, nil
}

// WithClock returns a copy of the manager that reads time from now.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	clone := *m
	clone.now = now
	return &clone
}

func (m *JWTManager) TTL() time.Duration {
	return m.config.TTL
}

func (m *JWTManager) IssueAccessToken(subject TokenSubject) (string, time.Duration, error) {
	now := m.now()
	claims := AccessClaims{
		Username:    subject.Username,
		Email:       subject.Email,
		Role:        subject.Role,
		CodAssessor: subject.CodAssessor,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			Subject:   strconv.FormatInt(subject.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}
	if m.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.config.Audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.config.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, m.config.TTL, nil
}

func (m *JWTManager) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.config.Secret, nil
	}, options...)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
