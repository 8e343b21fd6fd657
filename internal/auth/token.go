// Package auth holds the credential primitives: bcrypt password hashing and
// HS256 bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vaughan-dsouza/authapi/internal/common"
)

var signingMethod = jwt.SigningMethodHS256

const bearerPrefix = "Bearer "

// Claims is the token payload: sub, role, email, iat and exp.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SubjectInt returns the subject as a user id, or 0 if it is not numeric.
func (c *Claims) SubjectInt() int64 {
	v, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Issuer signs tokens with a fixed secret and lifetime.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret not configured")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: token ttl must be positive, got %s", ttl)
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue returns a signed token for the user and its expiry instant.
func (i *Issuer) Issue(userID int64, role, email string, now time.Time) (string, time.Time, error) {
	exp := now.Add(i.ttl)

	claims := Claims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, exp, nil
}

// Validator checks bearer tokens produced by an Issuer with the same secret.
type Validator struct {
	secret []byte
}

func NewValidator(secret string) (*Validator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret not configured")
	}
	return &Validator{secret: []byte(secret)}, nil
}

// Validate takes a raw Authorization header value and returns the token's
// claims. The checks run in order: header shape, token structure and
// signature, then expiry against now (exp must be strictly after now).
func (v *Validator) Validate(header string, now time.Time) (*Claims, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	return v.Parse(token, now)
}

// Parse validates a bare token string.
func (v *Validator) Parse(tokenStr string, now time.Time) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	return &claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// value. Anything not starting with the exact "Bearer " prefix is a missing
// header; what follows the prefix is returned as is, even when empty, and
// left for Parse to reject.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", common.ErrMissingAuthHeader
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), nil
}
