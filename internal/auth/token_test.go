package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaughan-dsouza/authapi/internal/common"
)

const testSecret = "super-secret"

var issuedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newPair(t *testing.T, ttl time.Duration) (*Issuer, *Validator) {
	t.Helper()
	iss, err := NewIssuer(testSecret, ttl)
	require.NoError(t, err)
	val, err := NewValidator(testSecret)
	require.NoError(t, err)
	return iss, val
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	iss, val := newPair(t, time.Hour)

	tok, exp, err := iss.Issue(42, "admin", "alice@example.com", issuedAt)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), exp)

	claims, err := val.Validate("Bearer "+tok, issuedAt.Add(30*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, int64(42), claims.SubjectInt())
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, issuedAt, claims.IssuedAt.Time.UTC())
	assert.Equal(t, exp, claims.ExpiresAt.Time.UTC())
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	iss, val := newPair(t, time.Hour)

	tok, exp, err := iss.Issue(1, "student", "a@b.c", issuedAt)
	require.NoError(t, err)

	_, err = val.Validate("Bearer "+tok, exp.Add(-time.Second))
	assert.NoError(t, err)

	_, err = val.Validate("Bearer "+tok, exp)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	_, err = val.Validate("Bearer "+tok, exp.Add(24*time.Hour))
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestValidate_HeaderShape(t *testing.T) {
	_, val := newPair(t, time.Hour)

	for _, h := range []string{"", "   ", "Bearer", "Token abc", "Basic dXNlcjpwdw==", "abc.def.ghi"} {
		_, err := val.Validate(h, issuedAt)
		assert.ErrorIs(t, err, common.ErrMissingAuthHeader, "header %q", h)
	}
}

func TestValidate_EmptyTokenAfterPrefixIsInvalid(t *testing.T) {
	_, val := newPair(t, time.Hour)

	for _, h := range []string{"Bearer ", "Bearer    "} {
		_, err := val.Validate(h, issuedAt)
		assert.ErrorIs(t, err, common.ErrInvalidToken, "header %q", h)
	}
}

func TestValidate_SchemeIsCaseSensitive(t *testing.T) {
	iss, val := newPair(t, time.Hour)
	tok, _, err := iss.Issue(3, "student", "c@d.e", issuedAt)
	require.NoError(t, err)

	_, err = val.Validate("Bearer "+tok, issuedAt)
	assert.NoError(t, err)

	for _, scheme := range []string{"bearer", "BEARER"} {
		_, err := val.Validate(scheme+" "+tok, issuedAt)
		assert.ErrorIs(t, err, common.ErrMissingAuthHeader, scheme)
	}
}

func TestValidate_InvalidTokens(t *testing.T) {
	iss, val := newPair(t, time.Hour)
	good, _, err := iss.Issue(5, "student", "e@f.g", issuedAt)
	require.NoError(t, err)

	otherIss, err := NewIssuer("another-secret", time.Hour)
	require.NoError(t, err)
	foreign, _, err := otherIss.Issue(5, "student", "e@f.g", issuedAt)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "5",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "5"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":       "not-a-jwt",
		"three parts":   "not.a.jwt",
		"truncated":     good[:len(good)-4],
		"wrong secret":  foreign,
		"alg none":      unsigned,
		"missing exp":   noExp,
		"missing sub":   noSub,
		"tampered body": tamper(good),
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := val.Validate("Bearer "+tok, issuedAt)
			assert.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}

func TestValidate_ExpiredWithBadSignatureIsInvalid(t *testing.T) {
	otherIss, err := NewIssuer("another-secret", time.Minute)
	require.NoError(t, err)
	_, val := newPair(t, time.Minute)

	tok, _, err := otherIss.Issue(1, "student", "a@b.c", issuedAt)
	require.NoError(t, err)

	_, err = val.Validate("Bearer "+tok, issuedAt.Add(time.Hour))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestNewIssuer_RequiresSecretAndTTL(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.Error(t, err)
	_, err = NewIssuer("  ", time.Hour)
	assert.Error(t, err)
	_, err = NewIssuer("k", 0)
	assert.Error(t, err)
	_, err = NewValidator("")
	assert.Error(t, err)
}

// tamper flips one character of the payload segment.
func tamper(tok string) string {
	b := []byte(tok)
	for i := range b {
		if b[i] == '.' {
			j := i + 2
			if b[j] == 'A' {
				b[j] = 'B'
			} else {
				b[j] = 'A'
			}
			break
		}
	}
	return string(b)
}
