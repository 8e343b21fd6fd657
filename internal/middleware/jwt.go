package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vaughan-dsouza/authapi/internal/auth"
	"github.com/vaughan-dsouza/authapi/internal/common"
	"github.com/vaughan-dsouza/authapi/internal/utils"
)

type ctxKey string

const claimsKey ctxKey = "claims"

type TokenValidator interface {
	Validate(header string, now time.Time) (*auth.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the token's claims in the request context. rejected, if set, is called
// with a short reason for every refused request.
func AuthMiddleware(v TokenValidator, now func() time.Time, rejected func(reason string)) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.Validate(r.Header.Get("Authorization"), now())
			if err != nil {
				if rejected != nil {
					rejected(rejectReason(err))
				}
				utils.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, common.ErrMissingAuthHeader):
		return "missing_header"
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrInvalidToken):
		return "invalid"
	default:
		return "error"
	}
}
