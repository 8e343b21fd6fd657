package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Registered()
	m.Registered()
	m.RegistrationRejected("conflict")
	m.LoggedIn()
	m.LoginRejected("invalid_credentials")
	m.TokenRejected("expired")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authFailures.WithLabelValues("expired")))
}

func TestHandler_ExposesCounters(t *testing.T) {
	m := New()
	m.LoggedIn()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `authapi_logins_total{outcome="ok"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
