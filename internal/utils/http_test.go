package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaughan-dsouza/authapi/internal/common"
)

type payload struct {
	Email string `json:"email"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"object", `{"email":"a@b.c"}`, "a@b.c", false},
		{"unknown fields ignored", `{"email":"a@b.c","extra":1}`, "a@b.c", false},
		{"empty body", ``, "", false},
		{"malformed", `{"email":`, "", true},
		{"wrong type", `{"email":5}`, "", true},
		{"trailing data", `{"email":"a"} {"email":"b"}`, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var p payload
			err := DecodeJSON(httptest.NewRecorder(), r, &p)
			if tc.wantErr {
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Email)
		})
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	big := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	var p payload
	err := DecodeJSON(httptest.NewRecorder(), r, &p)
	assert.ErrorIs(t, err, common.ErrBodyTooLarge)
	assert.NotErrorIs(t, err, common.ErrValidation)

	status, msg := Classify(err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "Request body too large", msg)
}
