package utils

import (
	"errors"
	"net/http"

	"github.com/vaughan-dsouza/authapi/internal/common"
)

// ErrorStatus maps an error kind to its HTTP status and response message.
// An empty Message means the error's own text is sent.
type ErrorStatus struct {
	Err     error
	Status  int
	Message string
}

// ErrorTable is the single mapping from error kind to response. Order
// matters only if kinds overlap; they do not.
var ErrorTable = []ErrorStatus{
	{common.ErrValidation, http.StatusBadRequest, ""},
	{common.ErrBodyTooLarge, http.StatusRequestEntityTooLarge, "Request body too large"},
	{common.ErrEmailTaken, http.StatusConflict, "Email already registered"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{common.ErrMissingAuthHeader, http.StatusUnauthorized, "Missing or invalid Authorization header"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "Token expired"},
	{common.ErrNotFound, http.StatusNotFound, "User not found"},
}

// Classify returns the status and client-facing message for err. Unknown
// errors are 500 with a generic message.
func Classify(err error) (int, string) {
	for _, e := range ErrorTable {
		if errors.Is(err, e.Err) {
			if e.Message == "" {
				var ve *common.ValidationError
				if errors.As(err, &ve) {
					return e.Status, ve.Reason
				}
				return e.Status, err.Error()
			}
			return e.Status, e.Message
		}
	}
	return http.StatusInternalServerError, "internal error"
}

// WriteError sends the classified response for err.
func WriteError(w http.ResponseWriter, err error) int {
	status, msg := Classify(err)
	JSONError(w, status, msg)
	return status
}
