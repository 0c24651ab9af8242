package profile

import (
	"errors"
	"net/http"
	"strings"
)

// Token extraction errors. Their text is sent to the client verbatim.
var (
	ErrTokenNotFound  = errors.New("Authorization token is missing")
	ErrTokenNotBearer = errors.New("Authorization token is not of type Bearer")
)

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header. The header value is split on the first space only, so the token
// itself may contain spaces.
func BearerToken(h http.Header) (string, error) {
	values := h.Values("Authorization")
	if len(values) == 0 {
		return "", ErrTokenNotFound
	}

	parts := strings.SplitN(values[0], " ", 2)
	if parts[0] != "Bearer" {
		return "", ErrTokenNotBearer
	}
	if len(parts) < 2 {
		return "", ErrTokenNotFound
	}
	return parts[1], nil
}
