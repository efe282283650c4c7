package validate

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrMissingToken means no bearer token was presented.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrMalformedToken means the presented token is not a random UUID.
	ErrMalformedToken = errors.New("malformed bearer token")
)

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an Authorization header value and
// checks that it is a canonical version 4 or 5 UUID.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" || header == strings.TrimSpace(bearerPrefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

	id, err := uuid.Parse(token)
	if err != nil || len(token) != 36 {
		return "", ErrMalformedToken
	}
	if v := id.Version(); v != 4 && v != 5 {
		return "", ErrMalformedToken
	}
	if id.Variant() != uuid.RFC4122 {
		return "", ErrMalformedToken
	}
	return token, nil
}
