package validation

import (
	"encoding/json"
	"errors"
	"regexp"

	"github.com/autoforge/waitlist-api/pkg/models"
)

// ErrInvalidEmail is returned for a missing, non-string or malformed address.
var ErrInvalidEmail = errors.New("invalid email address")

// notSpaceOrAt excludes every character a browser regexp treats as whitespace,
// which is wider than RE2's ASCII-only \s.
const notSpaceOrAt = `[^\s\v\p{Z}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + notSpaceOrAt + `+@` + notSpaceOrAt + `+\.` + notSpaceOrAt + `+$`)

// ValidEmail reports whether s looks like local@domain.tld
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ParseSignup decodes a waitlist payload and checks the address.
func ParseSignup(body []byte) (models.SignupRequest, error) {
	var req models.SignupRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return models.SignupRequest{}, ErrInvalidEmail
	}
	if !ValidEmail(req.Email) {
		return models.SignupRequest{}, ErrInvalidEmail
	}
	return req, nil
}
