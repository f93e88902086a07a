package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.co", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"not-an-email", false},
		{"a@b", false},
		{"@b.co", false},
		{"a@.co", false},
		{"a@b.", false},
		{"a b@c.co", false},
		{"a@@b.co", false},
		{"a@b.co\n", false},
		{"a\vb@c.co", false},
		{"a\u00a0b@c.co", false},
		{"a\u2003b@c.co", false},
		{"a@b\u3000c.co", false},
		{"a@b.c\u2028o", false},
		{"\ufeffa@b.co", false},
		{"a@b.c\u202fo", false},
		{"ü@bücher.de", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestParseSignup(t *testing.T) {
	req, err := ParseSignup([]byte(`{"email":"a@b.co"}`))
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", req.Email)

	for _, body := range []string{``, `{}`, `{"email":42}`, `{"email":"nope"}`, `not json`} {
		_, err := ParseSignup([]byte(body))
		assert.ErrorIs(t, err, ErrInvalidEmail, body)
	}
}
