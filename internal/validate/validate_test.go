package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "  Sincere@april.biz  ", "first.last+tag@sub.example.org"}
	for _, e := range valid {
		assert.True(t, Email(e), e)
	}

	invalid := []string{"", "   ", "plain", "a@b", "a b@c.d", "@b.co", "a@@b.co",
		strings.Repeat("a", 250) + "@b.co"}
	for _, e := range invalid {
		assert.False(t, Email(e), e)
	}
}

func TestPassword(t *testing.T) {
	assert.False(t, Password(""))
	assert.False(t, Password("12345"))
	assert.True(t, Password("123456"))
	assert.True(t, Password(strings.Repeat("x", MaxPasswordLength)))
	assert.False(t, Password(strings.Repeat("x", MaxPasswordLength+1)))
}

func TestSignup(t *testing.T) {
	assert.Equal(t, Outcome{Message: MsgInvalidEmail}, Signup("nope", "short"))
	assert.Equal(t, Outcome{Message: MsgInvalidPassword}, Signup("a@b.co", "short"))
	assert.Equal(t, Outcome{OK: true, Message: MsgSignupOK}, Signup("a@b.co", "longenough"))
}

func TestSample(t *testing.T) {
	assert.False(t, Sample("Ann", "", "blue").OK)
	assert.False(t, Sample("Ann", "a@b.co", " ").OK)
	assert.True(t, Sample("Ann", "a@b.co", "blue").OK)
}
