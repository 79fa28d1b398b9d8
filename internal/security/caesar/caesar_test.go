package caesar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObscure_KnownVectors(t *testing.T) {
	// Vectores del formato de wire legado (shift 3).
	cases := []struct{ plain, want string }{
		{"abc", "def"},
		{"xyz", "abc"},
		{"ABC", "DEF"},
		{"789", "012"},
		{"secret1", "vhfuhw4"},
		{"p@ss w0rd!", "s@vv z3ug!"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Obscure(c.plain, DefaultShift), "plain %q", c.plain)
	}
}

func TestRevealInvertsObscure_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		// String aleatorio de ASCII imprimible (0x20..0x7e)
		n := rng.Intn(64)
		b := make([]byte, n)
		for j := range b {
			b[j] = byte(0x20 + rng.Intn(0x7f-0x20))
		}
		s := string(b)
		shift := rng.Intn(2001) - 1000 // shifts negativos incluidos

		require.Equal(t, s, Reveal(Obscure(s, shift), shift),
			"s=%q shift=%d", s, shift)
	}
}

func TestObscure_NonAlphanumericPassThrough(t *testing.T) {
	s := "!@# $%^&*()_+-=[]{};:'\",.<>/?|\\~`"
	assert.Equal(t, s, Obscure(s, 17))
	assert.Equal(t, s, Reveal(s, 17))
}
