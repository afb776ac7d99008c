package sync

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidDomainName_Table(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"example.com", true},
		{"example", true},
		{"sub.example.com", true},
		{"a.b.c", true},
		{"xn--bcher-kva.example", true},
		{strings.Repeat("a", 63) + ".com", true},

		{"", false},
		{"bad domain", false},
		{" example.com", false},
		{"example.com ", false},
		{"exam\tple.com", false},
		{"a.b.c.d", false},
		{"example..com", false},
		{".example.com", false},
		{"example.com.", false},
		{strings.Repeat("a", 64) + ".com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidDomainName(tt.name), "candidate %q", tt.name)
		})
	}
}

func TestValidDomainName_GeneratedValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789-"

	randomLabel := func() string {
		n := 1 + rng.Intn(63)
		b := make([]byte, n)
		for i := range b {
			b[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(b)
	}

	for i := 0; i < 500; i++ {
		labelCount := 1 + rng.Intn(3)
		labels := make([]string, labelCount)
		for j := range labels {
			labels[j] = randomLabel()
		}
		name := strings.Join(labels, ".")
		assert.True(t, ValidDomainName(name), "generated candidate %q", name)
	}
}

func TestValidDomainName_GeneratedInvalid(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 500; i++ {
		base := "example.com"
		var name string
		switch rng.Intn(3) {
		case 0:
			// Whitespace injected at a random position.
			pos := rng.Intn(len(base))
			ws := []string{" ", "\t", "\n"}[rng.Intn(3)]
			name = base[:pos] + ws + base[pos:]
		case 1:
			// Too many labels.
			n := 4 + rng.Intn(4)
			labels := make([]string, n)
			for j := range labels {
				labels[j] = "x"
			}
			name = strings.Join(labels, ".")
		case 2:
			// Oversized label.
			name = strings.Repeat("z", 64+rng.Intn(20)) + ".com"
		}
		assert.False(t, ValidDomainName(name), "generated candidate %q", name)
	}
}
