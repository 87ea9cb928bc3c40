package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"lowercases", "Eviction NOTICE", []string{"eviction", "notice"}},
		{"strips punctuation", "tenant's deposit, refund!", []string{"tenant", "deposit", "refund"}},
		{"drops short tokens", "a I of CCP 1161", []string{"of", "ccp", "1161"}},
		{"statute citations", "CCP § 430.10", []string{"ccp", "430", "10"}},
		{"empty", "", nil},
		{"only punctuation", "§§ -- ... !", nil},
		{"numbers survive", "rule 3.26 deadline 15 days", []string{"rule", "26", "deadline", "15", "days"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_SingleCharDropped(t *testing.T) {
	// Tokens of length <= 1 are dropped, length 2 kept.
	assert.Empty(t, Tokenize("a b c 1 2"))
	assert.Equal(t, []string{"ab"}, Tokenize("a ab b"))
}

func TestTokenSet(t *testing.T) {
	set := TokenSet("eviction notice eviction")
	assert.Len(t, set, 2)
	assert.Contains(t, set, "eviction")
	assert.Contains(t, set, "notice")
}
