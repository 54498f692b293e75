package codegen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom_GenerateAlphabetAndLength(t *testing.T) {
	g := NewRandom()
	base36 := regexp.MustCompile(`^[0-9a-z]{1,7}$`)

	for i := 0; i < 1000; i++ {
		code := g.Generate()
		require.Regexp(t, base36, code)
	}
}

func TestRandom_GenerateIsNotRepeating(t *testing.T) {
	g := NewRandom()
	seen := make(map[string]struct{}, 10000)

	for i := 0; i < 10000; i++ {
		seen[g.Generate()] = struct{}{}
	}

	// 10k draws out of 62^6 values; a duplicate or two is possible but rare
	assert.GreaterOrEqual(t, len(seen), 9995)
}
