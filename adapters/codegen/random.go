package codegen

import (
	"crypto/rand"
	"math/big"
)

// codeSpace is the number of distinct codes, 62^6
var codeSpace = new(big.Int).Exp(big.NewInt(62), big.NewInt(6), nil)

// Random draws codes uniformly from codeSpace and renders them in base 36
type Random struct{}

// NewRandom creates a code generator backed by crypto/rand
func NewRandom() *Random {
	return &Random{}
}

// Generate returns a fresh code. It panics if the system entropy source fails.
func (Random) Generate() string {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		panic("codegen: entropy source failed: " + err.Error())
	}
	return n.Text(36)
}
