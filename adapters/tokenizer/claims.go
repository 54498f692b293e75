package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims combines standard claims with access-specific ones
type AccessClaims struct {
	jwt.RegisteredClaims
	RefreshID string `json:"rid"` // ID of the refresh token
	Name      string `json:"name"`
	Authority int    `json:"authority"`
}

// RefreshClaims carry the identity so rotation can mint a new access token
type RefreshClaims struct {
	jwt.RegisteredClaims
	Name      string `json:"name"`
	Authority int    `json:"authority"`
}
